// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics_test

import (
	"testing"
	"testing/fstest"

	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/internal/metrics"
	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	collector := metrics.New(reg)

	collector.Loaded(100)
	collector.Loaded(20)
	collector.Unloaded(100)
	collector.LoadFailed()

	samples, err := metrics.Gather(reg)
	require.NoError(t, err)

	expected := []metrics.Sample{
		{Name: "datvfs_content_load_failures_total", Value: 1},
		{Name: "datvfs_content_loaded_bytes_total", Value: 120},
		{Name: "datvfs_content_loads_total", Value: 2},
		{Name: "datvfs_content_resident_bytes", Value: 20},
	}
	assert.Equal(t, expected, samples)
}

func TestCollectorAsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)

	fsys := fstest.MapFS{
		"file": &fstest.MapFile{Data: []byte("12345")},
	}

	root := vfs.New(vfs.WithObserver(collector))
	mem := content.NewMemory("mem", []byte("abc"))

	_, err := root.InsertFile(vpath.Parse("mem"), mem, 0)
	require.NoError(t, err)

	_, err = root.InsertFile(vpath.Parse("file"), content.NewFile(fsys, "file"), 0)
	require.NoError(t, err)

	for _, path := range []string{"mem", "file"} {
		file, err := root.LookupFile(vpath.Parse(path))
		require.NoError(t, err)

		_, err = file.Bytes()
		require.NoError(t, err)
	}

	require.NoError(t, root.RemoveFile(vpath.Parse("mem")))

	delete(fsys, "file")
	require.NoError(t, root.RemoveFile(vpath.Parse("file")))

	_, err = root.InsertFile(vpath.Parse("gone"), content.NewFile(fsys, "file"), 0)
	require.NoError(t, err)

	file, err := root.LookupFile(vpath.Parse("gone"))
	require.NoError(t, err)

	_, err = file.Bytes()
	require.Error(t, err)

	samples, err := metrics.Gather(reg)
	require.NoError(t, err)

	values := make(map[string]float64, len(samples))
	for _, sample := range samples {
		values[sample.Name] = sample.Value
	}

	assert.Equal(t, map[string]float64{
		"datvfs_content_load_failures_total": 1,
		"datvfs_content_loaded_bytes_total":  8,
		"datvfs_content_loads_total":         2,
		"datvfs_content_resident_bytes":      0,
	}, values)
}
