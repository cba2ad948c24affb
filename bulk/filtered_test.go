// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bulk_test

import (
	"errors"
	"testing"

	"github.com/aibor/datvfs/bulk"
	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct {
	err error
}

func (failingSource) MountPoint() vpath.Path { return vpath.Path{} }

func (s failingSource) Enumerate() ([]vfs.BulkEntry, error) {
	return nil, s.err
}

func TestFiltered(t *testing.T) {
	dir := &bulk.Dir{
		FS:        testFS(),
		Root:      "data",
		Mount:     vpath.Parse("mnt"),
		Recursive: true,
	}

	tests := []struct {
		pattern  string
		expected []string
	}{
		{pattern: `.*\.map`, expected: []string{"maps/deep/x.map", "maps/level.map"}},
		{pattern: `map`, expected: nil},
		{pattern: `top\.txt|x\.map`, expected: []string{"maps/deep/x.map", "top.txt"}},
		{pattern: `.*`, expected: []string{"empty/.keep", "maps/deep/x.map", "maps/level.map", "top.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			filtered, err := bulk.NewFiltered(dir, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, vpath.Parse("mnt"), filtered.MountPoint())

			entries, err := filtered.Enumerate()
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.expected, entryPaths(entries))
		})
	}
}

func TestFilteredInvalidPattern(t *testing.T) {
	_, err := bulk.NewFiltered(&bulk.Static{}, `(`)
	require.Error(t, err)
}

func TestFilteredSourceError(t *testing.T) {
	enumErr := errors.New("broken")

	filtered, err := bulk.NewFiltered(failingSource{err: enumErr}, `.*`)
	require.NoError(t, err)

	_, err = filtered.Enumerate()
	require.ErrorIs(t, err, enumErr)
}

func TestStatic(t *testing.T) {
	src := content.NewMemory("blob", []byte("blob"))
	static := &bulk.Static{
		Mount: vpath.Parse("mem"),
		Entries: []vfs.BulkEntry{
			{Path: vpath.Parse("a/blob"), Source: src},
			{Path: vpath.Parse("b/blob"), Source: src},
		},
	}

	root := vfs.New()

	count, err := root.InsertBulk(static, vfs.CreateFolders)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	first, err := root.LookupFile(vpath.Parse("mem/a/blob"))
	require.NoError(t, err)

	second, err := root.LookupFile(vpath.Parse("mem/b/blob"))
	require.NoError(t, err)
	assert.Same(t, first.Handle(), second.Handle())
}
