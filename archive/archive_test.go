// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/aibor/datvfs/archive"
	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
	"github.com/cavaliergopher/cpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	name string
	mode cpio.FileMode
	body string
}

func buildCPIO(t *testing.T, members ...member) []byte {
	t.Helper()

	var buf bytes.Buffer

	w := cpio.NewWriter(&buf)

	for _, m := range members {
		require.NoError(t, w.WriteHeader(&cpio.Header{
			Name: m.name,
			Mode: m.mode,
			Size: int64(len(m.body)),
		}))

		_, err := w.Write([]byte(m.body))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestArchiveEnumerate(t *testing.T) {
	data := buildCPIO(t,
		member{name: ".", mode: cpio.TypeDir | 0o755},
		member{name: "./maps", mode: cpio.TypeDir | 0o755},
		member{name: "./maps/level.map", mode: cpio.TypeReg | 0o644, body: "level"},
		member{name: "/abs.txt", mode: cpio.TypeReg | 0o644, body: "abs"},
		member{name: "link", mode: cpio.TypeSymlink | 0o777, body: "abs.txt"},
		member{name: "dup", mode: cpio.TypeReg | 0o644, body: "first"},
		member{name: "./dup", mode: cpio.TypeReg | 0o644, body: "second"},
	)

	fsys := fstest.MapFS{"data.cpio": &fstest.MapFile{Data: data}}
	arc := archive.New(fsys, "data.cpio", vpath.Parse("mnt"))

	assert.Equal(t, "data.cpio", arc.Name())
	assert.Equal(t, vpath.Parse("mnt"), arc.MountPoint())

	entries, err := arc.Enumerate()
	require.NoError(t, err)

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path.String())
	}

	assert.Equal(t, []string{"maps/level.map", "abs.txt", "dup"}, paths)

	root := vfs.New()

	count, err := root.InsertBulk(arc, vfs.CreateFolders)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	for path, expected := range map[string]string{
		"mnt/maps/level.map": "level",
		"mnt/abs.txt":        "abs",
		"mnt/dup":            "second",
	} {
		file, err := root.LookupFile(vpath.Parse(path))
		require.NoError(t, err, path)
		assert.Equal(t, int64(len(expected)), file.Len(), path)
		assert.False(t, file.Handle().Loaded(), path)

		actual, err := file.Bytes()
		require.NoError(t, err, path)
		assert.Equal(t, expected, string(actual), path)
	}
}

func TestArchiveEnumerateErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := archive.New(fstest.MapFS{}, "missing.cpio", nil).Enumerate()
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		fsys := fstest.MapFS{"bad.cpio": &fstest.MapFile{Data: []byte("not an archive at all")}}

		_, err := archive.New(fsys, "bad.cpio", nil).Enumerate()
		require.Error(t, err)
	})
}

func TestEntryArchiveChanged(t *testing.T) {
	fsys := fstest.MapFS{
		"data.cpio": &fstest.MapFile{Data: buildCPIO(t,
			member{name: "file", mode: cpio.TypeReg | 0o644, body: "content"},
		)},
	}

	root := vfs.New()

	_, err := root.InsertBulk(archive.New(fsys, "data.cpio", nil), 0)
	require.NoError(t, err)

	file, err := root.LookupFile(vpath.Parse("file"))
	require.NoError(t, err)
	assert.Equal(t, "data.cpio:file", content.SourceName(file.Handle().Source()))

	fsys["data.cpio"] = &fstest.MapFile{Data: buildCPIO(t,
		member{name: "other", mode: cpio.TypeReg | 0o644, body: "content"},
	)}

	_, err = file.Bytes()
	require.ErrorIs(t, err, archive.ErrEntryNotFound)

	delete(fsys, "data.cpio")

	_, err = file.Bytes()
	require.ErrorIs(t, err, content.ErrSourceUnavailable)
}

func TestArchiveMemberLeavingMountPoint(t *testing.T) {
	fsys := fstest.MapFS{
		"data.cpio": &fstest.MapFile{Data: buildCPIO(t,
			member{name: "ok.txt", mode: cpio.TypeReg | 0o644, body: "ok"},
			member{name: "../../evil.txt", mode: cpio.TypeReg | 0o644, body: "evil"},
		)},
	}

	root := vfs.New()

	_, err := root.InsertBulk(archive.New(fsys, "data.cpio", vpath.Parse("mods/pack")), vfs.CreateFolders)
	require.ErrorIs(t, err, vfs.ErrInvalidName)

	_, err = root.LookupFile(vpath.Parse("evil.txt"))
	require.ErrorIs(t, err, vfs.ErrMissingFile)
	assert.Zero(t, root.CountFiles())
}

func TestArchiveAtSharesHandles(t *testing.T) {
	fsys := fstest.MapFS{
		"data.cpio": &fstest.MapFile{Data: buildCPIO(t,
			member{name: "maps/level.map", mode: cpio.TypeReg | 0o644, body: "level"},
		)},
	}

	arc := archive.New(fsys, "data.cpio", vpath.Parse("m1"))
	other := arc.At(vpath.Parse("m2"))

	assert.Equal(t, vpath.Parse("m2"), other.MountPoint())
	assert.Equal(t, arc.Name(), other.Name())

	root := vfs.New()

	for _, source := range []vfs.BulkSource{arc, other} {
		_, err := root.InsertBulk(source, vfs.CreateFolders)
		require.NoError(t, err)
	}

	first, err := root.LookupFile(vpath.Parse("m1/maps/level.map"))
	require.NoError(t, err)

	second, err := root.LookupFile(vpath.Parse("m2/maps/level.map"))
	require.NoError(t, err)

	assert.Same(t, first.Handle(), second.Handle())
	assert.Equal(t, 2, first.Handle().References())

	t.Run("changed member gets new entry", func(t *testing.T) {
		fsys["data.cpio"] = &fstest.MapFile{Data: buildCPIO(t,
			member{name: "maps/level.map", mode: cpio.TypeReg | 0o644, body: "changed"},
		)}

		_, err := root.InsertBulk(arc.At(vpath.Parse("m3")), vfs.CreateFolders)
		require.NoError(t, err)

		third, err := root.LookupFile(vpath.Parse("m3/maps/level.map"))
		require.NoError(t, err)
		assert.NotSame(t, first.Handle(), third.Handle())
		assert.Equal(t, "changed", string(mustBytes(t, third)))
	})
}

func mustBytes(t *testing.T, file *vfs.FileEntry) []byte {
	t.Helper()

	data, err := file.Bytes()
	require.NoError(t, err)

	return data
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.cpio")
	data := buildCPIO(t, member{name: "file", mode: cpio.TypeReg | 0o644, body: "loose"})
	require.NoError(t, os.WriteFile(path, data, 0o600))

	root := vfs.New()

	count, err := root.InsertBulk(archive.Open(path, vpath.Parse("arc")), vfs.CreateFolders)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	file, err := root.LookupFile(vpath.Parse("arc/file"))
	require.NoError(t, err)

	actual, err := file.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "loose", string(actual))
}
