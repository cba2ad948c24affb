// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreload(t *testing.T) {
	root := vfs.New()
	mustInsert(t, root, "a/one", "a/b/two", "three")

	_, err := root.Link(vpath.Parse("three"), vpath.Parse("a/link"), 0)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 4} {
		require.NoError(t, root.Preload(context.Background(), workers))
	}

	err = root.Walk(func(path vpath.Path, _ *vfs.Directory, file *vfs.FileEntry) error {
		if file != nil {
			assert.True(t, file.Handle().Loaded(), path.String())
		}

		return nil
	})
	require.NoError(t, err)
}

func TestPreloadSubtree(t *testing.T) {
	root := vfs.New()
	mustInsert(t, root, "a/one", "b/two")

	folder, err := root.LookupFolder(vpath.Parse("a"))
	require.NoError(t, err)
	require.NoError(t, folder.Preload(context.Background(), 2))

	one, err := root.LookupFile(vpath.Parse("a/one"))
	require.NoError(t, err)
	assert.True(t, one.Handle().Loaded())

	two, err := root.LookupFile(vpath.Parse("b/two"))
	require.NoError(t, err)
	assert.False(t, two.Handle().Loaded())
}

func TestPreloadUnavailable(t *testing.T) {
	fsys := fstest.MapFS{
		"gone": &fstest.MapFile{Data: []byte("gone")},
	}

	root := vfs.New()
	mustInsert(t, root, "fine")

	_, err := root.InsertFile(vpath.Parse("gone"), content.NewFile(fsys, "gone"), 0)
	require.NoError(t, err)

	delete(fsys, "gone")

	err = root.Preload(context.Background(), 1)
	require.ErrorIs(t, err, content.ErrSourceUnavailable)
	assert.ErrorContains(t, err, "preload gone")
}

func TestPreloadCanceled(t *testing.T) {
	root := vfs.New()
	mustInsert(t, root, "file")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := root.Preload(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}
