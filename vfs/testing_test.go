// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs_test

import (
	"testing"

	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
	"github.com/stretchr/testify/require"
)

func mem(data string) *content.Memory {
	return content.NewMemory(data, []byte(data))
}

// mustInsert inserts in-memory files with their path as content.
func mustInsert(tb testing.TB, dir *vfs.Directory, paths ...string) {
	tb.Helper()

	for _, path := range paths {
		inserted, err := dir.InsertFile(vpath.Parse(path), mem(path), vfs.CreateFolders)
		require.NoError(tb, err, path)
		require.True(tb, inserted, path)
	}
}

func mustRead(tb testing.TB, dir *vfs.Directory, path string) string {
	tb.Helper()

	file, err := dir.LookupFile(vpath.Parse(path))
	require.NoError(tb, err, path)

	data, err := file.Bytes()
	require.NoError(tb, err, path)

	return string(data)
}
