// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bulk

import (
	"slices"

	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
)

var _ vfs.BulkSource = (*Static)(nil)

// Static is a [vfs.BulkSource] with a fixed set of entries.
type Static struct {
	Mount   vpath.Path
	Entries []vfs.BulkEntry
}

// MountPoint implements [vfs.BulkSource].
func (s *Static) MountPoint() vpath.Path {
	return s.Mount
}

// Enumerate implements [vfs.BulkSource]. It returns a copy of the entries.
func (s *Static) Enumerate() ([]vfs.BulkEntry, error) {
	return slices.Clone(s.Entries), nil
}
