// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bulk

import (
	"fmt"
	"regexp"

	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
)

var _ vfs.BulkSource = (*Filtered)(nil)

// Filtered is a [vfs.BulkSource] that only passes entries of another source
// whose base name matches a regular expression completely.
type Filtered struct {
	Source  vfs.BulkSource
	Pattern *regexp.Regexp
}

// NewFiltered creates a new [Filtered] for the given source. The pattern
// must match the whole base name of an entry.
func NewFiltered(source vfs.BulkSource, pattern string) (*Filtered, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	return &Filtered{
		Source:  source,
		Pattern: re,
	}, nil
}

// MountPoint implements [vfs.BulkSource].
func (f *Filtered) MountPoint() vpath.Path {
	return f.Source.MountPoint()
}

// Enumerate implements [vfs.BulkSource].
func (f *Filtered) Enumerate() ([]vfs.BulkEntry, error) {
	entries, err := f.Source.Enumerate()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	var filtered []vfs.BulkEntry

	for _, entry := range entries {
		name, err := entry.Path.Last()
		if err == nil && f.Pattern.MatchString(name) {
			filtered = append(filtered, entry)
		}
	}

	return filtered, nil
}
