// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/vpath"
)

// BulkEntry is a single file provided by a [BulkSource].
type BulkEntry struct {
	// Path relative to the mount point.
	Path vpath.Path

	// Source of the file's content.
	Source content.Source
}

// BulkSource provides many files at once to be mounted under a common mount
// point, like a directory on disk or an archive.
type BulkSource interface {
	// MountPoint returns the virtual path the files are inserted under.
	MountPoint() vpath.Path

	// Enumerate returns all files with their path relative to the mount
	// point.
	Enumerate() ([]BulkEntry, error)
}

// InsertBulk inserts all files of the given [BulkSource] under its mount
// point and returns the number of inserted files.
//
// The insertion is all-or-nothing: the source is enumerated and all entries
// are validated before the tree is changed. Entries must stay below the
// mount point, so [vpath.Parent] components are rejected with
// [ErrInvalidName]. If the mount point does not
// exist, it is created with the [CreateFolders] flag. Without it,
// [ErrMountUnresolved] is returned. Existing files are always overwritten
// and missing folders below the mount point are always created.
func (d *Directory) InsertBulk(source BulkSource, flags InsertFlag) (int, error) {
	mount := source.MountPoint()

	err := mount.Validate()
	if err != nil {
		return 0, pathError("mount", mount, err)
	}

	entries, err := source.Enumerate()
	if err != nil {
		return 0, pathError("mount", mount, fmt.Errorf("enumerate: %w", err))
	}

	for _, entry := range entries {
		err := validateBulkEntry(entry)
		if err != nil {
			return 0, pathError("mount", vpath.Concat(mount, entry.Path), err)
		}
	}

	target, err := d.descend(mount, flags.has(CreateFolders))
	if err != nil {
		return 0, pathError("mount", mount, fmt.Errorf("%w: %w", ErrMountUnresolved, err))
	}

	// Sources may yield the same path more than once. The last one wins and
	// each path is counted once.
	inserted := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		// Can not fail, entries are validated and folders are created.
		_, _ = target.InsertFile(entry.Path, entry.Source, Overwrite|CreateFolders)
		inserted[entry.Path.String()] = struct{}{}
	}

	slog.Debug("Bulk source mounted",
		slog.String("mount", mount.String()),
		slog.Int("files", len(inserted)))

	return len(inserted), nil
}

func validateBulkEntry(entry BulkEntry) error {
	if entry.Source == nil {
		return ErrInvalidSource
	}

	err := entry.Path.Validate()
	if err != nil {
		return err //nolint:wrapcheck
	}

	name, err := entry.Path.Last()
	if err != nil || vpath.IsNavigation(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, entry.Path.String())
	}

	if slices.Contains(entry.Path, vpath.Parent) {
		return fmt.Errorf("%w: %q leaves mount point", ErrInvalidName, entry.Path.String())
	}

	return nil
}
