// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"errors"
	"io/fs"

	"github.com/aibor/datvfs/vpath"
)

// notExistError matches [fs.ErrNotExist] as well.
type notExistError string

func (e notExistError) Error() string { return string(e) }

func (notExistError) Is(target error) bool { return target == fs.ErrNotExist }

var (
	// ErrMissingFolder is returned if a path component does not resolve to a
	// folder.
	ErrMissingFolder error = notExistError("missing folder")

	// ErrMissingFile is returned if the final path component does not resolve
	// to a file.
	ErrMissingFile error = notExistError("missing file")

	// ErrMountUnresolved is returned if the mount point of a [BulkSource]
	// can not be reached.
	ErrMountUnresolved error = notExistError("mount point unresolved")

	// ErrInvalidName is returned if a name is empty, contains a path
	// separator or is a navigation name where a real name is required.
	ErrInvalidName = vpath.ErrInvalidName

	// ErrInvalidSource is returned if a nil source or a nil or released
	// handle is inserted.
	ErrInvalidSource = errors.New("invalid source")
)

// PathError records an error and the operation and virtual path that caused
// it.
type PathError = fs.PathError

func pathError(op string, path vpath.Path, err error) error {
	return &PathError{
		Op:   op,
		Path: path.String(),
		Err:  err,
	}
}
