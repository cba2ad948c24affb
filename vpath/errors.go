// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vpath

import "errors"

var (
	// ErrOutOfRange is returned if an index or range is beyond the length of
	// a [Path].
	ErrOutOfRange = errors.New("path index out of range")

	// ErrInvalidName is returned if a name is empty or contains a path
	// separator.
	ErrInvalidName = errors.New("invalid name")
)
