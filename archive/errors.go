// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import "errors"

var (
	// ErrUnsupportedCompression is returned for unknown compression names.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrEntryNotFound is returned if an entry is no longer present in its
	// archive.
	ErrEntryNotFound = errors.New("entry not found")
)
