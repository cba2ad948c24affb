// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import "errors"

var (
	// ErrSourceUnavailable is returned if content is loaded from a source that
	// is missing or is not a regular file.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrReleased is returned if content is requested from a [Handle] that
	// has no references anymore.
	ErrReleased = errors.New("handle released")

	// ErrShortRead is returned if a source delivers less bytes than it
	// reported.
	ErrShortRead = errors.New("short read")
)
