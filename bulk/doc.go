// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package bulk provides [vfs.BulkSource] implementations for directories
// of loose files and for static in-memory file sets.
package bulk
