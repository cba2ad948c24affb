// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive mounts cpio archives into virtual file trees and exports
// virtual file trees as cpio archives.
//
// Archives use the SVR4 "newc" cpio format. They may be compressed as a
// whole with zstd or lz4 frames. Compression is detected by magic bytes when
// reading.
//
// An [Archive] implements [vfs.BulkSource]. Its entries do not hold any
// content until loaded. Loading an entry re-opens the archive and scans to
// the entry.
package archive
