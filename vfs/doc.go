// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package vfs provides an in-memory virtual file tree.
//
// The tree maps virtual paths to file content drawn from heterogeneous
// sources, like loose files on disk, archive entries or in-memory buffers,
// without requiring the sources to be laid out the same way on disk. Multiple
// sources can be mounted under different virtual mount points with
// [Directory.InsertBulk].
//
// File content is not copied into the tree on insertion. Each file entry
// references a [content.Handle] that loads the content on first access. The
// same source inserted at multiple locations shares one handle.
//
// The tree is not safe for concurrent mutation. Callers must ensure a single
// mutator at a time, for example with a lock around the whole tree.
// Read-only operations may run concurrently as long as no mutation is in
// flight.
package vfs
