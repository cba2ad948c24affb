// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content provides file content for virtual file trees.
//
// A [Source] reports the length of a physical resource and reads its bytes on
// demand. A [Handle] wraps a [Source] and loads its bytes lazily on first
// access. Handles are reference counted so that one physical resource can be
// referenced from multiple virtual locations without duplicating its bytes in
// memory.
package content
