// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package vpath provides virtual paths. A virtual path is an ordered list of
// name components that addresses a location in a virtual file tree,
// independent of any physical storage path.
package vpath
