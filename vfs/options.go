// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import "github.com/aibor/datvfs/content"

// Option configures a new tree.
type Option func(*tree)

// WithMinReferences sets the minimum number of references of every
// [content.Handle] created in the tree. See [content.WithMinReferences].
func WithMinReferences(n int) Option {
	return func(t *tree) {
		t.handleOpts = append(t.handleOpts, content.WithMinReferences(n))
	}
}

// WithObserver sets the [content.Observer] of every [content.Handle] created
// in the tree.
func WithObserver(observer content.Observer) Option {
	return func(t *tree) {
		t.handleOpts = append(t.handleOpts, content.WithObserver(observer))
	}
}

// InsertFlag controls insertion behavior.
type InsertFlag uint8

const (
	// Overwrite replaces an existing file. Without it, inserting at an
	// existing file name is a no-op.
	Overwrite InsertFlag = 1 << iota

	// CreateFolders creates missing intermediate folders. Without it,
	// insertion fails if an intermediate folder is missing.
	CreateFolders
)

func (f InsertFlag) has(flag InsertFlag) bool {
	return f&flag != 0
}
