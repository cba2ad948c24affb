// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"reflect"

	"github.com/aibor/datvfs/content"
)

// tree holds state shared by all directories of one tree.
type tree struct {
	handleOpts []content.HandleOption

	// pool maps sources to their handle, so inserting the same source at
	// multiple locations shares one handle.
	pool map[content.Source]*content.Handle
}

func newTree(opts ...Option) *tree {
	t := &tree{
		pool: make(map[content.Source]*content.Handle),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// acquire returns the handle for the given source with one more reference.
func (t *tree) acquire(source content.Source) *content.Handle {
	if !poolable(source) {
		return content.NewHandle(source, t.handleOpts...)
	}

	if handle, exists := t.pool[source]; exists && handle.References() > 0 {
		handle.AddReference()
		return handle
	}

	handle := content.NewHandle(source, t.handleOpts...)
	t.pool[source] = handle

	return handle
}

// release removes a reference from the given handle and drops it from the
// pool once it has no references left.
func (t *tree) release(handle *content.Handle) {
	if handle.RemoveReference() > 0 {
		return
	}

	source := handle.Source()
	if poolable(source) && t.pool[source] == handle {
		delete(t.pool, source)
	}
}

func poolable(source content.Source) bool {
	return reflect.TypeOf(source).Comparable()
}
