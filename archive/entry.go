// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/aibor/datvfs/content"
	"github.com/cavaliergopher/cpio"
)

var (
	_ content.Source = (*Entry)(nil)
	_ content.Namer  = (*Entry)(nil)
)

// Entry is a [content.Source] for a regular file in an [Archive].
type Entry struct {
	archive *Archive
	name    string
	ordinal int
	size    int64
}

// Name implements [content.Namer]. It is the archive name and the entry name
// joined by a colon.
func (e *Entry) Name() string {
	return e.archive.name + ":" + e.name
}

// Valid implements [content.Source]. It reports whether the archive file
// still exists.
func (e *Entry) Valid() bool {
	info, err := fs.Stat(e.archive.fsys, e.archive.name)
	return err == nil && info.Mode().IsRegular()
}

// Len implements [content.Source].
func (e *Entry) Len() int64 {
	return e.size
}

// ReadInto implements [content.Source]. It reads the archive up to the entry.
func (e *Entry) ReadInto(buf []byte) error {
	found := false

	err := e.archive.scan(func(ordinal int, hdr *cpio.Header, body io.Reader) (bool, error) {
		if ordinal < e.ordinal {
			return true, nil
		}

		if entryName(hdr.Name) != e.name {
			return false, nil
		}

		found = true

		_, err := io.ReadFull(body, buf)
		if err != nil {
			return false, fmt.Errorf("read %s: %w", e.Name(), err)
		}

		return false, nil
	})
	if err != nil {
		return err
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, e.Name())
	}

	return nil
}
