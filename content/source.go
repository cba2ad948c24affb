// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Source is anything that can report a byte length and produce its bytes on
// demand.
type Source interface {
	// Valid returns true if the underlying resource exists and is a regular
	// file.
	Valid() bool

	// Len returns the length of the content in bytes.
	Len() int64

	// ReadInto reads the complete content into the given buffer. The buffer
	// is exactly [Source.Len] bytes long.
	ReadInto(buf []byte) error
}

// Namer is implemented by sources that can describe where their content comes
// from. It is used for logging and error messages only.
type Namer interface {
	Name() string
}

// SourceName returns the name of a [Source] if it implements [Namer] or its
// formatted value otherwise.
func SourceName(src Source) string {
	if namer, ok := src.(Namer); ok {
		return namer.Name()
	}

	return fmt.Sprintf("%v", src)
}

var _ Source = (*Memory)(nil)

// Memory is a [Source] for an in-memory blob.
type Memory struct {
	name string
	data []byte
}

// NewMemory creates a new [Memory] source. The data is not copied and must
// not be modified afterwards.
func NewMemory(name string, data []byte) *Memory {
	return &Memory{
		name: name,
		data: data,
	}
}

// Name implements [Namer].
func (m *Memory) Name() string { return m.name }

// Valid implements [Source]. Memory is always valid.
func (*Memory) Valid() bool { return true }

// Len implements [Source].
func (m *Memory) Len() int64 { return int64(len(m.data)) }

// ReadInto implements [Source].
func (m *Memory) ReadInto(buf []byte) error {
	if copy(buf, m.data) != len(m.data) {
		return ErrShortRead
	}

	return nil
}

var _ Source = (*File)(nil)

// File is a [Source] for a regular file in an [fs.FS].
//
// The length is determined once at construction. Validity is checked on
// every call, so a file removed after construction is reported invalid.
type File struct {
	fsys fs.FS
	name string
	size int64
}

// NewFile creates a new [File] for the given name in the given [fs.FS]. If
// the file does not exist or is not a regular file, the length is 0 and
// [File.Valid] returns false.
func NewFile(fsys fs.FS, name string) *File {
	file := &File{
		fsys: fsys,
		name: name,
	}

	info, err := fs.Stat(fsys, name)
	if err == nil && info.Mode().IsRegular() {
		file.size = info.Size()
	}

	return file
}

// NewLooseFile creates a new [File] for the given path on the local file
// system.
func NewLooseFile(path string) *File {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	dir, name := filepath.Split(abs)

	return NewFile(os.DirFS(dir), name)
}

// Name implements [Namer].
func (f *File) Name() string { return f.name }

// Valid implements [Source].
func (f *File) Valid() bool {
	info, err := fs.Stat(f.fsys, f.name)
	return err == nil && info.Mode().IsRegular()
}

// Len implements [Source].
func (f *File) Len() int64 { return f.size }

// ReadInto implements [Source].
func (f *File) ReadInto(buf []byte) error {
	file, err := f.fsys.Open(f.name)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	_, err = io.ReadFull(file, buf)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.name, err)
	}

	return nil
}
