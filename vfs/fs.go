// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/aibor/datvfs/vpath"
)

const (
	fileMode   fs.FileMode = 0o444
	folderMode             = fs.ModeDir | 0o555
)

// FS returns a read-only [fs.FS] view of the directory.
//
// Opening a file loads its content. A file shadowed by a folder with the
// same name is not accessible through the view.
func (d *Directory) FS() fs.FS {
	return &treeFS{root: d}
}

var _ fs.FS = (*treeFS)(nil)

type treeFS struct {
	root *Directory
}

// Open implements [fs.FS].
func (t *treeFS) Open(name string) (fs.File, error) {
	file, err := t.open(name)
	if err != nil {
		return nil, &PathError{
			Op:   "open",
			Path: name,
			Err:  err,
		}
	}

	return file, nil
}

func (t *treeFS) open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, fs.ErrInvalid
	}

	if name == "." {
		return openFolder(name, t.root), nil
	}

	p := vpath.Path(strings.Split(name, "/"))

	parent, err := t.root.descend(p.Dir(), false)
	if err != nil {
		return nil, fs.ErrNotExist
	}

	base := p[p.Depth()]

	if folder, exists := parent.folders[base]; exists {
		return openFolder(name, folder), nil
	}

	if file, exists := parent.files[base]; exists {
		return openFile(name, file)
	}

	return nil, fs.ErrNotExist
}

var (
	_ fs.FileInfo = (*fileInfo)(nil)
	_ fs.DirEntry = (*dirEntry)(nil)
)

type dirEntry struct {
	name   string
	folder *Directory
	file   *FileEntry
}

func (e *dirEntry) Name() string   { return path.Base(e.name) }
func (e *dirEntry) IsDir() bool    { return e.folder != nil }
func (e *dirEntry) String() string { return fs.FormatDirEntry(e) }

func (e *dirEntry) Type() fs.FileMode {
	return e.mode().Type()
}

func (e *dirEntry) Info() (fs.FileInfo, error) {
	return &fileInfo{dirEntry: *e}, nil
}

func (e *dirEntry) mode() fs.FileMode {
	if e.folder != nil {
		return folderMode
	}

	return fileMode
}

type fileInfo struct {
	dirEntry
}

func (i *fileInfo) Mode() fs.FileMode { return i.mode() }
func (*fileInfo) ModTime() time.Time  { return time.Time{} }
func (i *fileInfo) String() string    { return fs.FormatFileInfo(i) }

func (i *fileInfo) Size() int64 {
	if i.file == nil {
		return 0
	}

	return i.file.Len()
}

func (i *fileInfo) Sys() any {
	if i.file != nil {
		return i.file
	}

	return i.folder
}

var (
	_ fs.File        = (*openEntry)(nil)
	_ fs.ReadDirFile = (*openEntry)(nil)
)

type openEntry struct {
	info    fileInfo
	reader  io.Reader
	entries []fs.DirEntry
	offset  int
}

func openFolder(name string, folder *Directory) *openEntry {
	return &openEntry{
		info: fileInfo{
			dirEntry: dirEntry{name: name, folder: folder},
		},
		entries: folderEntries(name, folder),
	}
}

func openFile(name string, file *FileEntry) (*openEntry, error) {
	data, err := file.Bytes()
	if err != nil {
		return nil, err
	}

	return &openEntry{
		info: fileInfo{
			dirEntry: dirEntry{name: name, file: file},
		},
		reader: bytes.NewReader(data),
	}, nil
}

// folderEntries returns the entries of the folder sorted by name. Files
// shadowed by folders are omitted.
func folderEntries(name string, folder *Directory) []fs.DirEntry {
	entries := make([]fs.DirEntry, 0, len(folder.folders)+len(folder.files))

	for childName, child := range folder.Folders() {
		entries = append(entries, &dirEntry{
			name:   path.Join(name, childName),
			folder: child,
		})
	}

	for childName, file := range folder.Files() {
		if _, shadowed := folder.folders[childName]; shadowed {
			continue
		}

		entries = append(entries, &dirEntry{
			name: path.Join(name, childName),
			file: file,
		})
	}

	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})

	return entries
}

// Stat implements [fs.File].
func (f *openEntry) Stat() (fs.FileInfo, error) {
	return &f.info, nil
}

// Read implements [fs.File].
func (f *openEntry) Read(b []byte) (int, error) {
	if f.reader == nil {
		return 0, &PathError{Op: "read", Path: f.info.name, Err: fs.ErrInvalid}
	}

	return f.reader.Read(b) //nolint:wrapcheck
}

// Close implements [fs.File].
func (*openEntry) Close() error {
	return nil
}

// ReadDir implements [fs.ReadDirFile].
func (f *openEntry) ReadDir(count int) ([]fs.DirEntry, error) {
	if !f.info.IsDir() {
		return nil, &PathError{Op: "readdir", Path: f.info.name, Err: fs.ErrInvalid}
	}

	start := f.offset
	end := len(f.entries)
	available := end - start

	if available == 0 && count > 0 {
		return nil, io.EOF
	}

	if count > 0 && available > count {
		end = start + count
	}

	f.offset = end

	return f.entries[start:end], nil
}
