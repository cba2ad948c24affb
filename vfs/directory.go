// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/vpath"
)

// FileEntry is a named file in a [Directory]. It references the
// [content.Handle] of its content.
type FileEntry struct {
	name   string
	handle *content.Handle
}

// Name returns the file name.
func (e *FileEntry) Name() string { return e.name }

// Handle returns the [content.Handle] of the file's content.
func (e *FileEntry) Handle() *content.Handle { return e.handle }

// Len returns the content length. It does not load the content.
func (e *FileEntry) Len() int64 { return e.handle.Len() }

// Bytes returns the file's content. See [content.Handle.Bytes].
func (e *FileEntry) Bytes() ([]byte, error) {
	return e.handle.Bytes() //nolint:wrapcheck
}

// String returns a string representation of the FileEntry.
func (e *FileEntry) String() string {
	return fmt.Sprintf("file %s (%s)", e.name, content.SourceName(e.handle.Source()))
}

// Directory is a folder in the virtual file tree.
//
// It exclusively owns its child folders and holds its file entries. Folders
// and files live in separate namespaces: a name may exist as both a folder
// and a file in the same directory. Lookups of folders only see folders and
// lookups of files only see files.
//
// The navigational names "." and ".." resolve to the directory itself and its
// parent during path resolution. The parent of a root is the root itself.
// They are never stored as children.
type Directory struct {
	name    string
	parent  *Directory
	tree    *tree
	folders map[string]*Directory
	files   map[string]*FileEntry
}

// New creates a new empty root [Directory].
func New(opts ...Option) *Directory {
	root := &Directory{
		tree:    newTree(opts...),
		folders: make(map[string]*Directory),
		files:   make(map[string]*FileEntry),
	}
	root.parent = root

	return root
}

// Name returns the directory's name. It is empty for a root.
func (d *Directory) Name() string { return d.name }

// Parent returns the parent directory. The parent of a root is the root
// itself.
func (d *Directory) Parent() *Directory { return d.parent }

// IsRoot returns true if the directory has no parent.
func (d *Directory) IsRoot() bool { return d.parent == d }

// Path returns the path of the directory from its root.
func (d *Directory) Path() vpath.Path {
	var names []string

	for current := d; !current.IsRoot(); current = current.parent {
		names = append(names, current.name)
	}

	slices.Reverse(names)

	return vpath.Path(names)
}

// String returns a string representation of the Directory.
func (d *Directory) String() string {
	return fmt.Sprintf("directory %q (%d folders, %d files)",
		d.Path().String(), len(d.folders), len(d.files))
}

// Folders returns an iterator over the child folders sorted by name.
func (d *Directory) Folders() iter.Seq2[string, *Directory] {
	return sortedSeq(d.folders)
}

// Files returns an iterator over the file entries sorted by name.
func (d *Directory) Files() iter.Seq2[string, *FileEntry] {
	return sortedSeq(d.files)
}

// LookupFile returns the file entry at the given path.
//
// Every component but the last must resolve to a folder, otherwise a
// [PathError] wrapping [ErrMissingFolder] is returned. If the directory
// reached has no file with the final name, [ErrMissingFile] is returned.
func (d *Directory) LookupFile(path vpath.Path) (*FileEntry, error) {
	name, err := path.Last()
	if err != nil {
		return nil, pathError("lookup", path, ErrMissingFile)
	}

	parent, err := d.descend(path.Dir(), false)
	if err != nil {
		return nil, pathError("lookup", path, err)
	}

	file, exists := parent.files[name]
	if !exists {
		return nil, pathError("lookup", path, ErrMissingFile)
	}

	return file, nil
}

// LookupFolder returns the folder at the given path. The empty path resolves
// to the receiver.
func (d *Directory) LookupFolder(path vpath.Path) (*Directory, error) {
	folder, err := d.descend(path, false)
	if err != nil {
		return nil, pathError("lookup", path, err)
	}

	return folder, nil
}

// CreateFolder creates the folder at the given path and returns it.
//
// Missing intermediate folders are created if recursive is true, otherwise
// [ErrMissingFolder] is returned. If the folder exists already, it is
// returned as is.
func (d *Directory) CreateFolder(path vpath.Path, recursive bool) (*Directory, error) {
	err := path.Validate()
	if err != nil {
		return nil, pathError("mkdir", path, err)
	}

	if path.IsEmpty() {
		return d, nil
	}

	parent, err := d.descend(path.Dir(), recursive)
	if err != nil {
		return nil, pathError("mkdir", path, err)
	}

	// The final folder is always created.
	folder, err := parent.descend(path[path.Depth():], true)
	if err != nil {
		return nil, pathError("mkdir", path, err)
	}

	return folder, nil
}

// InsertFile adds a file at the given path with content from the given
// [content.Source].
//
// If a file with the same name exists and the [Overwrite] flag is not set,
// nothing is changed and false is returned without error. With [Overwrite],
// the existing file's content reference is released and the file replaced.
// Missing intermediate folders are created with [CreateFolders], otherwise
// [ErrMissingFolder] is returned.
func (d *Directory) InsertFile(
	path vpath.Path,
	source content.Source,
	flags InsertFlag,
) (bool, error) {
	if source == nil {
		return false, pathError("insert", path, ErrInvalidSource)
	}

	return d.insert("insert", path, flags, func() *content.Handle {
		return d.tree.acquire(source)
	})
}

// InsertHandle adds a file at the given path that references the given
// [content.Handle]. A nil or already released handle is rejected with
// [ErrInvalidSource]. It behaves like [Directory.InsertFile] otherwise.
func (d *Directory) InsertHandle(
	path vpath.Path,
	handle *content.Handle,
	flags InsertFlag,
) (bool, error) {
	if handle == nil || handle.References() == 0 {
		return false, pathError("insert", path, ErrInvalidSource)
	}

	return d.insert("insert", path, flags, func() *content.Handle {
		handle.AddReference()
		return handle
	})
}

// Link adds a file at dst that shares the content of the existing file at
// src.
func (d *Directory) Link(src, dst vpath.Path, flags InsertFlag) (bool, error) {
	file, err := d.LookupFile(src)
	if err != nil {
		return false, err
	}

	return d.insert("link", dst, flags, func() *content.Handle {
		file.handle.AddReference()
		return file.handle
	})
}

// RemoveFile removes the file at the given path and releases its content
// reference.
func (d *Directory) RemoveFile(path vpath.Path) error {
	file, err := d.LookupFile(path)
	if err != nil {
		return err
	}

	// LookupFile succeeded, so the parent resolves.
	parent, _ := d.descend(path.Dir(), false)
	delete(parent.files, file.name)
	d.tree.release(file.handle)

	return nil
}

// RemoveFolder removes the folder at the given path with all its content.
// All content references below it are released.
func (d *Directory) RemoveFolder(path vpath.Path) error {
	name, err := path.Last()
	if err != nil || vpath.IsNavigation(name) {
		return pathError("rmdir", path, ErrInvalidName)
	}

	parent, err := d.descend(path.Dir(), false)
	if err != nil {
		return pathError("rmdir", path, err)
	}

	folder, exists := parent.folders[name]
	if !exists {
		return pathError("rmdir", path, ErrMissingFolder)
	}

	delete(parent.folders, name)
	folder.releaseAll()

	return nil
}

func (d *Directory) insert(
	op string,
	path vpath.Path,
	flags InsertFlag,
	acquire func() *content.Handle,
) (bool, error) {
	err := path.Validate()
	if err != nil {
		return false, pathError(op, path, err)
	}

	name, err := path.Last()
	if err != nil || vpath.IsNavigation(name) {
		return false, pathError(op, path, ErrInvalidName)
	}

	parent, err := d.descend(path.Dir(), flags.has(CreateFolders))
	if err != nil {
		return false, pathError(op, path, err)
	}

	return parent.putFile(name, flags.has(Overwrite), acquire), nil
}

func (d *Directory) putFile(
	name string,
	overwrite bool,
	acquire func() *content.Handle,
) bool {
	existing, exists := d.files[name]
	if exists && !overwrite {
		return false
	}

	// Acquire before releasing, so replacing a file with the same source
	// keeps the shared handle alive.
	d.files[name] = &FileEntry{
		name:   name,
		handle: acquire(),
	}

	if exists {
		d.tree.release(existing.handle)
	}

	return true
}

// descend walks the given path component by component. Missing folders are
// created if create is true.
func (d *Directory) descend(path vpath.Path, create bool) (*Directory, error) {
	current := d

	for _, name := range path {
		switch name {
		case vpath.Self:
			continue
		case vpath.Parent:
			current = current.parent
			continue
		}

		next, exists := current.folders[name]
		if !exists {
			if !create {
				return nil, fmt.Errorf("%w: %s", ErrMissingFolder, name)
			}

			err := vpath.ValidName(name)
			if err != nil {
				return nil, err //nolint:wrapcheck
			}

			next = current.newFolder(name)
		}

		current = next
	}

	return current, nil
}

func (d *Directory) newFolder(name string) *Directory {
	folder := &Directory{
		name:    name,
		parent:  d,
		tree:    d.tree,
		folders: make(map[string]*Directory),
		files:   make(map[string]*FileEntry),
	}
	d.folders[name] = folder

	return folder
}

// releaseAll releases the content references of all files below the
// directory.
func (d *Directory) releaseAll() {
	for _, folder := range d.folders {
		folder.releaseAll()
	}

	for _, file := range d.files {
		d.tree.release(file.handle)
	}
}

func sortedSeq[V any](m map[string]V) iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, name := range slices.Sorted(maps.Keys(m)) {
			if !yield(name, m[name]) {
				return
			}
		}
	}
}
