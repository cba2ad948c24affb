// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bulk

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
)

var _ vfs.BulkSource = (*Dir)(nil)

// Dir is a [vfs.BulkSource] for the regular files of a directory in an
// [fs.FS].
type Dir struct {
	// FS is the file system the directory is read from.
	FS fs.FS

	// Root is the directory in FS whose content is mounted. Empty means the
	// root of FS.
	Root string

	// Mount is the virtual path the files are inserted under.
	Mount vpath.Path

	// Recursive includes files of all subdirectories. Otherwise only the
	// files directly in Root are included and subdirectories are skipped.
	Recursive bool

	files *fileCache
}

// fileCache holds the sources of a directory by their relative path, so
// repeated enumeration returns the same sources for unchanged files.
type fileCache struct {
	mu    sync.Mutex
	files map[string]*content.File
}

func (c *fileCache) get(fsys fs.FS, path string, size int64) *content.File {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.files == nil {
		c.files = make(map[string]*content.File)
	}

	cached, exists := c.files[path]
	if exists && cached.Len() == size {
		return cached
	}

	file := content.NewFile(fsys, path)
	c.files[path] = file

	return file
}

// NewLooseDir creates a new [Dir] for the given directory on the local file
// system.
func NewLooseDir(path string, mount vpath.Path, recursive bool) *Dir {
	return &Dir{
		FS:        os.DirFS(path),
		Mount:     mount,
		Recursive: recursive,
	}
}

// At returns a [Dir] for the same directory at the given mount point. Both
// share their file sources, so mounting both in one tree shares the content
// handles.
func (d *Dir) At(mount vpath.Path) *Dir {
	other := *d
	other.Mount = mount
	other.files = d.cache()

	return &other
}

func (d *Dir) cache() *fileCache {
	if d.files == nil {
		d.files = &fileCache{}
	}

	return d.files
}

// MountPoint implements [vfs.BulkSource].
func (d *Dir) MountPoint() vpath.Path {
	return d.Mount
}

// Enumerate implements [vfs.BulkSource]. Entries that are not regular files,
// like symbolic links or devices, are skipped. Repeated calls return the same
// sources for files whose size did not change.
func (d *Dir) Enumerate() ([]vfs.BulkEntry, error) {
	fsys, err := d.rootFS()
	if err != nil {
		return nil, err
	}

	cache := d.cache()

	var entries []vfs.BulkEntry

	err = fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if path != "." && !d.Recursive {
				return fs.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() {
			slog.Debug("Skip non-regular file",
				slog.String("path", path),
				slog.String("type", entry.Type().String()))

			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		// Paths of fs.FS are always slash separated. Other separator
		// characters are part of the name.
		entries = append(entries, vfs.BulkEntry{
			Path:   vpath.Path(strings.Split(path, "/")),
			Source: cache.get(fsys, path, info.Size()),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}

	return entries, nil
}

func (d *Dir) rootFS() (fs.FS, error) {
	if d.Root == "" || d.Root == "." {
		return d.FS, nil
	}

	fsys, err := fs.Sub(d.FS, d.Root)
	if err != nil {
		return nil, fmt.Errorf("sub %s: %w", d.Root, err)
	}

	return fsys, nil
}
