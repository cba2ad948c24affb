// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
	"github.com/cavaliergopher/cpio"
)

var _ vfs.BulkSource = (*Archive)(nil)

// Archive is a [vfs.BulkSource] for the regular files of a cpio archive.
//
// Enumerating returns the same [*Entry] values for unchanged members, so
// mounting the archive more than once in a tree shares the content handles.
// Use [Archive.At] to mount the same archive at another mount point.
type Archive struct {
	fsys    fs.FS
	name    string
	mount   vpath.Path
	entries *entryCache
}

// entryCache holds the entries of an archive by member name.
type entryCache struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// New creates a new [Archive] for the archive file with the given name in
// the given [fs.FS]. The archive is not read until enumerated.
func New(fsys fs.FS, name string, mount vpath.Path) *Archive {
	return &Archive{
		fsys:  fsys,
		name:  name,
		mount: mount,
		entries: &entryCache{
			entries: make(map[string]*Entry),
		},
	}
}

// At returns an [Archive] for the same archive file at the given mount point.
// Both share their entries.
func (a *Archive) At(mount vpath.Path) *Archive {
	return &Archive{
		fsys:    a.fsys,
		name:    a.name,
		mount:   mount,
		entries: a.entries,
	}
}

// Open creates a new [Archive] for the archive file at the given path on the
// local file system.
func Open(path string, mount vpath.Path) *Archive {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	dir, name := filepath.Split(abs)

	return New(os.DirFS(dir), name, mount)
}

// Name returns the archive file name.
func (a *Archive) Name() string {
	return a.name
}

// MountPoint implements [vfs.BulkSource].
func (a *Archive) MountPoint() vpath.Path {
	return a.mount
}

// Enumerate implements [vfs.BulkSource]. It returns an [*Entry] for each
// regular file. If the archive contains the same name multiple times, the
// last one is returned.
func (a *Archive) Enumerate() ([]vfs.BulkEntry, error) {
	var (
		members []*Entry
		index   = make(map[string]int)
	)

	err := a.scan(func(ordinal int, hdr *cpio.Header, _ io.Reader) (bool, error) {
		if !hdr.FileInfo().Mode().IsRegular() {
			return true, nil
		}

		name := entryName(hdr.Name)
		if name == "" {
			return true, nil
		}

		member := &Entry{
			archive: a,
			name:    name,
			ordinal: ordinal,
			size:    hdr.Size,
		}

		if idx, exists := index[name]; exists {
			members[idx] = member
		} else {
			index[name] = len(members)
			members = append(members, member)
		}

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]vfs.BulkEntry, 0, len(members))
	for _, member := range members {
		entries = append(entries, vfs.BulkEntry{
			Path:   vpath.Parse(member.name),
			Source: a.entries.get(member),
		})
	}

	slog.Debug("Archive enumerated",
		slog.String("archive", a.name),
		slog.Int("files", len(entries)))

	return entries, nil
}

// get returns the cached entry with the same name if it still refers to the
// same member. Otherwise the given entry is cached and returned.
func (c *entryCache) get(entry *Entry) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, exists := c.entries[entry.name]
	if exists && cached.ordinal == entry.ordinal && cached.size == entry.size {
		return cached
	}

	c.entries[entry.name] = entry

	return entry
}

// scanFunc is called for each header of an archive with its position in the
// archive. Reading from the reader returns the entry's body. Scanning stops
// if it returns false or an error.
type scanFunc func(ordinal int, hdr *cpio.Header, body io.Reader) (bool, error)

func (a *Archive) scan(fn scanFunc) error {
	file, err := a.fsys.Open(a.name)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	stream, done, err := decompress(file)
	if err != nil {
		return fmt.Errorf("archive %s: %w", a.name, err)
	}
	defer done()

	reader := cpio.NewReader(stream)

	for ordinal := 0; ; ordinal++ {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("archive %s: read header: %w", a.name, err)
		}

		next, err := fn(ordinal, hdr, reader)
		if err != nil || !next {
			return err
		}
	}
}

// entryName normalizes archive member names to paths relative to the archive
// root.
func entryName(name string) string {
	for strings.HasPrefix(name, "./") {
		name = name[2:]
	}

	name = strings.TrimLeft(name, "/")
	if name == "." {
		return ""
	}

	return name
}
