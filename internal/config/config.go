// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads mount tables from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/aibor/datvfs/archive"
	"github.com/aibor/datvfs/bulk"
	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownMountType = errors.New("unknown mount type")
	ErrMissingSource    = errors.New("source is required")
	ErrInvalidValue     = errors.New("invalid value")
)

// MountType is the kind of source of a [Mount].
type MountType string

const (
	MountTypeDir     MountType = "dir"
	MountTypeArchive MountType = "archive"
)

// Mount describes a bulk source mounted into the tree.
type Mount struct {
	// Type of the source. Defaults to [MountTypeDir].
	Type MountType `yaml:"type"`

	// Source is the directory or archive path. Relative paths are relative
	// to the directory of the configuration file.
	Source string `yaml:"source"`

	// Mount is the virtual mount point. Empty is the root.
	Mount string `yaml:"mount"`

	// Recursive includes subdirectories of dir sources.
	Recursive bool `yaml:"recursive"`

	// Filter is a regular expression the base name of every file must match
	// completely.
	Filter string `yaml:"filter"`
}

// Config is a mount table with tree settings.
type Config struct {
	// MinReferences is the minimum number of references content must have
	// to stay loaded.
	MinReferences int `yaml:"minReferences"`

	// Prune removes empty folders after all mounts are inserted.
	Prune bool `yaml:"prune"`

	Mounts []Mount `yaml:"mounts"`

	// fsys relative sources are resolved in.
	fsys fs.FS
}

// Load reads the configuration file with the given name from the given
// [fs.FS]. Relative sources are resolved in the same [fs.FS], relative to the
// configuration file's directory.
func Load(fsys fs.FS, name string) (*Config, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}

	if dir := path.Dir(name); dir != "." {
		config.fsys, err = fs.Sub(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("config dir: %w", err)
		}
	} else {
		config.fsys = fsys
	}

	return config, nil
}

// LoadFile reads the configuration file at the given path on the local file
// system.
func LoadFile(file string) (*Config, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("config path: %w", err)
	}

	dir, name := filepath.Split(abs)

	return Load(os.DirFS(dir), name)
}

// Parse parses and validates a YAML configuration. Unknown fields are
// rejected. Relative sources are resolved in the current working directory.
func Parse(data []byte) (*Config, error) {
	var config Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err := decoder.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}

	for idx := range config.Mounts {
		if config.Mounts[idx].Type == "" {
			config.Mounts[idx].Type = MountTypeDir
		}
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	config.fsys = os.DirFS(".")

	return &config, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MinReferences < 0 {
		return fmt.Errorf("minReferences %d: %w", c.MinReferences, ErrInvalidValue)
	}

	for idx, mount := range c.Mounts {
		switch mount.Type {
		case MountTypeDir, MountTypeArchive:
		default:
			return fmt.Errorf("mount %d: %w: %q", idx, ErrUnknownMountType, mount.Type)
		}

		if mount.Source == "" {
			return fmt.Errorf("mount %d: %w", idx, ErrMissingSource)
		}

		if _, err := regexp.Compile(mount.Filter); err != nil {
			return fmt.Errorf("mount %d: filter: %w: %w", idx, ErrInvalidValue, err)
		}
	}

	return nil
}

// TreeOptions returns the [vfs.Option]s for the configured tree settings.
func (c *Config) TreeOptions() []vfs.Option {
	if c.MinReferences == 0 {
		return nil
	}

	return []vfs.Option{vfs.WithMinReferences(c.MinReferences)}
}

// BulkSources returns a [vfs.BulkSource] for each configured mount in
// order.
func (c *Config) BulkSources() ([]vfs.BulkSource, error) {
	sources := make([]vfs.BulkSource, 0, len(c.Mounts))
	shared := newSharedSources()

	for idx, mount := range c.Mounts {
		source, err := c.bulkSource(shared, mount)
		if err != nil {
			return nil, fmt.Errorf("mount %d: %w", idx, err)
		}

		sources = append(sources, source)
	}

	return sources, nil
}

// sharedSources hands out one [archive.Archive] or [bulk.Dir] per source, so
// mounting the same source multiple times shares content handles.
type sharedSources struct {
	archives map[string]*archive.Archive
	dirs     map[dirKey]*bulk.Dir
}

type dirKey struct {
	root      string
	recursive bool
}

func newSharedSources() *sharedSources {
	return &sharedSources{
		archives: make(map[string]*archive.Archive),
		dirs:     make(map[dirKey]*bulk.Dir),
	}
}

func (s *sharedSources) archive(
	source string,
	mount vpath.Path,
	create func() *archive.Archive,
) *archive.Archive {
	if existing, exists := s.archives[source]; exists {
		return existing.At(mount)
	}

	arc := create()
	s.archives[source] = arc

	return arc
}

func (s *sharedSources) dir(key dirKey, mount vpath.Path, create func() *bulk.Dir) *bulk.Dir {
	if existing, exists := s.dirs[key]; exists {
		return existing.At(mount)
	}

	dir := create()
	s.dirs[key] = dir

	return dir
}

func (c *Config) bulkSource(shared *sharedSources, mount Mount) (vfs.BulkSource, error) {
	var (
		source     vfs.BulkSource
		mountPoint = vpath.Parse(mount.Mount)
	)

	switch mount.Type {
	case MountTypeArchive:
		source = shared.archive(mount.Source, mountPoint, func() *archive.Archive {
			if filepath.IsAbs(mount.Source) {
				return archive.Open(mount.Source, mountPoint)
			}

			return archive.New(c.fsys, filepath.ToSlash(mount.Source), mountPoint)
		})
	case MountTypeDir:
		key := dirKey{root: mount.Source, recursive: mount.Recursive}
		source = shared.dir(key, mountPoint, func() *bulk.Dir {
			if filepath.IsAbs(mount.Source) {
				return bulk.NewLooseDir(mount.Source, mountPoint, mount.Recursive)
			}

			return &bulk.Dir{
				FS:        c.fsys,
				Root:      filepath.ToSlash(mount.Source),
				Mount:     mountPoint,
				Recursive: mount.Recursive,
			}
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMountType, mount.Type)
	}

	if mount.Filter == "" {
		return source, nil
	}

	return bulk.NewFiltered(source, mount.Filter) //nolint:wrapcheck
}
