// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"regexp"
	"slices"

	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/vpath"
)

const (
	treeIndent       = " |"
	treeBranch       = "-"
	treeFolderMarker = "/"
)

// SkipFolder can be returned by a [WalkFunc] for a folder to skip its
// content.
var SkipFolder = fs.SkipDir

// WalkFunc is called by [Directory.Walk] for each folder and file. Exactly one
// of folder and file is non-nil. The path is relative to the directory
// walked.
type WalkFunc func(path vpath.Path, folder *Directory, file *FileEntry) error

// Walk walks the tree below the directory depth-first. For each directory
// the child folders with their content are visited first, then the files.
// Siblings are visited in name order.
func (d *Directory) Walk(fn WalkFunc) error {
	return d.walk(vpath.Path{}, fn)
}

func (d *Directory) walk(base vpath.Path, fn WalkFunc) error {
	for name, folder := range d.Folders() {
		path := vpath.Concat(base, vpath.Path{name})

		err := fn(path, folder, nil)
		if errors.Is(err, SkipFolder) {
			continue
		}

		if err != nil {
			return err
		}

		err = folder.walk(path, fn)
		if err != nil {
			return err
		}
	}

	for name, file := range d.Files() {
		err := fn(vpath.Concat(base, vpath.Path{name}), nil, file)
		if err != nil {
			return err
		}
	}

	return nil
}

// CountFiles returns the number of files in and below the directory.
func (d *Directory) CountFiles() int {
	count := len(d.files)

	for _, folder := range d.folders {
		count += folder.CountFiles()
	}

	return count
}

// CountFilesMatching returns the number of files in and below the directory
// whose name matches the given regular expression completely.
func (d *Directory) CountFilesMatching(pattern string) (int, error) {
	re, err := compileFullMatch(pattern)
	if err != nil {
		return 0, err
	}

	count := 0

	for range d.matching(re) {
		count++
	}

	return count, nil
}

// CollectFilesMatching returns all files in and below the directory whose
// name matches the given regular expression completely. The order is the
// same as [Directory.Walk] visits them.
func (d *Directory) CollectFilesMatching(pattern string) ([]*FileEntry, error) {
	re, err := compileFullMatch(pattern)
	if err != nil {
		return nil, err
	}

	var files []*FileEntry
	for _, file := range d.matching(re) {
		files = append(files, file)
	}

	return files, nil
}

// Find returns the paths of all files in and below the directory whose name
// matches the given regular expression completely. The paths are relative to
// the directory and in the same order as [Directory.Walk] visits them.
func (d *Directory) Find(pattern string) ([]vpath.Path, error) {
	re, err := compileFullMatch(pattern)
	if err != nil {
		return nil, err
	}

	var paths []vpath.Path
	for path := range d.matching(re) {
		paths = append(paths, path)
	}

	return paths, nil
}

// matching iterates all files below the directory matching the given
// expression with their path relative to the directory.
func (d *Directory) matching(re *regexp.Regexp) iter.Seq2[vpath.Path, *FileEntry] {
	return func(yield func(vpath.Path, *FileEntry) bool) {
		_ = d.Walk(func(path vpath.Path, _ *Directory, file *FileEntry) error {
			if file == nil || !re.MatchString(file.name) {
				return nil
			}

			if !yield(path, file) {
				return errStopIteration
			}

			return nil
		})
	}
}

var errStopIteration = errors.New("stop iteration")

func compileFullMatch(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("pattern: %w", err)
	}

	return re, nil
}

// Prune removes all folders below the directory that contain no files,
// directly or further down. It returns the number of removed folders. The
// directory itself is never removed.
func (d *Directory) Prune() int {
	removed := 0

	for name, folder := range d.folders {
		removed += folder.Prune()

		if folder.CountFiles() == 0 {
			delete(d.folders, name)

			removed++
		}
	}

	if removed > 0 {
		slog.Debug("Pruned empty folders",
			slog.String("path", d.Path().String()),
			slog.Int("removed", removed))
	}

	return removed
}

// RenderTree returns an iterator over display lines of the tree below the
// directory. Folders are marked with a trailing "/" and come before files.
// Each nesting level is indented by " |".
func (d *Directory) RenderTree() iter.Seq[string] {
	return func(yield func(string) bool) {
		d.render("", 0, yield)
	}
}

func (d *Directory) render(prefix string, depth int, yield func(string) bool) bool {
	branch := ""
	if depth > 0 {
		branch = treeBranch
	}

	for name, folder := range d.Folders() {
		if !yield(prefix + branch + name + treeFolderMarker) {
			return false
		}

		if !folder.render(prefix+treeIndent, depth+1, yield) {
			return false
		}
	}

	for name := range d.Files() {
		if !yield(prefix + branch + name) {
			return false
		}
	}

	return true
}

// DuplicateGroup is a set of files with identical content.
type DuplicateGroup struct {
	Digest content.Digest
	Paths  []vpath.Path
}

// Duplicates returns groups of files below the directory that have identical
// content. All content is loaded for this. Files sharing the same
// [content.Handle] are reported as duplicates as well.
func (d *Directory) Duplicates() ([]DuplicateGroup, error) {
	var (
		groups []DuplicateGroup
		index  = make(map[content.Digest]int)
	)

	err := d.Walk(func(path vpath.Path, _ *Directory, file *FileEntry) error {
		if file == nil {
			return nil
		}

		digest, err := file.handle.Digest()
		if err != nil {
			return fmt.Errorf("digest %s: %w", path, err)
		}

		idx, exists := index[digest]
		if !exists {
			idx = len(groups)
			index[digest] = idx
			groups = append(groups, DuplicateGroup{Digest: digest})
		}

		groups[idx].Paths = append(groups[idx].Paths, path)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(groups, func(g DuplicateGroup) bool {
		return len(g.Paths) < 2
	}), nil
}
