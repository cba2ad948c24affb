// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vpath

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// Separator is used by [Path.String].
	Separator = "/"

	separators = `/\`

	// Self is the navigational name of the current directory.
	Self = "."
	// Parent is the navigational name of the parent directory.
	Parent = ".."
)

// Path is a virtual path. Each component is non-empty and contains no path
// separator. Components are case-sensitive opaque strings.
type Path []string

// Parse splits the given string on "/" or "\".
//
// Empty components are dropped, so leading, trailing and repeated separators
// do not produce empty names. An empty string is the empty path.
func Parse(s string) Path {
	return strings.FieldsFunc(s, isSeparator)
}

// Concat returns a new [Path] with the components of b appended to a.
func Concat(a, b Path) Path {
	path := make(Path, 0, len(a)+len(b))
	path = append(path, a...)

	return append(path, b...)
}

// Len returns the number of components.
func (p Path) Len() int {
	return len(p)
}

// IsEmpty returns true if the path has no components.
func (p Path) IsEmpty() bool {
	return len(p) == 0
}

// Depth returns the number of components minus one. A single component
// path has depth 0.
func (p Path) Depth() int {
	return len(p) - 1
}

// Component returns the component at the given index.
func (p Path) Component(idx int) (string, error) {
	if idx < 0 || idx >= len(p) {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, idx)
	}

	return p[idx], nil
}

// Last returns the final component.
func (p Path) Last() (string, error) {
	return p.Component(len(p) - 1)
}

// Suffix returns a new [Path] with the components from the given index to the
// end.
func (p Path) Suffix(from int) (Path, error) {
	return p.Slice(from, len(p))
}

// Slice returns a new [Path] over the half-open range [from, to).
func (p Path) Slice(from, to int) (Path, error) {
	if from < 0 || to > len(p) || from > to {
		return nil, fmt.Errorf("%w: [%d:%d]", ErrOutOfRange, from, to)
	}

	return slices.Clone(p[from:to]), nil
}

// Dir returns the path without its final component. The empty path is
// returned for paths with less than two components.
func (p Path) Dir() Path {
	if len(p) < 2 {
		return Path{}
	}

	return slices.Clone(p[:len(p)-1])
}

// Equal returns true if both paths have the same components.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// String returns the components joined by [Separator].
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Validate returns [ErrInvalidName] if any component is not a valid name.
func (p Path) Validate() error {
	for _, name := range p {
		if err := ValidName(name); err != nil {
			return err
		}
	}

	return nil
}

// ValidName returns [ErrInvalidName] if the name is empty or contains a path
// separator.
func ValidName(name string) error {
	if name == "" || strings.ContainsAny(name, separators) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}

// IsNavigation returns true for the reserved names [Self] and [Parent].
func IsNavigation(name string) bool {
	return name == Self || name == Parent
}

func isSeparator(r rune) bool {
	return strings.ContainsRune(separators, r)
}
