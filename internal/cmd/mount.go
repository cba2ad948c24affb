// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aibor/datvfs/vpath"
)

// MountArg is a local file system path to be mounted at a virtual path.
type MountArg struct {
	Mount vpath.Path
	Path  string
}

func (m MountArg) String() string {
	return m.Mount.String() + "=" + m.Path
}

// MountList is a [flag.Value] collecting [MountArg]s. Each value has the
// format "mount=path". Without "=", the path is mounted at the root. An empty
// value clears the list.
type MountList []MountArg

func (l *MountList) String() string {
	strs := make([]string, 0, len(*l))
	for _, arg := range *l {
		strs = append(strs, arg.String())
	}

	return strings.Join(strs, ",")
}

func (l *MountList) Set(s string) error {
	if s == "" {
		*l = nil
		return nil
	}

	mount, path, found := strings.Cut(s, "=")
	if !found {
		mount, path = "", s
	}

	abs, err := AbsoluteFilePath(path)
	if err != nil {
		return err
	}

	*l = append(*l, MountArg{
		Mount: vpath.Parse(mount),
		Path:  abs,
	})

	return nil
}

// AbsoluteFilePath returns the absolute representation of the given path.
func AbsoluteFilePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyFilePath
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return path, nil
}
