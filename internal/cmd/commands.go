// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/aibor/datvfs/archive"
	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
)

// environment is what commands operate on.
type environment struct {
	root   *vfs.Directory
	stdout io.Writer
}

type command struct {
	name    string
	usage   string
	help    string
	minArgs int
	maxArgs int
	run     func(ctx context.Context, env *environment, args []string) error
}

func (c *command) acceptsArgs(count int) bool {
	return count >= c.minArgs && count <= c.maxArgs
}

var commands = map[string]*command{
	"tree": {
		name:    "tree",
		usage:   "tree [path]",
		help:    "print the tree below the folder at path",
		maxArgs: 1,
		run:     runTree,
	},
	"count": {
		name:    "count",
		usage:   "count [regex]",
		help:    "count all files or files whose name matches regex",
		maxArgs: 1,
		run:     runCount,
	},
	"find": {
		name:    "find",
		usage:   "find regex",
		help:    "print paths of files whose name matches regex",
		minArgs: 1,
		maxArgs: 1,
		run:     runFind,
	},
	"cat": {
		name:    "cat",
		usage:   "cat path",
		help:    "print the content of the file at path",
		minArgs: 1,
		maxArgs: 1,
		run:     runCat,
	},
	"sum": {
		name:    "sum",
		usage:   "sum path",
		help:    "print the BLAKE3 digest of the file at path",
		minArgs: 1,
		maxArgs: 1,
		run:     runSum,
	},
	"dups": {
		name:  "dups",
		usage: "dups",
		help:  "print groups of files with identical content",
		run:   runDups,
	},
	"export": {
		name:    "export",
		usage:   "export file [compression]",
		help:    "write the tree as cpio archive to file",
		minArgs: 1,
		maxArgs: 2, //nolint:mnd
		run:     runExport,
	},
}

func sortedCommands() []*command {
	names := slices.Sorted(maps.Keys(commands))

	sorted := make([]*command, 0, len(names))
	for _, name := range names {
		sorted = append(sorted, commands[name])
	}

	return sorted
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}

func runTree(_ context.Context, env *environment, args []string) error {
	folder, err := env.root.LookupFolder(vpath.Parse(optionalArg(args)))
	if err != nil {
		return err //nolint:wrapcheck
	}

	for line := range folder.RenderTree() {
		fmt.Fprintln(env.stdout, line)
	}

	return nil
}

func runCount(_ context.Context, env *environment, args []string) error {
	count := env.root.CountFiles()

	if pattern := optionalArg(args); pattern != "" {
		var err error

		count, err = env.root.CountFilesMatching(pattern)
		if err != nil {
			return err //nolint:wrapcheck
		}
	}

	fmt.Fprintln(env.stdout, strconv.Itoa(count))

	return nil
}

func runFind(_ context.Context, env *environment, args []string) error {
	paths, err := env.root.Find(args[0])
	if err != nil {
		return err //nolint:wrapcheck
	}

	for _, path := range paths {
		fmt.Fprintln(env.stdout, path.String())
	}

	return nil
}

func runCat(_ context.Context, env *environment, args []string) error {
	file, err := env.root.LookupFile(vpath.Parse(args[0]))
	if err != nil {
		return err //nolint:wrapcheck
	}

	data, err := file.Bytes()
	if err != nil {
		return fmt.Errorf("cat %s: %w", args[0], err)
	}

	_, err = env.stdout.Write(data)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

func runSum(_ context.Context, env *environment, args []string) error {
	file, err := env.root.LookupFile(vpath.Parse(args[0]))
	if err != nil {
		return err //nolint:wrapcheck
	}

	digest, err := file.Handle().Digest()
	if err != nil {
		return fmt.Errorf("sum %s: %w", args[0], err)
	}

	fmt.Fprintf(env.stdout, "%s  %s\n", digest, vpath.Parse(args[0]))

	return nil
}

func runDups(_ context.Context, env *environment, _ []string) error {
	groups, err := env.root.Duplicates()
	if err != nil {
		return err //nolint:wrapcheck
	}

	for _, group := range groups {
		fmt.Fprintln(env.stdout, group.Digest.String())

		for _, path := range group.Paths {
			fmt.Fprintln(env.stdout, "  "+path.String())
		}
	}

	return nil
}

func runExport(_ context.Context, env *environment, args []string) (err error) {
	var compression archive.Compression
	if len(args) > 1 {
		err := compression.UnmarshalText([]byte(args[1]))
		if err != nil {
			return err //nolint:wrapcheck
		}
	}

	file, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close archive: %w", closeErr)
		}
	}()

	err = archive.Write(file, env.root, compression)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	slog.Info("Exported archive",
		slog.String("path", args[0]),
		slog.String("compression", compression.String()))

	return nil
}
