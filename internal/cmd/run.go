// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/datvfs/archive"
	"github.com/aibor/datvfs/bulk"
	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/internal/config"
	"github.com/aibor/datvfs/internal/metrics"
	"github.com/aibor/datvfs/vfs"
	"github.com/prometheus/client_golang/prometheus"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func loadFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func bulkSources(flags *flags) ([]vfs.BulkSource, []vfs.Option, bool, error) {
	var (
		sources []vfs.BulkSource
		opts    []vfs.Option
		prune   = flags.prune
	)

	if flags.configFile != "" {
		cfg, err := config.LoadFile(flags.configFile)
		if err != nil {
			return nil, nil, false, fmt.Errorf("config: %w", err)
		}

		cfgSources, err := cfg.BulkSources()
		if err != nil {
			return nil, nil, false, fmt.Errorf("config: %w", err)
		}

		sources = append(sources, cfgSources...)
		opts = append(opts, cfg.TreeOptions()...)
		prune = prune || cfg.Prune
	}

	// Applied after the config options, so the flag wins.
	if flags.minRefs > 0 {
		opts = append(opts, vfs.WithMinReferences(int(flags.minRefs)))
	}

	// The same path mounted more than once shares its sources.
	dirs := make(map[string]*bulk.Dir)

	for _, dir := range flags.dirs {
		loose, exists := dirs[dir.Path]
		if exists {
			loose = loose.At(dir.Mount)
		} else {
			loose = bulk.NewLooseDir(dir.Path, dir.Mount, !flags.shallow)
			dirs[dir.Path] = loose
		}

		var source vfs.BulkSource = loose

		if flags.filter != "" {
			var err error

			source, err = bulk.NewFiltered(source, flags.filter)
			if err != nil {
				return nil, nil, false, fmt.Errorf("dir %s: %w", dir, err)
			}
		}

		sources = append(sources, source)
	}

	archives := make(map[string]*archive.Archive)

	for _, arc := range flags.archives {
		opened, exists := archives[arc.Path]
		if exists {
			opened = opened.At(arc.Mount)
		} else {
			opened = archive.Open(arc.Path, arc.Mount)
			archives[arc.Path] = opened
		}

		sources = append(sources, opened)
	}

	return sources, opts, prune, nil
}

func buildTree(flags *flags, observer content.Observer) (*vfs.Directory, error) {
	sources, opts, prune, err := bulkSources(flags)
	if err != nil {
		return nil, err
	}

	root := vfs.New(append(opts, vfs.WithObserver(observer))...)

	for _, source := range sources {
		count, err := root.InsertBulk(source, vfs.CreateFolders)
		if err != nil {
			return nil, fmt.Errorf("mount: %w", err)
		}

		slog.Debug("Mounted",
			slog.String("mount", source.MountPoint().String()),
			slog.Int("files", count))
	}

	if prune {
		root.Prune()
	}

	return root, nil
}

func printStats(writer io.Writer, root *vfs.Directory, gatherer prometheus.Gatherer) error {
	samples, err := metrics.Gather(gatherer)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	fmt.Fprintf(writer, "datvfs_files %d\n", root.CountFiles())

	for _, sample := range samples {
		fmt.Fprintf(writer, "%s %g\n", sample.Name, sample.Value)
	}

	return nil
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	registry := prometheus.NewRegistry()

	root, err := buildTree(flags, metrics.New(registry))
	if err != nil {
		return err
	}

	if flags.preload {
		err := root.Preload(ctx, int(flags.workers))
		if err != nil {
			return fmt.Errorf("preload: %w", err)
		}
	}

	env := &environment{
		root:   root,
		stdout: cfg.Stdout,
	}

	err = flags.command.run(ctx, env, flags.commandArgs)
	if err != nil {
		err = fmt.Errorf("%s: %w", flags.command.name, err)
	}

	if flags.stats {
		err = errors.Join(err, printStats(cfg.Stderr, root, registry))
	}

	return err
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return -1
}

func handleRunError(err error) int {
	if errors.Is(err, vfs.ErrMissingFile) || errors.Is(err, vfs.ErrMissingFolder) {
		slog.Warn("Paths are case-sensitive and relative to the tree root")
	}

	slog.Error(err.Error())

	return -1
}

// Run is the main entry point for the CLI command. The args must not contain
// the program name.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	flags, err := loadFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.debug)

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}
