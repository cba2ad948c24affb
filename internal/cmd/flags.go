// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/aibor/datvfs/archive"
)

const (
	name = "datvfs"

	minRefsUpper = 1 << 16
	workersUpper = 1 << 10

	usageMessage = `Usage of 'datvfs':
    datvfs [flags...] command [args...]

Mount directories and archives into one virtual tree and inspect it:
	datvfs -dir data=./loose -archive data=./base.cpio tree data

Mounts may also be listed in a YAML file:
	datvfs -config datvfs.yaml count '.*\.map'

All datvfs flags can also be provided via environment variable DATVFS_ARGS:
	DATVFS_ARGS="-config datvfs.yaml -debug" datvfs dups

All datvfs flags can also be provided via file ./.datvfs-args, with one
argument per line.
`
)

type flags struct {
	flagSet *flag.FlagSet

	configFile string
	dirs       MountList
	archives   MountList
	shallow    bool
	filter     string
	minRefs    uint64
	workers    uint64
	prune      bool
	preload    bool
	stats      bool
	debug      bool
	version    bool

	command     *command
	commandArgs []string
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := newFlags(output)

	err := flags.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	return flags, nil
}

func newFlags(output io.Writer) *flags {
	flags := &flags{}
	flags.initFlagset(output)

	return flags
}

func (f *flags) ParseArgs(args []string) error {
	// Parses arguments up to the first one that is not prefixed with a "-" or
	// is "--".
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	positionalArgs := f.flagSet.Args()

	if len(positionalArgs) < 1 {
		return f.fail("no command given", nil)
	}

	cmd, exists := commands[positionalArgs[0]]
	if !exists {
		return f.fail(positionalArgs[0], ErrUnknownCommand)
	}

	f.command = cmd
	f.commandArgs = positionalArgs[1:]

	if !cmd.acceptsArgs(len(f.commandArgs)) {
		return f.fail(cmd.usage, ErrArgumentCount)
	}

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.StringVar(
		&f.configFile,
		"config",
		f.configFile,
		"YAML mount table file. Its mounts are inserted before -dir and "+
			"-archive mounts",
	)

	flagSet.Var(
		&f.dirs,
		"dir",
		"directory to mount as mount=path. Flag may be used more than once. "+
			"Empty value clears the list.",
	)

	flagSet.Var(
		&f.archives,
		"archive",
		"cpio archive to mount as mount=path. Flag may be used more than "+
			"once. Empty value clears the list.",
	)

	flagSet.BoolVar(
		&f.shallow,
		"shallow",
		f.shallow,
		"mount only files directly in -dir directories",
	)

	flagSet.StringVar(
		&f.filter,
		"filter",
		f.filter,
		"regular expression file names from -dir directories must match",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.minRefs,
			Lower: 1,
			Upper: minRefsUpper,
		},
		"minRefs",
		"minimum references content needs to stay loaded (default from "+
			"config or 1)",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.workers,
			Upper: workersUpper,
		},
		"workers",
		"concurrent loads for -preload. 0 is unlimited",
	)

	flagSet.BoolVar(
		&f.prune,
		"prune",
		f.prune,
		"remove empty folders after mounting",
	)

	flagSet.BoolVar(
		&f.preload,
		"preload",
		f.preload,
		"load all content before running the command",
	)

	flagSet.BoolVar(
		&f.stats,
		"stats",
		f.stats,
		"print content load statistics on stderr when done",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nCommands:")

	for _, cmd := range sortedCommands() {
		fmt.Fprintf(f.flagSet.Output(), "  %-32s %s\n", cmd.usage, cmd.help)
	}

	fmt.Fprintf(f.flagSet.Output(), "\nCompressions for export: %s\n",
		strings.Join(compressionNames(), ", "))

	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}

func compressionNames() []string {
	compressions := []archive.Compression{archive.None, archive.Zstd, archive.LZ4}

	names := make([]string, 0, len(compressions))
	for _, compression := range compressions {
		names = append(names, compression.String())
	}

	return names
}
