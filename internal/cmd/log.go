// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"
)

// logLevel returns the level of log records written by the CLI. Content loads
// and mounts are logged at debug level.
func logLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

// setupLogging sets the default logger to write text records to the given
// writer. Records carry no time, as they share stderr with command stats.
func setupLogging(writer io.Writer, debug bool) {
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: logLevel(debug),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 && attr.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return attr
		},
	})

	slog.SetDefault(slog.New(handler))
}
