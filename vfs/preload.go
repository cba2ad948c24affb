// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aibor/datvfs/content"
	"github.com/aibor/datvfs/vpath"
	"golang.org/x/sync/errgroup"
)

// Preload loads the content of all files below the directory with the given
// number of concurrent workers. Content shared by multiple files is loaded
// once. If workers is less than 1, there is no limit.
//
// It returns the first error that occurs. Remaining loads are skipped once
// an error occurred or the context is canceled.
func (d *Directory) Preload(ctx context.Context, workers int) error {
	handles := make(map[*content.Handle]vpath.Path)

	_ = d.Walk(func(path vpath.Path, _ *Directory, file *FileEntry) error {
		if file != nil {
			if _, exists := handles[file.handle]; !exists {
				handles[file.handle] = path
			}
		}

		return nil
	})

	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}

	for handle, path := range handles {
		eg.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = handle.Bytes()
			if err != nil {
				return fmt.Errorf("preload %s: %w", path, err)
			}

			return nil
		})
	}

	err := eg.Wait()
	if err != nil {
		return err //nolint:wrapcheck
	}

	slog.Debug("Content preloaded",
		slog.String("path", d.Path().String()),
		slog.Int("handles", len(handles)))

	return nil
}
