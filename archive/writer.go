// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aibor/datvfs/vfs"
	"github.com/aibor/datvfs/vpath"
	"github.com/cavaliergopher/cpio"
)

const (
	numLinks    = 2
	folderMode  = cpio.TypeDir | 0o755
	regularMode = cpio.TypeReg | 0o644
)

// Write writes the content of the given directory as cpio archive with the
// given compression to w. Paths in the archive are relative to the directory.
// All file content is loaded for this.
func Write(w io.Writer, dir *vfs.Directory, compression Compression) error {
	compressed, err := compress(w, compression)
	if err != nil {
		return err
	}

	writer := newCPIOWriter(compressed)
	files := 0

	err = dir.Walk(func(path vpath.Path, _ *vfs.Directory, file *vfs.FileEntry) error {
		if file == nil {
			return writer.writeFolder(path.String())
		}

		files++

		return writer.writeFile(path.String(), file)
	})

	// Close in any case to release the compressor.
	err = errors.Join(err, writer.close(), closeErr(compressed))
	if err != nil {
		return err
	}

	slog.Debug("Archive written",
		slog.String("path", dir.Path().String()),
		slog.String("compression", compression.String()),
		slog.Int("files", files))

	return nil
}

func closeErr(c io.Closer) error {
	err := c.Close()
	if err != nil {
		return fmt.Errorf("close compression: %w", err)
	}

	return nil
}

// cpioWriter writes virtual tree entries to a [cpio.Writer].
type cpioWriter struct {
	cpio *cpio.Writer
}

func newCPIOWriter(w io.Writer) *cpioWriter {
	return &cpioWriter{cpio.NewWriter(w)}
}

func (w *cpioWriter) close() error {
	err := w.cpio.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (w *cpioWriter) writeHeader(hdr *cpio.Header) error {
	err := w.cpio.WriteHeader(hdr)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", hdr.Name, err)
	}

	return nil
}

func (w *cpioWriter) writeFolder(path string) error {
	return w.writeHeader(&cpio.Header{
		Name:  path,
		Mode:  folderMode,
		Links: numLinks,
	})
}

func (w *cpioWriter) writeFile(path string, file *vfs.FileEntry) error {
	data, err := file.Bytes()
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	err = w.writeHeader(&cpio.Header{
		Name:  path,
		Mode:  regularMode,
		Links: 1,
		Size:  int64(len(data)),
	})
	if err != nil {
		return err
	}

	_, err = w.cpio.Write(data)
	if err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}
