// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the compression of a whole archive.
type Compression int

const (
	None Compression = iota
	Zstd
	LZ4
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

var compressionNames = map[Compression]string{
	None: "none",
	Zstd: "zstd",
	LZ4:  "lz4",
}

// String implements [fmt.Stringer].
func (c Compression) String() string {
	name, exists := compressionNames[c]
	if !exists {
		return fmt.Sprintf("compression(%d)", int(c))
	}

	return name
}

// MarshalText implements [encoding.TextMarshaler].
func (c Compression) MarshalText() ([]byte, error) {
	if _, exists := compressionNames[c]; !exists {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, int(c))
	}

	return []byte(c.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. The empty string is
// [None].
func (c *Compression) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		*c = None
		return nil
	}

	for compression, name := range compressionNames {
		if s == name {
			*c = compression
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedCompression, s)
}

// detect returns the compression of the stream read by r. It does not consume
// any bytes.
func detect(r *bufio.Reader) Compression {
	magic, err := r.Peek(len(zstdMagic))
	if err != nil {
		return None
	}

	switch {
	case bytes.Equal(magic, zstdMagic):
		return Zstd
	case bytes.Equal(magic, lz4Magic):
		return LZ4
	default:
		return None
	}
}

// decompress returns a reader that decompresses r according to its magic
// bytes. The returned close function must be called once done.
func decompress(r io.Reader) (io.Reader, func(), error) {
	buffered := bufio.NewReader(r)

	switch detect(buffered) {
	case Zstd:
		decoder, err := zstd.NewReader(buffered)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}

		return decoder, decoder.Close, nil
	case LZ4:
		return lz4.NewReader(buffered), func() {}, nil
	default:
		return buffered, func() {}, nil
	}
}

// compress returns a writer that compresses into w with the given
// compression. The returned writer must be closed to flush all data.
func compress(w io.Writer, compression Compression) (io.WriteCloser, error) {
	switch compression {
	case None:
		return nopCloser{w}, nil
	case Zstd:
		encoder, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}

		return encoder, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, int(compression))
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
