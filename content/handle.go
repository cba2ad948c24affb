// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/zeebo/blake3"
)

const defaultMinReferences = 1

// Digest is a BLAKE3-256 content digest.
type Digest [32]byte

// String returns the hex representation of the digest.
func (d Digest) String() string {
	return fmt.Sprintf("%x", d[:])
}

// Observer is notified about content being loaded into and released from
// memory.
type Observer interface {
	Loaded(bytes int64)
	Unloaded(bytes int64)
	LoadFailed()
}

// HandleOption configures a [Handle].
type HandleOption func(*Handle)

// WithMinReferences sets the minimum number of references. Once the count
// drops below it, loaded content is released. Values below 1 are ignored.
func WithMinReferences(n int) HandleOption {
	return func(h *Handle) {
		if n > 0 {
			h.minRefs = n
		}
	}
}

// WithObserver sets an [Observer] for the [Handle].
func WithObserver(observer Observer) HandleOption {
	return func(h *Handle) {
		h.observer = observer
	}
}

// Handle is a lazily loaded, reference counted holder of the content of a
// [Source].
//
// The content is either completely loaded or not loaded at all. A new
// [Handle] has one reference. All methods are safe for concurrent use.
type Handle struct {
	mu sync.Mutex

	source   Source
	length   int64
	data     []byte
	refs     int
	minRefs  int
	observer Observer
}

// NewHandle creates a new unloaded [Handle] for the given [Source] with a
// single reference.
func NewHandle(source Source, opts ...HandleOption) *Handle {
	handle := &Handle{
		source:  source,
		length:  source.Len(),
		refs:    1,
		minRefs: defaultMinReferences,
	}

	for _, opt := range opts {
		opt(handle)
	}

	return handle
}

// Source returns the [Source] the [Handle] loads its content from.
func (h *Handle) Source() Source {
	return h.source
}

// Len returns the content length. It does not load the content.
func (h *Handle) Len() int64 {
	return h.length
}

// Loaded returns true if the content is currently held in memory.
func (h *Handle) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.data != nil
}

// References returns the current number of references.
func (h *Handle) References() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.refs
}

// Bytes returns the content. It is loaded from the [Source] on first access.
//
// The returned slice is shared by all users of the [Handle] and must not be
// modified.
func (h *Handle) Bytes() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.refs == 0 {
		return nil, ErrReleased
	}

	if h.data == nil {
		err := h.load()
		if err != nil {
			if h.observer != nil {
				h.observer.LoadFailed()
			}

			return nil, err
		}
	}

	return h.data, nil
}

// Digest returns the BLAKE3-256 digest of the content. The content is loaded
// if required.
func (h *Handle) Digest() (Digest, error) {
	data, err := h.Bytes()
	if err != nil {
		return Digest{}, err
	}

	return blake3.Sum256(data), nil
}

// Unload releases loaded content. The [Handle] stays usable and loads the
// content again on next access.
func (h *Handle) Unload() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.unload()
}

// AddReference adds a reference and returns the new count. A released
// [Handle] stays released and 0 is returned.
func (h *Handle) AddReference() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.refs == 0 {
		return 0
	}

	h.refs++

	return h.refs
}

// RemoveReference removes a reference and returns the new count.
//
// If the count drops below the minimum number of references, loaded content
// is released. Once no reference is left, the [Handle] is released: its
// [Source] is closed if it implements [io.Closer] and content can not be
// loaded anymore.
func (h *Handle) RemoveReference() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.refs == 0 {
		return 0
	}

	h.refs--

	if h.refs < h.minRefs {
		h.unload()
	}

	if h.refs == 0 {
		h.release()
	}

	return h.refs
}

func (h *Handle) load() error {
	if !h.source.Valid() {
		return fmt.Errorf("%w: %s", ErrSourceUnavailable, SourceName(h.source))
	}

	buf := make([]byte, h.length)

	err := h.source.ReadInto(buf)
	if err != nil {
		return fmt.Errorf("load %s: %w", SourceName(h.source), err)
	}

	h.data = buf

	slog.Debug("Content loaded",
		slog.String("source", SourceName(h.source)),
		slog.Int64("bytes", h.length))

	if h.observer != nil {
		h.observer.Loaded(h.length)
	}

	return nil
}

func (h *Handle) unload() {
	if h.data == nil {
		return
	}

	h.data = nil

	slog.Debug("Content unloaded",
		slog.String("source", SourceName(h.source)),
		slog.Int64("bytes", h.length))

	if h.observer != nil {
		h.observer.Unloaded(h.length)
	}
}

func (h *Handle) release() {
	closer, ok := h.source.(io.Closer)
	if !ok {
		return
	}

	err := closer.Close()
	if err != nil {
		slog.Warn("Failed to close released source",
			slog.String("source", SourceName(h.source)),
			slog.Any("error", err))
	}
}
