// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vpath_test

import (
	"testing"

	"github.com/aibor/datvfs/vpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected vpath.Path
	}{
		{
			name:     "empty",
			input:    "",
			expected: vpath.Path{},
		},
		{
			name:     "single",
			input:    "file.txt",
			expected: vpath.Path{"file.txt"},
		},
		{
			name:     "slashes",
			input:    "a/b/c.txt",
			expected: vpath.Path{"a", "b", "c.txt"},
		},
		{
			name:     "backslashes",
			input:    `a\b\c.txt`,
			expected: vpath.Path{"a", "b", "c.txt"},
		},
		{
			name:     "mixed",
			input:    `a/b\c.txt`,
			expected: vpath.Path{"a", "b", "c.txt"},
		},
		{
			name:     "trailing separator",
			input:    "a/b/",
			expected: vpath.Path{"a", "b"},
		},
		{
			name:     "leading separator",
			input:    "/a",
			expected: vpath.Path{"a"},
		},
		{
			name:     "repeated separators",
			input:    "a//b",
			expected: vpath.Path{"a", "b"},
		},
		{
			name:     "navigation names kept",
			input:    "a/../b/.",
			expected: vpath.Path{"a", "..", "b", "."},
		},
		{
			name:     "case preserved",
			input:    "A/b",
			expected: vpath.Path{"A", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := vpath.Parse(tt.input)
			assert.True(t, tt.expected.Equal(actual), "expected %v, got %v", tt.expected, actual)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, p := range []string{"a", "a/b", "some/deep/nested/file.bin", "x.y.z"} {
		assert.Equal(t, p, vpath.Parse(p).String())
	}

	assert.Equal(t, "a/b/c", vpath.Parse(`a\b\c`).String())
}

func TestPathComponent(t *testing.T) {
	p := vpath.Parse("a/b/c")

	c, err := p.Component(1)
	require.NoError(t, err)
	assert.Equal(t, "b", c)

	_, err = p.Component(3)
	require.ErrorIs(t, err, vpath.ErrOutOfRange)

	_, err = p.Component(-1)
	require.ErrorIs(t, err, vpath.ErrOutOfRange)
}

func TestPathSlice(t *testing.T) {
	p := vpath.Parse("a/b/c/d")

	tests := []struct {
		name     string
		from, to int
		expected vpath.Path
		err      error
	}{
		{name: "all", from: 0, to: 4, expected: vpath.Path{"a", "b", "c", "d"}},
		{name: "middle", from: 1, to: 3, expected: vpath.Path{"b", "c"}},
		{name: "empty", from: 2, to: 2, expected: vpath.Path{}},
		{name: "to beyond", from: 0, to: 5, err: vpath.ErrOutOfRange},
		{name: "negative", from: -1, to: 2, err: vpath.ErrOutOfRange},
		{name: "reversed", from: 3, to: 1, err: vpath.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := p.Slice(tt.from, tt.to)
			require.ErrorIs(t, err, tt.err)

			if tt.err == nil {
				assert.True(t, tt.expected.Equal(actual))
			}
		})
	}
}

func TestPathSliceDoesNotAlias(t *testing.T) {
	p := vpath.Parse("a/b/c")

	s, err := p.Slice(0, 2)
	require.NoError(t, err)

	s[0] = "changed"
	assert.Equal(t, "a", p[0])
}

func TestPathSuffix(t *testing.T) {
	p := vpath.Parse("a/b/c")

	s, err := p.Suffix(1)
	require.NoError(t, err)
	assert.Equal(t, "b/c", s.String())

	s, err = p.Suffix(3)
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())

	_, err = p.Suffix(4)
	require.ErrorIs(t, err, vpath.ErrOutOfRange)
}

func TestConcat(t *testing.T) {
	a := vpath.Parse("mnt/data")
	b := vpath.Parse("x/y.txt")

	assert.Equal(t, "mnt/data/x/y.txt", vpath.Concat(a, b).String())
	assert.Equal(t, "x/y.txt", vpath.Concat(nil, b).String())
	assert.Equal(t, "mnt/data", vpath.Concat(a, nil).String())
}

func TestPathLastAndDepth(t *testing.T) {
	p := vpath.Parse("a/b/c.txt")

	last, err := p.Last()
	require.NoError(t, err)
	assert.Equal(t, "c.txt", last)
	assert.Equal(t, 2, p.Depth())
	assert.Equal(t, 0, vpath.Parse("a").Depth())

	_, err = vpath.Path{}.Last()
	require.ErrorIs(t, err, vpath.ErrOutOfRange)
}

func TestPathDir(t *testing.T) {
	assert.Equal(t, "a/b", vpath.Parse("a/b/c").Dir().String())
	assert.True(t, vpath.Parse("a").Dir().IsEmpty())
	assert.True(t, vpath.Path{}.Dir().IsEmpty())
}

func TestValidName(t *testing.T) {
	for _, name := range []string{"a", "file.txt", ".", "..", "with space"} {
		require.NoError(t, vpath.ValidName(name), name)
	}

	for _, name := range []string{"", "a/b", `a\b`, "/"} {
		require.ErrorIs(t, vpath.ValidName(name), vpath.ErrInvalidName, name)
	}
}

func TestPathValidate(t *testing.T) {
	require.NoError(t, vpath.Parse("a/b").Validate())
	require.ErrorIs(t, vpath.Path{"a", ""}.Validate(), vpath.ErrInvalidName)
}
