package textpos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition(t *testing.T) {
	text := "import os\n\tx = \"\U0001F600\"\r\nend"
	ix := NewIndex(text, nil)
	require.Equal(t, 3, ix.LineCount())

	tests := []struct {
		name   string
		offset int
		want   Position
	}{
		{"start", 0, Position{Offset: 0}},
		{"mid first line", 7, Position{Offset: 7, Line: 0, Column: 7, UTF16Column: 7, DisplayColumn: 7}},
		{"before newline", 9, Position{Offset: 9, Line: 0, Column: 9, UTF16Column: 9, DisplayColumn: 9}},
		{"start of second line", 10, Position{Offset: 10, Line: 1}},
		{"after tab", 11, Position{Offset: 11, Line: 1, Column: 1, UTF16Column: 1, DisplayColumn: 4}},
		// "\tx = \"" is 6 bytes; the emoji is 4 bytes, 2 UTF-16 units, 2 cells.
		{"after emoji", 20, Position{Offset: 20, Line: 1, Column: 10, UTF16Column: 8, DisplayColumn: 11}},
		{"at carriage return", 21, Position{Offset: 21, Line: 1, Column: 11, UTF16Column: 9, DisplayColumn: 12}},
		{"last line", 23, Position{Offset: 23, Line: 2}},
		{"end", len(text), Position{Offset: len(text), Line: 2, Column: 3, UTF16Column: 3, DisplayColumn: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ix.Position(tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, ix.End(), Position{Offset: len(text), Line: 2, Column: 3, UTF16Column: 3, DisplayColumn: 3})
}

func TestPosition_OutOfRange(t *testing.T) {
	ix := NewIndex("abc", nil)
	_, err := ix.Position(-1)
	assert.True(t, errors.Is(err, ErrOffsetOutOfRange))
	_, err = ix.Position(4)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestEmptyText(t *testing.T) {
	ix := NewIndex("", nil)
	assert.Equal(t, 1, ix.LineCount())
	assert.Equal(t, Position{}, ix.End())
	line, err := ix.Line(0)
	require.NoError(t, err)
	assert.Equal(t, "", line)
}

func TestLine(t *testing.T) {
	ix := NewIndex("a\r\nbc\n", nil)
	require.Equal(t, 3, ix.LineCount())

	l0, err := ix.Line(0)
	require.NoError(t, err)
	assert.Equal(t, "a\r", l0)

	l1, err := ix.Line(1)
	require.NoError(t, err)
	assert.Equal(t, "bc", l1)

	l2, err := ix.Line(2)
	require.NoError(t, err)
	assert.Equal(t, "", l2)

	_, err = ix.Line(3)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestOffset(t *testing.T) {
	ix := NewIndex("ab\ncde\n", nil)

	off, err := ix.Offset(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, off)

	off, err = ix.Offset(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, off, "end of line is addressable")

	_, err = ix.Offset(1, 4)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	_, err = ix.Offset(5, 0)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestOffsetUTF16(t *testing.T) {
	// a, U+00E9 (2 bytes, 1 unit), U+1F600 (4 bytes, 2 units), b
	ix := NewIndex("x\na\u00e9\U0001F600b", nil)

	tests := []struct {
		col  int
		want int
	}{
		{0, 2},
		{1, 3},
		{2, 5},
		{3, 5}, // inside the surrogate pair
		{4, 9},
		{5, 10},
	}
	for _, tt := range tests {
		got, err := ix.OffsetUTF16(1, tt.col)
		require.NoError(t, err, "col %d", tt.col)
		assert.Equal(t, tt.want, got, "col %d", tt.col)
	}

	_, err := ix.OffsetUTF16(1, 6)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	_, err = ix.OffsetUTF16(1, -1)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestRoundTripUTF16(t *testing.T) {
	text := "def f():\n    return \"\u4e16\U0001F600\"\n"
	ix := NewIndex(text, nil)
	for off := 0; off <= len(text); off++ {
		p, err := ix.Position(off)
		require.NoError(t, err)
		back, err := ix.OffsetUTF16(p.Line, p.UTF16Column)
		require.NoError(t, err)
		// Offsets inside a multi-byte sequence map back to the start of the code point.
		assert.LessOrEqual(t, back, off)
		assert.Greater(t, back+4, off)
	}
}

func TestPosition_InsideCodePoint(t *testing.T) {
	ix := NewIndex("\U0001F600x", nil)
	prev := -1
	for off := 0; off <= 5; off++ {
		p, err := ix.Position(off)
		require.NoError(t, err)
		assert.Equal(t, off, p.Column)
		assert.GreaterOrEqual(t, p.UTF16Column, prev, "offset %d", off)
		prev = p.UTF16Column
	}

	for _, off := range []int{1, 2, 3} {
		p, err := ix.Position(off)
		require.NoError(t, err)
		assert.Equal(t, 0, p.UTF16Column)
		assert.Equal(t, 0, p.DisplayColumn)
	}
	p, err := ix.Position(4)
	require.NoError(t, err)
	assert.Equal(t, 2, p.UTF16Column)

	// A stray continuation byte is not part of a code point and counts as one unit.
	ix = NewIndex("a\x80b", nil)
	p, err = ix.Position(2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.UTF16Column)
}

func TestRange(t *testing.T) {
	ix := NewIndex("abc\ndef", nil)
	r, err := ix.Range(2, 5)
	require.NoError(t, err)
	assert.Equal(t, "1:3-2:2", r.String())

	_, err = ix.Range(5, 2)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestTabWidth(t *testing.T) {
	ix := NewIndex("\t\tx", &Options{TabWidth: 8})
	p, err := ix.Position(2)
	require.NoError(t, err)
	assert.Equal(t, 16, p.DisplayColumn)

	ix = NewIndex("ab\tx", nil)
	p, err = ix.Position(3)
	require.NoError(t, err)
	assert.Equal(t, 4, p.DisplayColumn)
}
