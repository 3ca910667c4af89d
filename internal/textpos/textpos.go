// Package textpos converts byte offsets in a text to line/column positions and back.
//
// A column is reported in three units, because the consumers of a position disagree on what a column is:
//   - Column: bytes from the start of the line (Go string indexing).
//   - UTF16Column: UTF-16 code units from the start of the line (LSP and most editor APIs).
//   - DisplayColumn: terminal cells from the start of the line, with tabs expanded to the next tab stop.
//
// Lines are separated by '\n'. A '\r' before the '\n' is part of the line's content. All lines and columns are 0-based.
package textpos

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/codalotl/minedit/internal/q/uni"
)

// ErrOffsetOutOfRange is returned for offsets, lines, or columns outside the text.
var ErrOffsetOutOfRange = errors.New("textpos: offset out of range")

// DefaultTabWidth is the tab stop interval used for DisplayColumn when Options.TabWidth is not set.
const DefaultTabWidth = 4

// Position is a location in a text. Offset is the byte offset it was computed from.
type Position struct {
	Offset        int `json:"offset"`
	Line          int `json:"line"`
	Column        int `json:"column"`
	UTF16Column   int `json:"utf16Column"`
	DisplayColumn int `json:"displayColumn"`
}

// String returns the 1-based "line:column" form used in compiler diagnostics. Column is the display column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.DisplayColumn+1)
}

// Range is a half-open span [Start, End) of a text.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Options configures an Index. The zero value (or nil) uses DefaultTabWidth and non-East-Asian widths.
type Options struct {
	TabWidth int
	Width    *uni.Options
}

// Index answers position queries for one text. Build it once with NewIndex; it is safe for concurrent reads.
type Index struct {
	text       string
	lineStarts []int // byte offset of the start of each line; lineStarts[0] == 0
	tabWidth   int
	width      *uni.Options
}

// NewIndex indexes text.
func NewIndex(text string, opts *Options) *Index {
	ix := &Index{text: text, lineStarts: []int{0}, tabWidth: DefaultTabWidth}
	if opts != nil {
		if opts.TabWidth > 0 {
			ix.tabWidth = opts.TabWidth
		}
		ix.width = opts.Width
	}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			ix.lineStarts = append(ix.lineStarts, i+1)
		}
	}
	return ix
}

// Text returns the indexed text.
func (ix *Index) Text() string {
	return ix.text
}

// LineCount returns the number of lines. A text ending in '\n' has a final empty line; the empty text has one line.
func (ix *Index) LineCount() int {
	return len(ix.lineStarts)
}

// Line returns the content of line, without its terminating '\n'.
func (ix *Index) Line(line int) (string, error) {
	start, end, err := ix.lineBounds(line)
	if err != nil {
		return "", err
	}
	return ix.text[start:end], nil
}

// Position returns the position of offset. offset may equal len(text).
func (ix *Index) Position(offset int) (Position, error) {
	if offset < 0 || offset > len(ix.text) {
		return Position{}, fmt.Errorf("%w: offset %d, text length %d", ErrOffsetOutOfRange, offset, len(ix.text))
	}

	line := sort.Search(len(ix.lineStarts), func(i int) bool { return ix.lineStarts[i] > offset }) - 1
	start := ix.lineStarts[line]
	seg := ix.text[start:runeStart(ix.text, start, offset)]

	return Position{
		Offset:        offset,
		Line:          line,
		Column:        offset - start,
		UTF16Column:   utf16Len(seg),
		DisplayColumn: ix.displayWidth(seg),
	}, nil
}

// End returns the position just past the last byte.
func (ix *Index) End() Position {
	p, _ := ix.Position(len(ix.text))
	return p
}

// Range returns the positions of start and end.
func (ix *Index) Range(start, end int) (Range, error) {
	if start > end {
		return Range{}, fmt.Errorf("%w: start %d after end %d", ErrOffsetOutOfRange, start, end)
	}
	s, err := ix.Position(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ix.Position(end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: s, End: e}, nil
}

// Offset returns the byte offset of (line, column), where column is in bytes. column may equal the line's length (the position before its '\n').
func (ix *Index) Offset(line, column int) (int, error) {
	start, end, err := ix.lineBounds(line)
	if err != nil {
		return 0, err
	}
	if column < 0 || start+column > end {
		return 0, fmt.Errorf("%w: column %d on line %d of length %d", ErrOffsetOutOfRange, column, line, end-start)
	}
	return start + column, nil
}

// OffsetUTF16 returns the byte offset of (line, utf16Column). A column that falls between the two halves of a surrogate pair resolves to the start of that code point.
func (ix *Index) OffsetUTF16(line, utf16Column int) (int, error) {
	start, end, err := ix.lineBounds(line)
	if err != nil {
		return 0, err
	}
	if utf16Column < 0 {
		return 0, fmt.Errorf("%w: utf16 column %d", ErrOffsetOutOfRange, utf16Column)
	}

	units := 0
	for i := start; i < end; {
		if units >= utf16Column {
			return i, nil
		}
		r, size := utf8.DecodeRuneInString(ix.text[i:end])
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > utf16Column {
			return i, nil
		}
		units += n
		i += size
	}
	if units == utf16Column {
		return end, nil
	}
	return 0, fmt.Errorf("%w: utf16 column %d on line %d of %d units", ErrOffsetOutOfRange, utf16Column, line, units)
}

func (ix *Index) lineBounds(line int) (start, end int, err error) {
	if line < 0 || line >= len(ix.lineStarts) {
		return 0, 0, fmt.Errorf("%w: line %d of %d", ErrOffsetOutOfRange, line, len(ix.lineStarts))
	}
	start = ix.lineStarts[line]
	end = len(ix.text)
	if line+1 < len(ix.lineStarts) {
		end = ix.lineStarts[line+1] - 1
	}
	return start, end, nil
}

func (ix *Index) displayWidth(seg string) int {
	col := 0
	iter := uni.NewGraphemeIterator(seg, ix.width)
	for iter.Next() {
		if iter.Value() == "\t" {
			col += ix.tabWidth - col%ix.tabWidth
			continue
		}
		col += iter.TextWidth()
	}
	return col
}

// runeStart returns the start of the code point containing offset, or offset itself when it is not inside a valid multi-byte sequence. The result is never before lineStart.
func runeStart(text string, lineStart, offset int) int {
	if offset >= len(text) {
		return offset
	}
	for i := offset; i > lineStart && offset-i < utf8.UTFMax-1; {
		if utf8.RuneStart(text[i]) {
			break
		}
		i--
		if utf8.RuneStart(text[i]) {
			if r, size := utf8.DecodeRuneInString(text[i:]); r != utf8.RuneError && i+size > offset {
				return i
			}
			break
		}
	}
	return offset
}

// utf16Len returns the number of UTF-16 code units needed to encode s. Invalid bytes count as one unit each (U+FFFD).
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
