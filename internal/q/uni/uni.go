// Package uni answers the two Unicode questions the rest of minedit asks about text: where are the grapheme cluster boundaries, and how many terminal cells does a
// string occupy.
package uni

import (
	"sort"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Options control width calculation. Only East Asian code points are affected.
type Options struct {
	EastAsianWidth   bool // treat ambiguous East Asian code points as 2 wide; use for CJK locales
	TreatEmojiAsWide bool // only considered if EastAsianWidth
}

func (o *Options) condition() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true
	if o != nil {
		cond.EastAsianWidth = o.EastAsianWidth
		cond.StrictEmojiNeutral = !(o.EastAsianWidth && o.TreatEmojiAsWide)
	}
	return cond
}

// TextWidth returns the number of terminal cells s occupies in a monospace font. A nil opts means a non-East Asian locale.
func TextWidth(s string, opts *Options) int {
	return opts.condition().StringWidth(s)
}

// Iterator walks the grapheme clusters of a string.
type Iterator struct {
	iter graphemes.Iterator[string]
	cond *runewidth.Condition
}

// NewGraphemeIterator returns an iterator over the clusters of s. opts affects only TextWidth.
func NewGraphemeIterator(s string, opts *Options) *Iterator {
	return &Iterator{iter: graphemes.FromString(s), cond: opts.condition()}
}

func (it *Iterator) Next() bool    { return it.iter.Next() }
func (it *Iterator) Value() string { return it.iter.Value() }

// Start is the byte offset of the current cluster.
func (it *Iterator) Start() int { return it.iter.Start() }

// End is the byte offset just past the current cluster.
func (it *Iterator) End() int { return it.iter.End() }

// TextWidth returns the width of the current cluster in terminal cells.
func (it *Iterator) TextWidth() int {
	return it.cond.StringWidth(it.iter.Value())
}

// Boundaries is the sorted set of grapheme cluster boundaries of a text, as byte offsets. It always contains 0 and len(text).
type Boundaries []int

// GraphemeBoundaries returns the cluster boundaries of s.
func GraphemeBoundaries(s string) Boundaries {
	b := Boundaries{0}
	iter := graphemes.FromString(s)
	for iter.Next() {
		b = append(b, iter.End())
	}
	if b[len(b)-1] != len(s) {
		// Only reachable for empty input, where the loop never runs.
		b = append(b, len(s))
	}
	return b
}

// Contains reports whether off is a cluster boundary.
func (b Boundaries) Contains(off int) bool {
	i := sort.SearchInts(b, off)
	return i < len(b) && b[i] == off
}

// Floor returns the largest boundary <= off. Offsets below 0 return 0.
func (b Boundaries) Floor(off int) int {
	i := sort.SearchInts(b, off)
	switch {
	case i < len(b) && b[i] == off:
		return off
	case i == 0:
		return 0
	}
	return b[i-1]
}

// Ceil returns the smallest boundary >= off. Offsets past the end return the last boundary.
func (b Boundaries) Ceil(off int) int {
	i := sort.SearchInts(b, off)
	if i == len(b) {
		return b[len(b)-1]
	}
	return b[i]
}
