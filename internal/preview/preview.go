// Package preview renders a changes.Change as a single unified-diff hunk for terminals.
//
// The changed region is widened to whole lines and then diffed line by line, so the hunk shows exactly the lines the minimal edit touches, plus optional context.
// Paired changed lines get intra-line highlighting when color is on.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/codalotl/minedit/internal/changes"
	"github.com/codalotl/minedit/internal/textpos"
)

// Options controls rendering.
type Options struct {
	Name    string // file name for the ---/+++ header; "" omits the header
	Context int    // unchanged lines shown before and after the change
	Color   bool   // emit ANSI colors
}

const noNewline = `\ No newline at end of file`

const (
	reset     = "\x1b[0m"
	blackFG   = "\x1b[30m"
	pinkLine  = "\x1b[48;5;224m" // deleted line
	pinkSpan  = "\x1b[48;5;217m" // deleted span
	greenLine = "\x1b[48;5;194m" // inserted line
	greenSpan = "\x1b[48;5;114m" // inserted span
	cyanBold  = "\x1b[1;36m"
	magenta   = "\x1b[35m"
)

// Render writes c, the change from original to candidate, to w. A NoChange writes nothing. c must be valid for the texts.
func Render(w io.Writer, original, candidate string, c changes.Change, opts Options) error {
	if err := c.Validate(original, candidate); err != nil {
		return err
	}
	if c.Kind == changes.NoChange {
		return nil
	}

	h := newHunk(original, candidate, c, max(opts.Context, 0))
	p := printer{color: opts.Color}
	if opts.Name != "" {
		p.styled(cyanBold, "--- "+opts.Name)
		p.styled(cyanBold, "+++ "+opts.Name)
	}
	p.styled(magenta, fmt.Sprintf("@@ -%d,%d +%d,%d @@ %s", h.oldStart, h.oldCount, h.newStart, h.newCount, describe(original, candidate, c)))
	for _, l := range h.lines {
		p.line(l)
	}

	_, err := io.WriteString(w, p.b.String())
	return err
}

// describe summarizes c with 1-based line:column ranges.
func describe(original, candidate string, c changes.Change) string {
	if c.Kind != changes.PartialChange {
		return c.Kind.String()
	}
	oldRange, err := textpos.NewIndex(original, nil).Range(c.Original.Offset, c.Original.End())
	if err != nil {
		return c.String()
	}
	newRange, err := textpos.NewIndex(candidate, nil).Range(c.Candidate.Offset, c.Candidate.End())
	if err != nil {
		return c.String()
	}
	return fmt.Sprintf("%s %s -> %s", c.Kind, oldRange, newRange)
}

type hunk struct {
	oldStart, oldCount int // 1-based
	newStart, newCount int
	lines              []line
}

// newHunk widens c's regions to whole lines and diffs them. The bytes before the region, and after it, are identical in both texts, so widening adds the same bytes to each side
// and the lines around the block are shared context.
func newHunk(original, candidate string, c changes.Change, context int) hunk {
	start := strings.LastIndexByte(original[:c.Original.Offset], '\n') + 1
	ext := len(original) - c.Original.End()
	if i := strings.IndexByte(original[c.Original.End():], '\n'); i >= 0 {
		ext = i + 1
	}
	oldEnd := c.Original.End() + ext
	newEnd := c.Candidate.End() + ext

	before := splitLines(original[:start])
	firstLine := len(before) + 1
	before = before[len(before)-min(context, len(before)):]
	after := splitLines(original[oldEnd:])
	after = after[:min(context, len(after))]

	var h hunk
	for _, s := range before {
		h.lines = append(h.lines, line{op: opEqual, text: s})
	}
	h.lines = append(h.lines, diffLines(original[start:oldEnd], candidate[start:newEnd])...)
	for _, s := range after {
		h.lines = append(h.lines, line{op: opEqual, text: s})
	}

	h.oldStart = firstLine - len(before)
	h.newStart = h.oldStart
	for _, l := range h.lines {
		if l.op != opInsert {
			h.oldCount++
		}
		if l.op != opDelete {
			h.newCount++
		}
	}
	// Like diff -u, an empty side names the line before it (0 at the top of the file).
	if h.oldCount == 0 {
		h.oldStart--
	}
	if h.newCount == 0 {
		h.newStart--
	}
	return h
}

type printer struct {
	b     strings.Builder
	color bool
}

func (p *printer) styled(style, s string) {
	if p.color {
		s = style + s + reset
	}
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *printer) line(l line) {
	var tag, lineBG, spanBG string
	switch l.op {
	case opEqual:
		tag = " "
	case opDelete:
		tag, lineBG, spanBG = "-", pinkLine, pinkSpan
	case opInsert:
		tag, lineBG, spanBG = "+", greenLine, greenSpan
	}

	content := trimEOL(l.text)
	if !p.color || l.op == opEqual {
		p.b.WriteString(tag + content + "\n")
	} else {
		p.b.WriteString(blackFG + lineBG + tag)
		if l.spans == nil {
			p.b.WriteString(content)
		}
		for _, sp := range l.spans {
			if sp.changed {
				p.b.WriteString(reset + blackFG + spanBG + sp.text + reset + blackFG + lineBG)
			} else {
				p.b.WriteString(sp.text)
			}
		}
		p.b.WriteString(reset + "\n")
	}

	if !strings.HasSuffix(l.text, "\n") {
		p.b.WriteString(noNewline + "\n")
	}
}
