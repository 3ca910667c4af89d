package preview

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type op int

const (
	opEqual op = iota
	opDelete
	opInsert
)

// line is one rendered line of a hunk. text includes its trailing '\n', if any.
type line struct {
	op    op
	text  string
	spans []span // intra-line highlighting for changed lines that have a counterpart; nil otherwise
}

// span is a piece of a changed line. changed spans are highlighted.
type span struct {
	text    string
	changed bool
}

// diffLines diffs two blocks of whole lines. Runs of deletions followed by insertions are paired line by line for intra-line spans.
func diffLines(oldBlock, newBlock string) []line {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldBlock, newBlock)
	diffs := dmp.DiffCleanupMerge(dmp.DiffMainRunes(rOld, rNew, false))

	decode := func(s string) []string {
		out := make([]string, 0, len(s))
		for _, r := range s {
			if idx := int(r); idx >= 0 && idx < len(lineArray) {
				out = append(out, lineArray[idx])
			}
		}
		return out
	}

	var out []line
	var dels, ins []string
	flush := func() {
		out = append(out, pairLines(dmp, dels, ins)...)
		dels, ins = nil, nil
	}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			for _, s := range decode(d.Text) {
				out = append(out, line{op: opEqual, text: s})
			}
		case diffmatchpatch.DiffDelete:
			dels = append(dels, decode(d.Text)...)
		case diffmatchpatch.DiffInsert:
			ins = append(ins, decode(d.Text)...)
		}
	}
	flush()
	return out
}

// pairLines emits all deletions, then all insertions. The first min(len(dels), len(ins)) of each are paired and get intra-line spans.
func pairLines(dmp *diffmatchpatch.DiffMatchPatch, dels, ins []string) []line {
	n := min(len(dels), len(ins))
	oldSpans := make([][]span, n)
	newSpans := make([][]span, n)
	for i := 0; i < n; i++ {
		oldSpans[i], newSpans[i] = lineSpans(dmp, trimEOL(dels[i]), trimEOL(ins[i]))
	}

	out := make([]line, 0, len(dels)+len(ins))
	for i, s := range dels {
		l := line{op: opDelete, text: s}
		if i < n {
			l.spans = oldSpans[i]
		}
		out = append(out, l)
	}
	for i, s := range ins {
		l := line{op: opInsert, text: s}
		if i < n {
			l.spans = newSpans[i]
		}
		out = append(out, l)
	}
	return out
}

// lineSpans splits a pair of lines into equal and changed spans for each side, with semantic cleanup so highlights follow word-ish boundaries instead of scattered characters.
func lineSpans(dmp *diffmatchpatch.DiffMatchPatch, oldLine, newLine string) (oldSpans, newSpans []span) {
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldLine, newLine, false))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldSpans = appendSpan(oldSpans, d.Text, false)
			newSpans = appendSpan(newSpans, d.Text, false)
		case diffmatchpatch.DiffDelete:
			oldSpans = appendSpan(oldSpans, d.Text, true)
		case diffmatchpatch.DiffInsert:
			newSpans = appendSpan(newSpans, d.Text, true)
		}
	}
	return oldSpans, newSpans
}

func appendSpan(spans []span, text string, changed bool) []span {
	if n := len(spans); n > 0 && spans[n-1].changed == changed {
		spans[n-1].text += text
		return spans
	}
	return append(spans, span{text: text, changed: changed})
}

// splitLines splits text after each '\n'. The last line may lack one. The empty string has no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func trimEOL(s string) string {
	return strings.TrimSuffix(s, "\n")
}
