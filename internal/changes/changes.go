package changes

import "fmt"

// Kind classifies a Change.
type Kind int

const (
	NoChange      Kind = iota // The texts are identical.
	FullChange                // No common prefix and no common suffix.
	PartialChange             // A single differing region bounded by a common prefix and/or suffix.
)

// String returns "no-change", "full-change", or "partial-change".
func (k Kind) String() string {
	switch k {
	case NoChange:
		return "no-change"
	case FullChange:
		return "full-change"
	case PartialChange:
		return "partial-change"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Region is a contiguous sub-range of a text: Length units starting at Offset.
type Region struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// End returns the offset just past the region.
func (r Region) End() int {
	return r.Offset + r.Length
}

// IsEmpty reports whether the region has no length.
func (r Region) IsEmpty() bool {
	return r.Length == 0
}

func (r Region) String() string {
	return fmt.Sprintf("(%d, %d)", r.Offset, r.Length)
}

// Change describes how a candidate text differs from an original text. See the package doc for the meaning of each Kind and the invariants that hold for every Change
// returned by this package.
//
// A Change is only meaningful for the pair of texts it was computed from.
type Change struct {
	Kind      Kind   `json:"kind"`
	Original  Region `json:"original"`  // Region of the original text to replace.
	Candidate Region `json:"candidate"` // Region of the candidate text to replace it with.
}

func (c Change) String() string {
	switch c.Kind {
	case NoChange, FullChange:
		return c.Kind.String()
	default:
		return fmt.Sprintf("%s original=%s candidate=%s", c.Kind, c.Original, c.Candidate)
	}
}

// Replacement returns the text of candidate covered by c.Candidate. It returns "" for NoChange.
func (c Change) Replacement(candidate string) string {
	if c.Kind == NoChange {
		return ""
	}
	return candidate[c.Candidate.Offset:c.Candidate.End()]
}

func fullChange(originalLen, candidateLen int) Change {
	return Change{
		Kind:      FullChange,
		Original:  Region{Offset: 0, Length: originalLen},
		Candidate: Region{Offset: 0, Length: candidateLen},
	}
}

func partialChange(prefixLen, suffixLen, originalLen, candidateLen int) Change {
	return Change{
		Kind:      PartialChange,
		Original:  Region{Offset: prefixLen, Length: originalLen - suffixLen - prefixLen},
		Candidate: Region{Offset: prefixLen, Length: candidateLen - suffixLen - prefixLen},
	}
}
