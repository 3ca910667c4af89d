package changes

import "fmt"

// Validate checks c against original and candidate and returns an error describing the first violated invariant (see package doc), or nil.
func (c Change) Validate(original, candidate string) error {
	switch c.Kind {
	case NoChange:
		if original != candidate {
			return fmt.Errorf("no-change, but texts differ")
		}
		if c.Original != (Region{}) || c.Candidate != (Region{}) {
			return fmt.Errorf("no-change with non-zero regions %s %s", c.Original, c.Candidate)
		}
		return nil
	case FullChange:
		if c.Original != (Region{Length: len(original)}) {
			return fmt.Errorf("full-change original region %s does not cover original (len %d)", c.Original, len(original))
		}
		if c.Candidate != (Region{Length: len(candidate)}) {
			return fmt.Errorf("full-change candidate region %s does not cover candidate (len %d)", c.Candidate, len(candidate))
		}
		return nil
	case PartialChange:
		if original == candidate {
			return fmt.Errorf("partial-change, but texts are identical")
		}
	default:
		return fmt.Errorf("unknown kind %d", int(c.Kind))
	}

	if err := c.Original.within(len(original)); err != nil {
		return fmt.Errorf("original region: %w", err)
	}
	if err := c.Candidate.within(len(candidate)); err != nil {
		return fmt.Errorf("candidate region: %w", err)
	}
	if c.Original.Offset != c.Candidate.Offset {
		return fmt.Errorf("region offsets differ: original %d, candidate %d", c.Original.Offset, c.Candidate.Offset)
	}
	if original[:c.Original.Offset] != candidate[:c.Candidate.Offset] {
		return fmt.Errorf("prefixes before offset %d differ", c.Original.Offset)
	}
	if original[c.Original.End():] != candidate[c.Candidate.End():] {
		return fmt.Errorf("suffixes after %d (original) and %d (candidate) differ", c.Original.End(), c.Candidate.End())
	}
	if c.Original.Offset == 0 && c.Original.End() == len(original) && c.Candidate.End() == len(candidate) {
		return fmt.Errorf("partial-change with no common prefix or suffix")
	}
	return nil
}

func (r Region) within(n int) error {
	if r.Offset < 0 || r.Length < 0 {
		return fmt.Errorf("%s has a negative offset or length", r)
	}
	if r.End() > n {
		return fmt.Errorf("%s extends past end of text (len %d)", r, n)
	}
	return nil
}
