package changes

import "github.com/codalotl/minedit/internal/q/uni"

// DetectGraphemes is like Detect, but region boundaries are additionally moved outward to grapheme cluster boundaries in both texts. A combining mark, an emoji ZWJ
// sequence, or a CRLF pair is therefore never split between the unchanged and the changed part.
func DetectGraphemes(original, candidate string) Change {
	if original == candidate {
		return Change{Kind: NoChange}
	}

	prefixLen, suffixLen := scanBytes(original, candidate)

	ob := uni.GraphemeBoundaries(original)
	cb := uni.GraphemeBoundaries(candidate)

	for prefixLen > 0 && !(ob.Contains(prefixLen) && cb.Contains(prefixLen)) {
		prefixLen--
	}
	for suffixLen > 0 && !(ob.Contains(len(original)-suffixLen) && cb.Contains(len(candidate)-suffixLen)) {
		suffixLen--
	}

	if prefixLen == 0 && suffixLen == 0 {
		return fullChange(len(original), len(candidate))
	}
	return partialChange(prefixLen, suffixLen, len(original), len(candidate))
}
