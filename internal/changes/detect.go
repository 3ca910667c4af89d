package changes

import (
	"slices"
	"unicode/utf16"
	"unicode/utf8"
)

// Detect returns the Change that turns original into candidate, in byte offsets. Region boundaries never fall inside a UTF-8 encoded code point.
//
// Example: Detect("abcdefgh", "abcxyzh") returns a PartialChange with Original (3, 4) and Candidate (3, 3).
func Detect(original, candidate string) Change {
	if original == candidate {
		return Change{Kind: NoChange}
	}

	prefixLen, suffixLen := scanBytes(original, candidate)

	// Back off to code point boundaries. The prefix is shared, so only the first differing byte of each side matters; the suffix is shared, so either side will do.
	for prefixLen > 0 && (isContinuation(original, prefixLen) || isContinuation(candidate, prefixLen)) {
		prefixLen--
	}
	for suffixLen > 0 && isContinuation(original, len(original)-suffixLen) {
		suffixLen--
	}

	if prefixLen == 0 && suffixLen == 0 {
		return fullChange(len(original), len(candidate))
	}
	return partialChange(prefixLen, suffixLen, len(original), len(candidate))
}

// DetectUnits returns the Change that turns original into candidate, with offsets counted in elements. Equality is per element; no boundary snapping is performed.
func DetectUnits[E comparable](original, candidate []E) Change {
	if slices.Equal(original, candidate) {
		return Change{Kind: NoChange}
	}

	minLength := min(len(original), len(candidate))

	prefixLen := 0
	for prefixLen < minLength && original[prefixLen] == candidate[prefixLen] {
		prefixLen++
	}

	suffixLen := 0
	for suffixLen < minLength-prefixLen && original[len(original)-suffixLen-1] == candidate[len(candidate)-suffixLen-1] {
		suffixLen++
	}

	if prefixLen == 0 && suffixLen == 0 {
		return fullChange(len(original), len(candidate))
	}
	return partialChange(prefixLen, suffixLen, len(original), len(candidate))
}

// DetectRunes is DetectUnits over code points. Offsets count runes; invalid UTF-8 bytes each count as one utf8.RuneError.
func DetectRunes(original, candidate string) Change {
	return DetectUnits([]rune(original), []rune(candidate))
}

// DetectUTF16 is DetectUnits over UTF-16 code units, the offset convention of most editor and LSP APIs. A surrogate pair may be split by the result, exactly as an
// editor working in UTF-16 would see it.
func DetectUTF16(original, candidate string) Change {
	return DetectUnits(utf16.Encode([]rune(original)), utf16.Encode([]rune(candidate)))
}

// scanBytes returns the lengths of the common prefix and the common suffix of a and b. The suffix scan stops where the prefix ends, so the two never overlap.
func scanBytes(a, b string) (prefixLen, suffixLen int) {
	minLength := min(len(a), len(b))

	for prefixLen < minLength && a[prefixLen] == b[prefixLen] {
		prefixLen++
	}
	for suffixLen < minLength-prefixLen && a[len(a)-suffixLen-1] == b[len(b)-suffixLen-1] {
		suffixLen++
	}
	return prefixLen, suffixLen
}

// isContinuation reports whether s[i] exists and is a UTF-8 continuation byte.
func isContinuation(s string, i int) bool {
	return i < len(s) && !utf8.RuneStart(s[i])
}
