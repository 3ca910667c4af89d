// Package changes detects the single contiguous region in which a candidate text differs from an original text.
//
// It is used to turn the output of an external rewriting tool (a formatter, an import sorter) into the smallest possible in-place edit of the original: everything before
// the region and everything after it is identical, so the caller only needs to replace the region. Replacing less of a live document keeps undo history, cursors, and
// decorations intact.
//
// Result: Detect returns a Change whose Kind is one of:
//   - NoChange: the texts are identical. Both regions are zero.
//   - FullChange: the texts share no leading and no trailing character. Original covers all of original, Candidate covers all of candidate.
//   - PartialChange: Original and Candidate are the differing middle of each text. Either length may be 0 (pure insertion or pure deletion).
//
// Invariants (checked by Change.Validate):
//   - Original.Offset == Candidate.Offset.
//   - original[:Original.Offset] == candidate[:Candidate.Offset].
//   - original[Original.End():] == candidate[Candidate.End():].
//   - Lengths are never negative, and both regions lie within their text.
//   - Apply(original, candidate, Detect(original, candidate)) == candidate.
//
// Units: Detect, DetectGraphemes, and Apply use byte offsets into the UTF-8 encoding, and never split an encoded code point. DetectUnits works on any element slice
// with per-element offsets; DetectRunes and DetectUTF16 are conveniences for code point and UTF-16 code unit offsets (the convention of most editor APIs).
//
// Policy: the prefix and suffix scans are greedy. When the boundary of the edit is ambiguous (repeated characters), the prefix takes as much as it can and the suffix
// takes the rest; no attempt is made to find a different split. The suffix scan is capped so it never overlaps the prefix, which keeps lengths non-negative for inputs
// like ("aa", "a"). Two texts with no common prefix and no common suffix are a FullChange, which includes the case where either text is empty.
package changes
