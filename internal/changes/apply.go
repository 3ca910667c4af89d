package changes

// Apply returns original with c.Original replaced by the c.Candidate part of candidate. For any c returned by a Detect function on (original, candidate), the result
// is candidate.
//
// Apply panics if c's regions do not fit the given texts; use Change.Validate first when c comes from elsewhere.
func Apply(original, candidate string, c Change) string {
	switch c.Kind {
	case NoChange:
		return original
	case FullChange:
		return candidate
	}
	return original[:c.Original.Offset] + candidate[c.Candidate.Offset:c.Candidate.End()] + original[c.Original.End():]
}

// ApplyUnits is Apply for element slices, for use with DetectUnits. The result is a new slice.
func ApplyUnits[E any](original, candidate []E, c Change) []E {
	switch c.Kind {
	case NoChange:
		return append([]E(nil), original...)
	case FullChange:
		return append([]E(nil), candidate...)
	}
	out := make([]E, 0, len(original)-c.Original.Length+c.Candidate.Length)
	out = append(out, original[:c.Original.Offset]...)
	out = append(out, candidate[c.Candidate.Offset:c.Candidate.End()]...)
	out = append(out, original[c.Original.End():]...)
	return out
}
