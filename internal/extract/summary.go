package extract

const (
	// summaryLimit is the maximum length, in runes, of a summarised
	// interaction. Outputs longer than the input are never produced.
	summaryLimit = 100

	// ellipsis terminates truncated summaries.
	ellipsis = "..."
)

// SummarizeInteraction bounds interaction text to at most 100 characters.
// Text of 100 characters or fewer is returned unchanged; longer text is cut
// to its first 97 characters with "..." appended, for exactly 100.
//
// Lengths are counted in runes, not bytes, so multi-byte characters are never
// split mid-sequence.
func SummarizeInteraction(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryLimit {
		return text
	}
	return string(runes[:summaryLimit-len(ellipsis)]) + ellipsis
}
