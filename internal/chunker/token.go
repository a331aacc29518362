// Package chunker classifies enriched documents by structural shape and
// splits them into ordered, size-bounded chunks under one of three policies:
// menu, section, or semantic/generic.
package chunker

import "strings"

// EstimateTokens approximates the token count of text as 4/3 of its
// whitespace-separated word count. All chunk size and overlap settings are
// expressed in these units.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return (words*4 + 2) / 3
}

// tokensToWords converts a token budget back to a word count for the
// word-window splitter.
func tokensToWords(tokens int) int {
	words := tokens * 3 / 4
	if words < 1 {
		words = 1
	}
	return words
}

// SplitBySize splits text into word-window pieces of at most sizeTokens,
// with adjacent pieces sharing at most overlapTokens of trailing/leading
// text. Text that fits the target yields a single piece.
func SplitBySize(text string, sizeTokens, overlapTokens int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	size := tokensToWords(sizeTokens)
	overlap := tokensToWords(overlapTokens)
	step := size - overlap
	if step <= 0 {
		step = 1
	}
	var pieces []string
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		pieces = append(pieces, strings.Join(words[start:end], " "))
		if end >= len(words) {
			break
		}
	}
	return pieces
}
