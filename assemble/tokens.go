package assemble

import (
	"unicode"
	"unicode/utf8"
)

// TokenLengthFunc estimates the token count of a text.
type TokenLengthFunc func(text string) int

// WhitespaceTokens counts whitespace-separated words.
func WhitespaceTokens(text string) int {
	n := 0
	inWord := false
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

// ApproxTokens assumes four bytes per token, a common estimate for BPE
// vocabularies on English text.
func ApproxTokens(text string) int {
	return (len(text) + 3) / 4
}
