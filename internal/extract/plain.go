package extract

import "strings"

// PlainText returns content as a string, replacing invalid UTF-8 sequences
// with the replacement character.
func PlainText(content []byte) string {
	return strings.ToValidUTF8(string(content), "�")
}
