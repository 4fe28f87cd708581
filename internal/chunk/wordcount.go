// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// markupRe matches runs of Markdown punctuation that carry no words.
var markupRe = regexp.MustCompile(`[#*_\[\]()]+`)

// CountWords returns the number of meaningful words in text. Markdown
// punctuation is replaced by spaces and tokens of a single character are
// treated as extraction artifacts and not counted. Every size decision in
// this package goes through CountWords.
func CountWords(text string) int {
	clean := markupRe.ReplaceAllString(text, " ")
	n := 0
	for _, word := range strings.Fields(clean) {
		if utf8.RuneCountInString(word) > 1 {
			n++
		}
	}
	return n
}
