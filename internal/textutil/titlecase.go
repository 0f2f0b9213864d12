package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minorWords stay lowercase unless they open or close the heading.
var minorWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "as": {}, "at": {}, "but": {}, "by": {},
	"en": {}, "for": {}, "if": {}, "in": {}, "nor": {}, "of": {}, "on": {},
	"or": {}, "per": {}, "the": {}, "to": {}, "vs": {}, "via": {},
}

// TitleWords returns a new slice holding words title-cased in order.
// A cases.Caser keeps state between calls, so each call builds its own.
func TitleWords(words []string) []string {
	lowerCaser := cases.Lower(language.Und)
	titleCaser := cases.Title(language.Und)

	out := make([]string, len(words))
	last := len(words) - 1
	for i, word := range words {
		lower := lowerCaser.String(word)
		if i != 0 && i != last {
			if _, minor := minorWords[lower]; minor {
				out[i] = lower
				continue
			}
		}
		out[i] = capitalize(titleCaser, lower)
	}
	return out
}

// TitleCase title-cases the whitespace separated words of s and joins them
// with single spaces. An empty or blank input yields "".
func TitleCase(s string) string {
	return strings.Join(TitleWords(strings.Fields(s)), " ")
}

// capitalize upper-cases a word only when it starts with a letter, so tokens
// such as "2nd" or "3x05" keep their original form.
func capitalize(titleCaser cases.Caser, word string) string {
	first, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsLetter(first) {
		return word
	}
	return titleCaser.String(word)
}
