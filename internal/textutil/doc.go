// Package textutil provides small text helpers shared by the extractor and
// the CLI.
//
// TitleCase capitalizes the principal words of a heading: every word is
// lowercased and its first letter upper-cased, except short articles,
// conjunctions and prepositions that are not the first or last word.
package textutil
