// Package textproc implements the text normalizer shared by corpus precompute and query processing:
// case folding, symbol stripping, stopword removal and Indonesian stemming.
package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern   = regexp.MustCompile(`https?\S+|www\S+`)
	emailPattern = regexp.MustCompile(`\S+@\S+`)
)

// Clean lower-cases s, folds accents, strips URLs and e-mail addresses, replaces every
// rune that is not a letter, digit or whitespace with a space, and collapses whitespace.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(foldAccents(s))
	s = urlPattern.ReplaceAllString(s, " ")
	s = emailPattern.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Tokens returns the whitespace tokens of the cleaned text.
func Tokens(s string) []string {
	return strings.Fields(Clean(s))
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseSpaces lower-cases s, trims it and collapses internal whitespace. It is the
// "trivial" normalization used for record names, with typographic apostrophes folded.
func CollapseSpaces(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("’", "'", "‘", "'", "`", "'").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
