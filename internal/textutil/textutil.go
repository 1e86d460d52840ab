// Package textutil provides text normalization utilities for sentence-pair corpora.
package textutil

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// specialChars are removed from every token before lemmatization.
const specialChars = ";:\"',.-()^&#$%~`?!"

var stripper = strings.NewReplacer(pairs(specialChars)...)

func pairs(chars string) []string {
	var oldnew []string
	for _, r := range chars {
		oldnew = append(oldnew, string(r), "")
	}
	return oldnew
}

// Fields splits text on Unicode whitespace.
func Fields(text string) []string {
	return strings.FieldsFunc(text, unicode.IsSpace)
}

// NormalizeToken composes the token to NFC, strips punctuation and lower-cases it.
// Returns an empty string when nothing remains.
func NormalizeToken(token string) string {
	token = norm.NFC.String(strings.TrimSpace(token))
	token = stripper.Replace(token)
	if token == "" {
		return ""
	}
	return Lower(token)
}

// casers holds reusable lower-casers; a cases.Caser is stateful and must not
// be shared between goroutines.
var casers = sync.Pool{
	New: func() any {
		c := cases.Lower(language.Und)
		return &c
	},
}

// Lower lower-cases s without language-specific tailoring.
// It is safe for concurrent use.
func Lower(s string) string {
	c := casers.Get().(*cases.Caser)
	defer casers.Put(c)
	return c.String(s)
}
