package lemma

import (
	"github.com/happyhackingspace/ibm1/internal/textutil"
)

// Tokenizer turns raw sentence text into a sequence of lemmatized tokens.
type Tokenizer struct {
	Lemmatizer Lemmatizer
}

// NewTokenizer creates a Tokenizer backed by l.
func NewTokenizer(l Lemmatizer) *Tokenizer {
	return &Tokenizer{Lemmatizer: l}
}

// Tokenize splits text on whitespace, normalizes each token and lemmatizes it.
// Tokens that normalize to nothing are dropped, so the result may be empty.
func (t *Tokenizer) Tokenize(text, lang string) ([]string, error) {
	tokens, _, err := t.TokenizePositions(text, lang)
	return tokens, err
}

// TokenizePositions is Tokenize that also returns, for every kept token, the
// 0-based index of the whitespace-separated field it came from.
func (t *Tokenizer) TokenizePositions(text, lang string) ([]string, []int, error) {
	if err := CheckLanguage(lang); err != nil {
		return nil, nil, err
	}
	var tokens []string
	var positions []int
	for i, field := range textutil.Fields(text) {
		token := textutil.NormalizeToken(field)
		if token == "" {
			continue
		}
		base, err := t.Lemmatizer.Lemmatize(token, lang)
		if err != nil {
			return nil, nil, err
		}
		if base != "" {
			tokens = append(tokens, base)
			positions = append(positions, i)
		}
	}
	return tokens, positions, nil
}
