// Package align implements IBM Model 1 word alignment: a translation table
// t(e|c) estimated with Expectation-Maximization from sentence pairs.
package align

import (
	"encoding/json"
	"fmt"
)

// Vocabulary maps between distinct words and dense integer IDs.
// IDs follow first-seen order, so iteration over a vocabulary is
// deterministic for a given input.
type Vocabulary struct {
	ToID  map[string]int
	ToStr []string
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		ToID: make(map[string]int),
	}
}

// Add adds a word if not already present and returns its ID.
func (v *Vocabulary) Add(w string) int {
	if id, ok := v.ToID[w]; ok {
		return id
	}
	id := len(v.ToStr)
	v.ToID[w] = id
	v.ToStr = append(v.ToStr, w)
	return id
}

// Get returns the ID for a word, or -1 if not found.
func (v *Vocabulary) Get(w string) int {
	if id, ok := v.ToID[w]; ok {
		return id
	}
	return -1
}

// Contains reports whether w is in the vocabulary.
func (v *Vocabulary) Contains(w string) bool {
	_, ok := v.ToID[w]
	return ok
}

// Word returns the word with the given ID.
func (v *Vocabulary) Word(id int) string {
	return v.ToStr[id]
}

// Size returns the number of distinct words.
func (v *Vocabulary) Size() int {
	return len(v.ToStr)
}

// MarshalJSON encodes the vocabulary as its word list in ID order.
func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	words := v.ToStr
	if words == nil {
		words = []string{}
	}
	return json.Marshal(words)
}

// UnmarshalJSON rebuilds the vocabulary from a word list.
func (v *Vocabulary) UnmarshalJSON(data []byte) error {
	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return err
	}
	v.ToID = make(map[string]int, len(words))
	v.ToStr = nil
	for _, w := range words {
		if _, dup := v.ToID[w]; dup {
			return fmt.Errorf("duplicate word %q in vocabulary", w)
		}
		v.Add(w)
	}
	return nil
}
