package align

import (
	"fmt"
	"strconv"
	"strings"
)

// SentencePair is an aligned pair of token sequences. Repeated tokens are
// repeated occurrences and are kept.
type SentencePair struct {
	Source []string `json:"source"`
	Target []string `json:"target"`
}

// Corpus is a set of sentence pairs together with the vocabularies of both
// sides. Pairs that are identical token for token collapse into one training
// instance unless KeepDuplicates is set.
type Corpus struct {
	Pairs          []SentencePair
	Source         *Vocabulary
	Target         *Vocabulary
	KeepDuplicates bool
	Duplicates     int

	seen map[string]struct{}
}

// NewCorpus creates an empty corpus with set semantics.
func NewCorpus() *Corpus {
	return &Corpus{
		Source: NewVocabulary(),
		Target: NewVocabulary(),
		seen:   make(map[string]struct{}),
	}
}

// Add inserts a pair and extends both vocabularies. It returns false when the
// pair was already present and was collapsed.
func (c *Corpus) Add(source, target []string) bool {
	if !c.KeepDuplicates {
		if c.seen == nil {
			c.seen = make(map[string]struct{})
		}
		key := pairKey(source, target)
		if _, ok := c.seen[key]; ok {
			c.Duplicates++
			return false
		}
		c.seen[key] = struct{}{}
	}

	for _, w := range source {
		c.Source.Add(w)
	}
	for _, w := range target {
		c.Target.Add(w)
	}
	c.Pairs = append(c.Pairs, SentencePair{
		Source: append([]string(nil), source...),
		Target: append([]string(nil), target...),
	})
	return true
}

// Len returns the number of training instances.
func (c *Corpus) Len() int {
	return len(c.Pairs)
}

// Validate checks that both vocabularies are non-empty and cover every token.
func (c *Corpus) Validate() error {
	if c.Source == nil || c.Source.Size() == 0 {
		return fmt.Errorf("%w: source vocabulary is empty", ErrInvalidVocabulary)
	}
	if c.Target == nil || c.Target.Size() == 0 {
		return fmt.Errorf("%w: target vocabulary is empty", ErrInvalidVocabulary)
	}
	for i, p := range c.Pairs {
		for _, w := range p.Source {
			if !c.Source.Contains(w) {
				return fmt.Errorf("%w: pair %d: source word %q missing", ErrInvalidVocabulary, i, w)
			}
		}
		for _, w := range p.Target {
			if !c.Target.Contains(w) {
				return fmt.Errorf("%w: pair %d: target word %q missing", ErrInvalidVocabulary, i, w)
			}
		}
	}
	return nil
}

// pairKey encodes both sequences with length prefixes so that distinct pairs
// never share a key.
func pairKey(source, target []string) string {
	var b strings.Builder
	for _, seq := range [][]string{source, target} {
		b.WriteString(strconv.Itoa(len(seq)))
		b.WriteByte('|')
		for _, w := range seq {
			b.WriteString(strconv.Itoa(len(w)))
			b.WriteByte(':')
			b.WriteString(w)
		}
	}
	return b.String()
}
