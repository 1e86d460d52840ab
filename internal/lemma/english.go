package lemma

import (
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// englishLemmas is loaded once; golem lemmatizers are read-only after New.
var englishLemmas = sync.OnceValues(func() (*golem.Lemmatizer, error) {
	return golem.New(en.New())
})

// lemmatizeEnglish maps an English form to its dictionary lemma, or returns it
// unchanged when golem does not know it.
func lemmatizeEnglish(l *golem.Lemmatizer) func(string) string {
	return l.Lemma
}
