package align

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DefaultTopK is the number of translations reported per target word.
const DefaultTopK = 3

// Translation is a candidate source word and its probability.
type Translation struct {
	Source string  `json:"source"`
	Prob   float64 `json:"prob"`
}

// Entry holds the best translations of one target word, most probable first.
type Entry struct {
	Target       string        `json:"target"`
	Translations []Translation `json:"translations"`
}

// Best returns the probability of the most likely translation.
func (e Entry) Best() float64 {
	if len(e.Translations) == 0 {
		return 0
	}
	return e.Translations[0].Prob
}

// String formats the entry as a dictionary line without a trailing newline:
//
//	pes: dog - 0.872 run - 0.064 eat - 0.064
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Target)
	b.WriteByte(':')
	for _, t := range e.Translations {
		fmt.Fprintf(&b, " %s - %.3f", t.Source, t.Prob)
	}
	return b.String()
}

// Report returns, for every target word, its k most probable source words.
// Entries are ordered by descending best probability. Ties between entries
// and between translations are broken by word in ascending byte order.
func Report(m *Model, k int) []Entry {
	if k < 1 {
		k = DefaultTopK
	}
	entries := make([]Entry, m.Target.Size())
	for c := range entries {
		entries[c] = m.entry(c, k)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		bi, bj := entries[i].Best(), entries[j].Best()
		if bi != bj {
			return bi > bj
		}
		return entries[i].Target < entries[j].Target
	})
	return entries
}

// Lookup returns the k most probable translations of a target word seen in training.
func (m *Model) Lookup(target string, k int) (Entry, error) {
	c := m.Target.Get(target)
	if c < 0 {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownWord, target)
	}
	if k < 1 {
		k = DefaultTopK
	}
	return m.entry(c, k), nil
}

// entry selects the top k translations of target ID c by insertion into a
// bounded list, which keeps the cost at O(|source|·k).
func (m *Model) entry(c, k int) Entry {
	row := m.Row(c)
	k = min(k, len(row))
	if k == 0 {
		return Entry{Target: m.Target.Word(c)}
	}
	top := make([]Translation, 0, k+1)
	for e, p := range row {
		cand := Translation{Source: m.Source.Word(e), Prob: p}
		if len(top) == k && !ranksBefore(cand, top[k-1]) {
			continue
		}
		i := sort.Search(len(top), func(i int) bool { return ranksBefore(cand, top[i]) })
		top = append(top, Translation{})
		copy(top[i+1:], top[i:])
		top[i] = cand
		if len(top) > k {
			top = top[:k]
		}
	}
	return Entry{Target: m.Target.Word(c), Translations: top}
}

func ranksBefore(a, b Translation) bool {
	if a.Prob != b.Prob {
		return a.Prob > b.Prob
	}
	return a.Source < b.Source
}

// WriteDictionary writes one formatted line per entry.
func WriteDictionary(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
