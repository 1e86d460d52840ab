package align

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidVocabulary is returned when a vocabulary is empty or does not
	// cover the corpus.
	ErrInvalidVocabulary = errors.New("invalid vocabulary")
	// ErrUnknownWord is returned when looking up a word that was not seen in training.
	ErrUnknownWord = errors.New("unknown word")
)

// rowSumTolerance bounds how far a loaded distribution may drift from 1.
const rowSumTolerance = 1e-6

// Model holds the translation table t(e|c): for every target word c a
// probability distribution over all source words e.
type Model struct {
	ID         string      `json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	Iterations int         `json:"iterations"`
	Source     *Vocabulary `json:"source"`
	Target     *Vocabulary `json:"target"`
	// Table layout: Table[c*Source.Size() + e] = t(e|c)
	Table []float64 `json:"table"`
}

// NewModel creates a model over the cross product of both vocabularies with
// every t(e|c) set to 1/|source|.
func NewModel(source, target *Vocabulary) (*Model, error) {
	if source == nil || source.Size() == 0 {
		return nil, fmt.Errorf("%w: source vocabulary is empty", ErrInvalidVocabulary)
	}
	if target == nil || target.Size() == 0 {
		return nil, fmt.Errorf("%w: target vocabulary is empty", ErrInvalidVocabulary)
	}

	m := &Model{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Target:    target,
		Table:     make([]float64, source.Size()*target.Size()),
	}
	uniform := 1 / float64(source.Size())
	for i := range m.Table {
		m.Table[i] = uniform
	}
	return m, nil
}

// Row returns the distribution over source words for target ID c.
// The returned slice aliases the model.
func (m *Model) Row(c int) []float64 {
	n := m.Source.Size()
	return m.Table[c*n : (c+1)*n]
}

// Prob returns t(source|target). The second result is false when either word
// is unknown.
func (m *Model) Prob(target, source string) (float64, bool) {
	c := m.Target.Get(target)
	e := m.Source.Get(source)
	if c < 0 || e < 0 {
		return 0, false
	}
	return m.Table[c*m.Source.Size()+e], true
}

// RowSum returns Σ_e t(e|c) for target ID c.
func (m *Model) RowSum(c int) float64 {
	var s float64
	for _, p := range m.Row(c) {
		s += p
	}
	return s
}

// Validate checks table shape and that every row is a distribution: entries
// in [0, 1] summing to 1.
func (m *Model) Validate() error {
	if m.Source == nil || m.Source.Size() == 0 {
		return fmt.Errorf("%w: source vocabulary is empty", ErrInvalidVocabulary)
	}
	if m.Target == nil || m.Target.Size() == 0 {
		return fmt.Errorf("%w: target vocabulary is empty", ErrInvalidVocabulary)
	}
	if want := m.Source.Size() * m.Target.Size(); len(m.Table) != want {
		return fmt.Errorf("table has %d entries, want %d", len(m.Table), want)
	}
	for i, p := range m.Table {
		if math.IsNaN(p) || p < 0 || p > 1 {
			c, e := i/m.Source.Size(), i%m.Source.Size()
			return fmt.Errorf("t(%q|%q) = %v is not a probability", m.Source.Word(e), m.Target.Word(c), p)
		}
	}
	for c := range m.Target.Size() {
		if s := m.RowSum(c); math.Abs(s-1) > rowSumTolerance {
			return fmt.Errorf("distribution for %q sums to %v", m.Target.Word(c), s)
		}
	}
	return nil
}

// Save serializes the model to JSON.
func (m *Model) Save(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadModel deserializes and validates a model from JSON.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalModel(data)
}

// UnmarshalModel deserializes and validates a model from JSON bytes.
func UnmarshalModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
