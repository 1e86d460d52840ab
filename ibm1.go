// Package ibm1 estimates word translation probabilities from a parallel
// corpus with IBM Model 1 and reports the most likely translations.
//
// Sentence pairs are loaded and lemmatized, the translation table is trained
// with EM, and each target word gets a ranked list of source translations.
//
//	a, _ := ibm1.Train(ctx, "czenali.txt", nil)
//	_ = a.WriteDictionary("translation_dictionary.txt", 3)
//	e, _ := a.Lookup("pes", 3)
//	fmt.Println(e)
package ibm1

import (
	"fmt"
	"os"

	"github.com/happyhackingspace/ibm1/align"
)

// Aligner wraps a trained translation model.
type Aligner struct {
	model *align.Model
	stats *align.TrainStats
}

// Load loads a trained model file.
func Load(path string) (*Aligner, error) {
	m, err := align.LoadModel(path)
	if err != nil {
		return nil, fmt.Errorf("ibm1: %w", err)
	}
	return &Aligner{model: m}, nil
}

// Save writes the model to a file.
func (a *Aligner) Save(path string) error {
	if a.model == nil {
		return fmt.Errorf("ibm1: aligner not initialized")
	}
	if err := a.model.Save(path); err != nil {
		return fmt.Errorf("ibm1: %w", err)
	}
	return nil
}

// Model returns the underlying translation model.
func (a *Aligner) Model() *align.Model {
	return a.model
}

// Stats returns training statistics, or nil for a loaded model.
func (a *Aligner) Stats() *align.TrainStats {
	return a.stats
}

// Report returns the k best translations of every target word, best first.
func (a *Aligner) Report(k int) ([]align.Entry, error) {
	if a.model == nil {
		return nil, fmt.Errorf("ibm1: aligner not initialized")
	}
	return align.Report(a.model, k), nil
}

// Lookup returns the k best translations of a word seen in training.
func (a *Aligner) Lookup(word string, k int) (align.Entry, error) {
	if a.model == nil {
		return align.Entry{}, fmt.Errorf("ibm1: aligner not initialized")
	}
	e, err := a.model.Lookup(word, k)
	if err != nil {
		return align.Entry{}, fmt.Errorf("ibm1: %w", err)
	}
	return e, nil
}

// WriteDictionary writes the ranked translation listing to path.
func (a *Aligner) WriteDictionary(path string, k int) error {
	entries, err := a.Report(k)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ibm1: %w", err)
	}
	if err := align.WriteDictionary(f, entries); err != nil {
		_ = f.Close()
		return fmt.Errorf("ibm1: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("ibm1: %w", err)
	}
	return nil
}
