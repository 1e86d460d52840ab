package ibm1

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/happyhackingspace/ibm1/align"
	"github.com/happyhackingspace/ibm1/internal/corpus"
	"github.com/happyhackingspace/ibm1/internal/lemma"
)

// TrainConfig holds configuration for loading and training.
type TrainConfig struct {
	MaxPairs       int     // raw corpus lines to read
	Iterations     int     // EM iterations
	Workers        int     // goroutines for the E-step
	Epsilon        float64 // optional early stop; 0 disables
	SourceLang     string  // language tag of the first column
	TargetLang     string  // language tag of the second column
	SourceLemmas   string  // extra form<TAB>lemma file for the source language
	TargetLemmas   string  // extra form<TAB>lemma file for the target language
	Encoding       string  // corpus charset; empty means UTF-8
	KeepDuplicates bool    // weight repeated pairs instead of collapsing them
}

// DefaultTrainConfig returns the defaults: 1000 pairs, 10 iterations, English
// source and Czech target.
func DefaultTrainConfig() TrainConfig {
	opts := corpus.DefaultOptions()
	tc := align.DefaultTrainerConfig()
	return TrainConfig{
		MaxPairs:   opts.MaxPairs,
		Iterations: tc.Iterations,
		Workers:    tc.Workers,
		SourceLang: opts.SourceLang,
		TargetLang: opts.TargetLang,
	}
}

// Train loads the corpus at path and trains a model on it.
func Train(ctx context.Context, path string, config *TrainConfig) (*Aligner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ibm1: %w", err)
	}
	defer func() { _ = f.Close() }()
	return TrainReader(ctx, f, config)
}

// TrainReader loads a corpus from r and trains a model on it.
func TrainReader(ctx context.Context, r io.Reader, config *TrainConfig) (*Aligner, error) {
	cfg := DefaultTrainConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.MaxPairs < 1 {
		return nil, fmt.Errorf("ibm1: max pairs must be positive, got %d", cfg.MaxPairs)
	}
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("ibm1: iterations must be positive, got %d", cfg.Iterations)
	}

	tok, err := newTokenizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("ibm1: %w", err)
	}

	opts := corpus.DefaultOptions()
	opts.MaxPairs = cfg.MaxPairs
	opts.SourceLang = cfg.SourceLang
	opts.TargetLang = cfg.TargetLang
	opts.Encoding = cfg.Encoding
	opts.KeepDuplicates = cfg.KeepDuplicates
	c, err := corpus.Load(ctx, r, tok, opts)
	if err != nil {
		return nil, fmt.Errorf("ibm1: %w", err)
	}
	slog.Info("Corpus loaded",
		"pairs", c.Len(),
		"source_words", c.Source.Size(),
		"target_words", c.Target.Size())

	model, err := align.NewModel(c.Source, c.Target)
	if err != nil {
		return nil, fmt.Errorf("ibm1: %w", err)
	}

	slog.Info("Starting the training process", "iterations", cfg.Iterations, "workers", cfg.Workers)
	stats, err := align.Train(ctx, c, model, align.TrainerConfig{
		Iterations: cfg.Iterations,
		Workers:    cfg.Workers,
		Epsilon:    cfg.Epsilon,
	})
	if err != nil {
		return nil, fmt.Errorf("ibm1: %w", err)
	}
	if len(stats.Degenerate) > 0 {
		slog.Warn("Target words without alignment mass kept their initial distribution",
			"count", len(stats.Degenerate))
	}
	return &Aligner{model: model, stats: stats}, nil
}

func newTokenizer(cfg TrainConfig) (*lemma.Tokenizer, error) {
	dict, err := lemma.Load(
		lemma.TableFile{Tag: cfg.SourceLang, Path: cfg.SourceLemmas},
		lemma.TableFile{Tag: cfg.TargetLang, Path: cfg.TargetLemmas},
	)
	if err != nil {
		return nil, err
	}
	return lemma.NewTokenizer(dict), nil
}
