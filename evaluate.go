package ibm1

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/ibm1/align"
	"github.com/happyhackingspace/ibm1/internal/corpus"
)

// Evaluate aligns every line of the gold file at path that carries reference
// links and scores the predicted links against them. Only Encoding, the
// language tags and the lemma files of config are used; all lines are read.
func (a *Aligner) Evaluate(ctx context.Context, path string, config *TrainConfig) (align.AlignmentScore, error) {
	var score align.AlignmentScore
	if a.model == nil {
		return score, fmt.Errorf("ibm1: aligner not initialized")
	}
	cfg := DefaultTrainConfig()
	if config != nil {
		cfg = *config
	}
	tok, err := newTokenizer(cfg)
	if err != nil {
		return score, fmt.Errorf("ibm1: %w", err)
	}

	opts := corpus.DefaultOptions()
	opts.MaxPairs = 0
	opts.SourceLang = cfg.SourceLang
	opts.TargetLang = cfg.TargetLang
	opts.Encoding = cfg.Encoding
	pairs, err := corpus.LoadGoldFile(ctx, path, tok, opts)
	if err != nil {
		return score, fmt.Errorf("ibm1: %w", err)
	}

	for _, g := range pairs {
		predicted := g.RawLinks(a.model.Align(g.Source, g.Target))
		score.Add(predicted, g.Sure, g.Possible)
	}
	slog.Info("Alignment evaluated",
		"pairs", len(pairs),
		"precision", score.Precision(),
		"recall", score.Recall(),
		"aer", score.AER())
	return score, nil
}
