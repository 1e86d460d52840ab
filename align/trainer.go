package align

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
)

// TrainerConfig holds EM training parameters.
type TrainerConfig struct {
	Iterations int
	// Workers splits the E-step over this many goroutines.
	Workers int
	// Epsilon stops training early once no probability moved by more than
	// this amount in an iteration. Zero disables the check.
	Epsilon float64
}

// DefaultTrainerConfig returns the default training config.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Iterations: 10,
		Workers:    1,
	}
}

// TrainStats describes a training run.
type TrainStats struct {
	Iterations    int       // iterations committed to the model
	LogLikelihood []float64 // per iteration, under the model before the update
	MaxDelta      []float64 // per iteration, largest change of any t(e|c)
	Converged     bool      // stopped by Epsilon
	// Degenerate lists target words that received no mass in some iteration.
	// Their distributions were left as they were.
	Degenerate []string
}

// idPair is a sentence pair in vocabulary IDs.
type idPair struct {
	source []int
	target []int
}

// accumulator holds the expected counts of one E-step shard.
type accumulator struct {
	count  []float64 // [c*E + e]
	total  []float64 // [c]
	loglik float64
}

func newAccumulator(numSource, numTarget int) *accumulator {
	return &accumulator{
		count: make([]float64, numSource*numTarget),
		total: make([]float64, numTarget),
	}
}

func (a *accumulator) merge(b *accumulator) {
	for i, v := range b.count {
		a.count[i] += v
	}
	for i, v := range b.total {
		a.total[i] += v
	}
	a.loglik += b.loglik
}

// Train refines model in place with cfg.Iterations rounds of EM over corpus.
//
// Each round computes expected alignment counts under the current table and
// then replaces every t(e|c) with count(e,c)/total(c). A target word whose
// total is zero keeps its previous distribution.
//
// ctx is checked between iterations. On cancellation the model holds the
// last fully committed iteration and the returned stats describe it.
func Train(ctx context.Context, corpus *Corpus, model *Model, cfg TrainerConfig) (*TrainStats, error) {
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.Epsilon < 0 {
		return nil, fmt.Errorf("epsilon must not be negative, got %v", cfg.Epsilon)
	}
	if err := corpus.Validate(); err != nil {
		return nil, err
	}
	pairs, err := toIDs(corpus, model)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pairs) {
		workers = max(len(pairs), 1)
	}
	shards := partition(pairs, workers)

	E := model.Source.Size()
	C := model.Target.Size()
	stats := &TrainStats{}
	degenerate := make(map[int]bool)

	for iter := range cfg.Iterations {
		if err := ctx.Err(); err != nil {
			stats.Degenerate = degenerateWords(model, degenerate)
			return stats, fmt.Errorf("training stopped after %d iterations: %w", iter, err)
		}

		// E-step
		accs := make([]*accumulator, len(shards))
		if len(shards) == 1 {
			accs[0] = newAccumulator(E, C)
			expect(model, shards[0], accs[0])
		} else {
			var wg sync.WaitGroup
			for w, shard := range shards {
				wg.Add(1)
				go func(w int, shard []idPair) {
					defer wg.Done()
					accs[w] = newAccumulator(E, C)
					expect(model, shard, accs[w])
				}(w, shard)
			}
			wg.Wait()
		}
		acc := accs[0]
		for _, other := range accs[1:] {
			acc.merge(other)
		}

		// M-step
		maxDelta := 0.0
		for c := range C {
			if acc.total[c] == 0 {
				if !degenerate[c] {
					slog.Debug("Target word received no mass, keeping previous distribution",
						"word", model.Target.Word(c), "iteration", iter+1)
				}
				degenerate[c] = true
				continue
			}
			row := model.Row(c)
			counts := acc.count[c*E : (c+1)*E]
			for e := range row {
				p := counts[e] / acc.total[c]
				if d := math.Abs(p - row[e]); d > maxDelta {
					maxDelta = d
				}
				row[e] = p
			}
		}

		model.Iterations++
		stats.Iterations++
		stats.LogLikelihood = append(stats.LogLikelihood, acc.loglik)
		stats.MaxDelta = append(stats.MaxDelta, maxDelta)
		slog.Debug("EM training iteration", "iteration", iter+1, "of", cfg.Iterations,
			"loglik", acc.loglik, "max_delta", maxDelta)

		if cfg.Epsilon > 0 && maxDelta < cfg.Epsilon {
			stats.Converged = true
			slog.Debug("EM converged", "iteration", iter+1, "max_delta", maxDelta)
			break
		}
	}

	stats.Degenerate = degenerateWords(model, degenerate)
	return stats, nil
}

// expect accumulates expected counts for pairs under the current model.
// It only reads the model.
func expect(model *Model, pairs []idPair, acc *accumulator) {
	E := model.Source.Size()
	t := model.Table
	for _, p := range pairs {
		if len(p.source) == 0 || len(p.target) == 0 {
			continue
		}
		norm := math.Log(float64(len(p.target)))
		for _, e := range p.source {
			totalPerSource := 0.0
			for _, c := range p.target {
				totalPerSource += t[c*E+e]
			}
			if totalPerSource == 0 {
				continue
			}
			acc.loglik += math.Log(totalPerSource) - norm
			for _, c := range p.target {
				delta := t[c*E+e] / totalPerSource
				acc.count[c*E+e] += delta
				acc.total[c] += delta
			}
		}
	}
}

func toIDs(corpus *Corpus, model *Model) ([]idPair, error) {
	pairs := make([]idPair, len(corpus.Pairs))
	for i, p := range corpus.Pairs {
		ip := idPair{
			source: make([]int, len(p.Source)),
			target: make([]int, len(p.Target)),
		}
		for j, w := range p.Source {
			ip.source[j] = model.Source.Get(w)
			if ip.source[j] < 0 {
				return nil, fmt.Errorf("%w: source word %q not in model", ErrInvalidVocabulary, w)
			}
		}
		for j, w := range p.Target {
			ip.target[j] = model.Target.Get(w)
			if ip.target[j] < 0 {
				return nil, fmt.Errorf("%w: target word %q not in model", ErrInvalidVocabulary, w)
			}
		}
		pairs[i] = ip
	}
	return pairs, nil
}

// partition splits pairs into n contiguous shards of near-equal size.
func partition(pairs []idPair, n int) [][]idPair {
	shards := make([][]idPair, 0, n)
	size := (len(pairs) + n - 1) / n
	for start := 0; start < len(pairs); start += size {
		end := min(start+size, len(pairs))
		shards = append(shards, pairs[start:end])
	}
	if len(shards) == 0 {
		shards = append(shards, nil)
	}
	return shards
}

func degenerateWords(model *Model, ids map[int]bool) []string {
	words := make([]string, 0, len(ids))
	for c := range ids {
		words = append(words, model.Target.Word(c))
	}
	sort.Strings(words)
	return words
}
