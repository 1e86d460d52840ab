package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/ibm1"
	"github.com/happyhackingspace/ibm1/internal/config"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	var configPath string
	flags := config.Default()

	cmd := &cobra.Command{
		Use:   "train [max-pairs [iterations]]",
		Short: "Train translation probabilities on a parallel corpus and write the dictionary",
		Args:  cobra.MaximumNArgs(2),
		Example: `  # Train on the first 1000 lines for 10 iterations
  ibm1 train

  # Train on 5000 lines for 20 iterations
  ibm1 train 5000 20

  # Use a YAML config and override the corpus
  ibm1 train --config ibm1.yaml --corpus data/czenali.txt

  # Keep the trained model for later lookups
  ibm1 train --model model.json --workers 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configPath, flags, args)
			if err != nil {
				return err
			}
			slog.Info("Training", "corpus", cfg.Corpus, "max-pairs", cfg.MaxPairs, "iterations", cfg.Iterations)

			start := time.Now()
			a, err := ibm1.Train(cmd.Context(), cfg.Corpus, trainConfig(cfg))
			if err != nil {
				return err
			}
			slog.Debug("Training completed", "duration", time.Since(start))

			if err := a.WriteDictionary(cfg.Output, cfg.TopK); err != nil {
				return err
			}
			slog.Info("Dictionary written", "path", cfg.Output)
			if cfg.Model != "" {
				if err := a.Save(cfg.Model); err != nil {
					return err
				}
				slog.Info("Model saved", "path", cfg.Model, "id", a.Model().ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file; flags override its values")
	addCorpusFlags(cmd, &flags)
	cmd.Flags().StringVar(&flags.Output, "output", flags.Output, "Dictionary output file")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Also save the trained model as JSON")
	cmd.Flags().IntVar(&flags.TopK, "top", flags.TopK, "Translations listed per word")
	cmd.Flags().IntVar(&flags.Workers, "workers", flags.Workers, "Goroutines for the expectation step")
	cmd.Flags().Float64Var(&flags.Epsilon, "epsilon", 0, "Stop early once no probability moves more than this; 0 disables")
	cmd.Flags().BoolVar(&flags.KeepDuplicates, "keep-duplicates", false, "Count repeated sentence pairs instead of collapsing them")
	return cmd
}

// addCorpusFlags registers the flags that control how a corpus is read.
func addCorpusFlags(cmd *cobra.Command, flags *config.Config) {
	cmd.Flags().StringVar(&flags.Corpus, "corpus", flags.Corpus, "Tab-separated parallel corpus")
	cmd.Flags().StringVar(&flags.Encoding, "encoding", "", "Corpus charset label (default UTF-8)")
	cmd.Flags().StringVar(&flags.SourceLang, "src-lang", flags.SourceLang, "Language of the first column")
	cmd.Flags().StringVar(&flags.TargetLang, "tgt-lang", flags.TargetLang, "Language of the second column")
	cmd.Flags().StringVar(&flags.SourceLemmas, "lemmas-src", "", "Extra form<TAB>lemma file for the source language")
	cmd.Flags().StringVar(&flags.TargetLemmas, "lemmas-tgt", "", "Extra form<TAB>lemma file for the target language")
}

// resolveConfig layers defaults, the YAML file, explicitly set flags and the
// positional max-pairs and iterations arguments, then validates the result.
func resolveConfig(cmd *cobra.Command, path string, flags config.Config, args []string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
		slog.Debug("Config loaded", "path", path)
	}

	overrides := map[string]func(){
		"corpus":          func() { cfg.Corpus = flags.Corpus },
		"output":          func() { cfg.Output = flags.Output },
		"model":           func() { cfg.Model = flags.Model },
		"encoding":        func() { cfg.Encoding = flags.Encoding },
		"src-lang":        func() { cfg.SourceLang = flags.SourceLang },
		"tgt-lang":        func() { cfg.TargetLang = flags.TargetLang },
		"lemmas-src":      func() { cfg.SourceLemmas = flags.SourceLemmas },
		"lemmas-tgt":      func() { cfg.TargetLemmas = flags.TargetLemmas },
		"top":             func() { cfg.TopK = flags.TopK },
		"workers":         func() { cfg.Workers = flags.Workers },
		"epsilon":         func() { cfg.Epsilon = flags.Epsilon },
		"keep-duplicates": func() { cfg.KeepDuplicates = flags.KeepDuplicates },
	}
	for name, apply := range overrides {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			apply()
		}
	}

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return cfg, fmt.Errorf("max-pairs: %w", err)
		}
		cfg.MaxPairs = n
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return cfg, fmt.Errorf("iterations: %w", err)
		}
		cfg.Iterations = n
	}
	return cfg, cfg.Validate()
}

func trainConfig(cfg config.Config) *ibm1.TrainConfig {
	return &ibm1.TrainConfig{
		MaxPairs:       cfg.MaxPairs,
		Iterations:     cfg.Iterations,
		Workers:        cfg.Workers,
		Epsilon:        cfg.Epsilon,
		SourceLang:     cfg.SourceLang,
		TargetLang:     cfg.TargetLang,
		SourceLemmas:   cfg.SourceLemmas,
		TargetLemmas:   cfg.TargetLemmas,
		Encoding:       cfg.Encoding,
		KeepDuplicates: cfg.KeepDuplicates,
	}
}
