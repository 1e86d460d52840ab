package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/ibm1"
	"github.com/happyhackingspace/ibm1/internal/config"
)

func (c *CLI) newEvaluateCommand() *cobra.Command {
	var configPath string
	flags := config.Default()

	cmd := &cobra.Command{
		Use:   "evaluate <modelfile>",
		Short: "Score model alignments against the reference links of a corpus",
		Args:  cobra.ExactArgs(1),
		Example: `  ibm1 evaluate model.json --corpus czenali.txt
  ibm1 evaluate model.json --config ibm1.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configPath, flags, nil)
			if err != nil {
				return err
			}
			a, err := ibm1.Load(args[0])
			if err != nil {
				return err
			}

			slog.Info("Evaluating", "model", args[0], "corpus", cfg.Corpus)
			start := time.Now()
			score, err := a.Evaluate(cmd.Context(), cfg.Corpus, trainConfig(cfg))
			if err != nil {
				return err
			}
			slog.Debug("Evaluation completed", "duration", time.Since(start))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Precision: %.1f%% (%d/%d links)\n",
				score.Precision()*100, score.PredPossible, score.Predicted)
			fmt.Fprintf(out, "Recall: %.1f%% (%d/%d sure links)\n",
				score.Recall()*100, score.PredSure, score.Sure)
			fmt.Fprintf(out, "AER: %.1f%%\n", score.AER()*100)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file; flags override its values")
	addCorpusFlags(cmd, &flags)
	return cmd
}
