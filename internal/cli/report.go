package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/ibm1"
	"github.com/happyhackingspace/ibm1/align"
	"github.com/happyhackingspace/ibm1/internal/config"
)

func (c *CLI) newReportCommand() *cobra.Command {
	var output string
	var topK int

	cmd := &cobra.Command{
		Use:   "report <modelfile>",
		Short: "Write the translation dictionary of a saved model",
		Args:  cobra.ExactArgs(1),
		Example: `  ibm1 report model.json
  ibm1 report model.json --top 5 --output dictionary.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ibm1.Load(args[0])
			if err != nil {
				return err
			}
			slog.Debug("Model loaded", "path", args[0], "id", a.Model().ID, "iterations", a.Model().Iterations)
			if output != "" {
				if err := a.WriteDictionary(output, topK); err != nil {
					return err
				}
				slog.Info("Dictionary written", "path", output)
				return nil
			}
			entries, err := a.Report(topK)
			if err != nil {
				return err
			}
			return align.WriteDictionary(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Dictionary output file (default stdout)")
	cmd.Flags().IntVar(&topK, "top", config.Default().TopK, "Translations listed per word")
	return cmd
}
