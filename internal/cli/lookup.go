package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/ibm1"
	"github.com/happyhackingspace/ibm1/align"
	"github.com/happyhackingspace/ibm1/internal/config"
	"github.com/happyhackingspace/ibm1/internal/lemma"
)

func (c *CLI) newLookupCommand() *cobra.Command {
	var configPath string
	var asJSON bool
	flags := config.Default()

	cmd := &cobra.Command{
		Use:   "lookup <modelfile> <word>...",
		Short: "Print the best translations of target words",
		Args:  cobra.MinimumNArgs(2),
		Example: `  ibm1 lookup model.json pes
  ibm1 lookup model.json psi kočky --top 5

  # Normalize words with the lemma file used for training
  ibm1 lookup model.json běhal --lemmas-tgt cs-extra.tsv

  # JSON output
  ibm1 lookup model.json pes --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configPath, flags, nil)
			if err != nil {
				return err
			}
			a, err := ibm1.Load(args[0])
			if err != nil {
				return err
			}
			tok, err := newQueryTokenizer(cfg)
			if err != nil {
				return err
			}

			entries := make([]align.Entry, 0, len(args)-1)
			for _, word := range args[1:] {
				key, err := lookupKey(tok, word, cfg.TargetLang)
				if err != nil {
					return err
				}
				e, err := a.Lookup(key, cfg.TopK)
				if errors.Is(err, align.ErrUnknownWord) {
					slog.Warn("Word not in model", "word", word, "lemma", key)
					continue
				}
				if err != nil {
					return err
				}
				entries = append(entries, e)
			}

			if asJSON {
				output, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return err
			}
			return align.WriteDictionary(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file; flags override its values")
	cmd.Flags().IntVar(&flags.TopK, "top", flags.TopK, "Translations listed per word")
	cmd.Flags().StringVar(&flags.TargetLang, "tgt-lang", flags.TargetLang, "Language of the words")
	cmd.Flags().StringVar(&flags.TargetLemmas, "lemmas-tgt", "", "Extra form<TAB>lemma file used when training")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

// newQueryTokenizer builds a tokenizer with the lemma files of cfg, so that
// queries reduce to the same tokens as the training corpus did.
func newQueryTokenizer(cfg config.Config) (*lemma.Tokenizer, error) {
	d, err := lemma.Load(
		lemma.TableFile{Tag: cfg.SourceLang, Path: cfg.SourceLemmas},
		lemma.TableFile{Tag: cfg.TargetLang, Path: cfg.TargetLemmas},
	)
	if err != nil {
		return nil, err
	}
	return lemma.NewTokenizer(d), nil
}

// lookupKey normalizes and lemmatizes word the way corpus text is. A word
// that does not reduce to exactly one token is used as typed.
func lookupKey(tok *lemma.Tokenizer, word, lang string) (string, error) {
	tokens, err := tok.Tokenize(word, lang)
	if err != nil {
		return "", err
	}
	if len(tokens) != 1 {
		return word, nil
	}
	return tokens[0], nil
}
