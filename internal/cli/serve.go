package cli

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/happyhackingspace/ibm1"
	"github.com/happyhackingspace/ibm1/align"
	"github.com/happyhackingspace/ibm1/internal/config"
	"github.com/happyhackingspace/ibm1/internal/lemma"
)

// maxTopK bounds the k query parameter.
const maxTopK = 100

type errorResponse struct {
	Error string `json:"error"`
}

type modelResponse struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Iterations  int       `json:"iterations"`
	SourceWords int       `json:"source_words"`
	TargetWords int       `json:"target_words"`
}

type alignRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type alignResponse struct {
	Source []string     `json:"source"`
	Target []string     `json:"target"`
	Links  []align.Link `json:"links"`
}

func (c *CLI) newServeCommand() *cobra.Command {
	var configPath string
	var addr string
	flags := config.Default()

	cmd := &cobra.Command{
		Use:   "serve <modelfile>",
		Short: "Serve translations of a saved model as a JSON API",
		Args:  cobra.ExactArgs(1),
		Example: `  ibm1 serve model.json --addr :8080

  curl 'localhost:8080/api/translate?word=pes&k=5'
  curl -d '{"source":"The dog runs","target":"Pes běží"}' localhost:8080/api/align
  curl localhost:8080/api/model`,
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

			srv := &http.Server{
				Addr:              addr,
				Handler:           newHandler(a, tok, cfg),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-cmd.Context().Done()
				_ = srv.Close()
			}()

			slog.Info("Listening", "addr", addr, "model", args[0], "id", a.Model().ID)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file; flags override its values")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().IntVar(&flags.TopK, "top", flags.TopK, "Default translations per word")
	cmd.Flags().StringVar(&flags.SourceLang, "src-lang", flags.SourceLang, "Language of source text")
	cmd.Flags().StringVar(&flags.TargetLang, "tgt-lang", flags.TargetLang, "Language of target words")
	cmd.Flags().StringVar(&flags.SourceLemmas, "lemmas-src", "", "Extra form<TAB>lemma file for the source language")
	cmd.Flags().StringVar(&flags.TargetLemmas, "lemmas-tgt", "", "Extra form<TAB>lemma file for the target language")
	return cmd
}

// newHandler routes the API and allows cross-origin requests.
//
//	GET  /api/translate?word=<target word>[&k=3]
//	POST /api/align     body: {"source":"...","target":"..."}
//	GET  /api/model
func newHandler(a *ibm1.Aligner, tok *lemma.Tokenizer, cfg config.Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/translate", handleTranslate(a, tok, cfg.TopK, cfg.TargetLang))
	mux.HandleFunc("/api/align", handleAlign(a, tok, cfg.SourceLang, cfg.TargetLang))
	mux.HandleFunc("/api/model", handleModel(a))
	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}

func handleTranslate(a *ibm1.Aligner, tok *lemma.Tokenizer, topK int, lang string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		word := r.URL.Query().Get("word")
		if word == "" {
			writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
			return
		}
		k := topK
		if s := r.URL.Query().Get("k"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxTopK {
				writeError(w, http.StatusBadRequest, "'k' must be an integer between 1 and 100")
				return
			}
			k = n
		}

		key, err := lookupKey(tok, word, lang)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		e, err := a.Lookup(key, k)
		if errors.Is(err, align.ErrUnknownWord) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func handleAlign(a *ibm1.Aligner, tok *lemma.Tokenizer, srcLang, tgtLang string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body alignRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Source == "" || body.Target == "" {
			writeError(w, http.StatusBadRequest, "body must be JSON with non-empty 'source' and 'target' fields")
			return
		}
		source, err := tok.Tokenize(body.Source, srcLang)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		target, err := tok.Tokenize(body.Target, tgtLang)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		links := a.Model().Align(source, target)
		if links == nil {
			links = []align.Link{}
		}
		writeJSON(w, http.StatusOK, alignResponse{Source: source, Target: target, Links: links})
	}
}

func handleModel(a *ibm1.Aligner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		m := a.Model()
		writeJSON(w, http.StatusOK, modelResponse{
			ID:          m.ID,
			CreatedAt:   m.CreatedAt,
			Iterations:  m.Iterations,
			SourceWords: m.Source.Size(),
			TargetWords: m.Target.Size(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
