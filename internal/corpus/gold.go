package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/happyhackingspace/ibm1/align"
)

// PositionTokenizer is a Tokenizer that also reports where each token came from.
type PositionTokenizer interface {
	TokenizePositions(text, lang string) ([]string, []int, error)
}

// GoldPair is a tokenized sentence pair with its reference alignment.
// Links index whitespace-separated words of the raw text, 0-based;
// SourcePos and TargetPos map each token back to that word.
type GoldPair struct {
	Line      int
	Source    []string
	Target    []string
	SourcePos []int
	TargetPos []int
	Sure      []align.Link
	Possible  []align.Link
}

// RawLinks maps token-index links onto raw word positions.
func (g GoldPair) RawLinks(links []align.Link) []align.Link {
	out := make([]align.Link, len(links))
	for i, l := range links {
		out[i] = align.Link{Source: g.SourcePos[l.Source], Target: g.TargetPos[l.Target]}
	}
	return out
}

// LoadGoldFile opens path and loads it with LoadGold.
func LoadGoldFile(ctx context.Context, path string, tok PositionTokenizer, opts Options) ([]GoldPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	pairs, err := LoadGold(ctx, f, tok, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, nil
}

// LoadGold reads the same format as Load and keeps the reference alignments of
// the third (sure) and fourth (possible) fields. Links are written "e-c" with
// 1-based word positions. Lines without a third field are skipped. Pairs are
// not deduplicated.
func LoadGold(ctx context.Context, r io.Reader, tok PositionTokenizer, opts Options) ([]GoldPair, error) {
	var pairs []GoldPair
	skipped := 0
	_, err := scan(ctx, r, opts, func(lineNo int, fields []string) error {
		if len(fields) < 3 {
			skipped++
			return nil
		}
		g := GoldPair{Line: lineNo}
		var err error
		if g.Source, g.SourcePos, err = tok.TokenizePositions(fields[0], opts.SourceLang); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if g.Target, g.TargetPos, err = tok.TokenizePositions(fields[1], opts.TargetLang); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if g.Sure, err = parseLinks(fields[2]); err != nil {
			return &InputFormatError{Line: lineNo, Reason: err.Error()}
		}
		if len(fields) > 3 {
			if g.Possible, err = parseLinks(fields[3]); err != nil {
				return &InputFormatError{Line: lineNo, Reason: err.Error()}
			}
		}
		pairs = append(pairs, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("Gold alignments loaded", "pairs", len(pairs), "skipped", skipped)
	return pairs, nil
}

func parseLinks(field string) ([]align.Link, error) {
	var links []align.Link
	for _, tok := range strings.Fields(field) {
		e, c, ok := strings.Cut(tok, "-")
		if !ok {
			return nil, fmt.Errorf("bad alignment link %q", tok)
		}
		ei, err1 := strconv.Atoi(e)
		ci, err2 := strconv.Atoi(c)
		if err1 != nil || err2 != nil || ei < 1 || ci < 1 {
			return nil, fmt.Errorf("bad alignment link %q", tok)
		}
		links = append(links, align.Link{Source: ei - 1, Target: ci - 1})
	}
	return links, nil
}
