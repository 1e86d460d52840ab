// Package corpus reads tab-separated sentence-pair files into an align.Corpus.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/happyhackingspace/ibm1/align"
	"github.com/happyhackingspace/ibm1/internal/lemma"
)

// maxLineBytes bounds a single corpus line.
const maxLineBytes = 1 << 20

// Tokenizer turns sentence text in a language into normalized tokens.
type Tokenizer interface {
	Tokenize(text, lang string) ([]string, error)
}

// InputFormatError reports a corpus line that cannot be parsed.
type InputFormatError struct {
	Line   int
	Reason string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Options controls corpus loading.
type Options struct {
	MaxPairs       int    // raw lines to read; 0 reads everything
	SourceLang     string // language tag of field 0
	TargetLang     string // language tag of field 1
	Encoding       string // IANA charset label; empty means UTF-8
	KeepDuplicates bool
	ProgressEvery  int // log progress every N lines; 0 disables
}

// DefaultOptions returns the default options for loading a corpus.
func DefaultOptions() Options {
	return Options{
		MaxPairs:      1000,
		SourceLang:    lemma.English,
		TargetLang:    lemma.Czech,
		ProgressEvery: 10,
	}
}

// LoadFile opens path and loads it with Load.
func LoadFile(ctx context.Context, path string, tok Tokenizer, opts Options) (*align.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	slog.Debug("Corpus opened", "path", path)
	c, err := Load(ctx, f, tok, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load reads up to opts.MaxPairs lines of "source<TAB>target[<TAB>...]" text,
// tokenizes both sides and collects the pairs and vocabularies. Fields after
// the second are ignored. A line with fewer than two fields aborts the load
// with an *InputFormatError.
func Load(ctx context.Context, r io.Reader, tok Tokenizer, opts Options) (*align.Corpus, error) {
	c := align.NewCorpus()
	c.KeepDuplicates = opts.KeepDuplicates

	lines, err := scan(ctx, r, opts, func(lineNo int, fields []string) error {
		source, err := tok.Tokenize(fields[0], opts.SourceLang)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		target, err := tok.Tokenize(fields[1], opts.TargetLang)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		c.Add(source, target)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Done reading sentences",
		"lines", lines,
		"pairs", c.Len(),
		"duplicates", c.Duplicates,
		"source_words", c.Source.Size(),
		"target_words", c.Target.Size())
	return c, nil
}

// scan validates opts, then calls fn with the tab-separated fields of every
// line up to opts.MaxPairs. It returns the number of lines read.
func scan(ctx context.Context, r io.Reader, opts Options, fn func(lineNo int, fields []string) error) (int, error) {
	if err := lemma.CheckLanguage(opts.SourceLang); err != nil {
		return 0, fmt.Errorf("source language: %w", err)
	}
	if err := lemma.CheckLanguage(opts.TargetLang); err != nil {
		return 0, fmt.Errorf("target language: %w", err)
	}
	if opts.Encoding != "" {
		decoded, err := charset.NewReaderLabel(opts.Encoding, r)
		if err != nil {
			return 0, fmt.Errorf("encoding %q: %w", opts.Encoding, err)
		}
		r = decoded
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		if opts.MaxPairs > 0 && lineNo >= opts.MaxPairs {
			break
		}
		if err := ctx.Err(); err != nil {
			return lineNo, err
		}
		lineNo++
		if opts.ProgressEvery > 0 && lineNo%opts.ProgressEvery == 0 {
			slog.Debug("Processing line", "line", lineNo)
		}

		fields := strings.Split(strings.TrimSuffix(scanner.Text(), "\r"), "\t")
		if len(fields) < 2 {
			return lineNo, &InputFormatError{Line: lineNo, Reason: fmt.Sprintf("expected at least 2 tab-separated fields, got %d", len(fields))}
		}
		if err := fn(lineNo, fields); err != nil {
			return lineNo, err
		}
	}
	if err := scanner.Err(); err != nil {
		return lineNo, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	return lineNo, nil
}
