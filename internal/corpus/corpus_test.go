package corpus

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/happyhackingspace/ibm1/internal/lemma"
)

func tokenizer(t *testing.T) Tokenizer {
	t.Helper()
	d, err := lemma.NewDictionary()
	if err != nil {
		t.Fatal(err)
	}
	return lemma.NewTokenizer(d)
}

func load(t *testing.T, input string, opts Options) error {
	t.Helper()
	_, err := Load(context.Background(), strings.NewReader(input), tokenizer(t), opts)
	return err
}

const sample = "Dogs run .\tPsi běží .\t1-1 2-2\n" +
	"Dogs run .\tPsi běží .\t1-1 2-2\n" +
	"The dog eats\tPes jí\n" +
	". . .\tPes\n"

func TestLoad(t *testing.T) {
	c, err := Load(context.Background(), strings.NewReader(sample), tokenizer(t), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Fatalf("pairs = %d, want 3", c.Len())
	}
	if c.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", c.Duplicates)
	}
	want := [][2][]string{
		{{"dog", "run"}, {"pes", "běžet"}},
		{{"the", "dog", "eat"}, {"pes", "jíst"}},
		{nil, {"pes"}},
	}
	for i, w := range want {
		p := c.Pairs[i]
		if !reflect.DeepEqual(p.Source, w[0]) || !reflect.DeepEqual(p.Target, w[1]) {
			t.Errorf("pair %d = %v / %v, want %v / %v", i, p.Source, p.Target, w[0], w[1])
		}
	}
	if got := strings.Join(c.Source.ToStr, " "); got != "dog run the eat" {
		t.Errorf("source vocabulary = %q", got)
	}
	if got := strings.Join(c.Target.ToStr, " "); got != "pes běžet jíst" {
		t.Errorf("target vocabulary = %q", got)
	}
}

func TestLoadMaxPairs(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxPairs = 2
	c, err := Load(context.Background(), strings.NewReader(sample), tokenizer(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	// Two raw lines read, both identical.
	if c.Len() != 1 {
		t.Errorf("pairs = %d, want 1", c.Len())
	}

	// Malformed lines past the limit are never read.
	opts.MaxPairs = 1
	if err := load(t, "a\tb\nbroken\n", opts); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadKeepDuplicates(t *testing.T) {
	opts := DefaultOptions()
	opts.KeepDuplicates = true
	c, err := Load(context.Background(), strings.NewReader(sample), tokenizer(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 4 {
		t.Errorf("pairs = %d, want 4", c.Len())
	}
}

func TestLoadMalformedLine(t *testing.T) {
	err := load(t, "ok\tfine\nno tab here\nalso\tfine\n", DefaultOptions())
	var ife *InputFormatError
	if !errors.As(err, &ife) {
		t.Fatalf("expected InputFormatError, got %v", err)
	}
	if ife.Line != 2 {
		t.Errorf("Line = %d, want 2", ife.Line)
	}

	if err := load(t, "\n", DefaultOptions()); !errors.As(err, &ife) {
		t.Errorf("blank line: expected InputFormatError, got %v", err)
	}
}

func TestLoadUnsupportedLanguage(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetLang = "de"
	err := load(t, "", opts)
	var ule *lemma.UnsupportedLanguageError
	if !errors.As(err, &ule) {
		t.Fatalf("expected UnsupportedLanguageError, got %v", err)
	}
}

func TestLoadCRLF(t *testing.T) {
	c, err := Load(context.Background(), strings.NewReader("dog\tpes\r\n"), tokenizer(t), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Pairs[0].Target; !reflect.DeepEqual(got, []string{"pes"}) {
		t.Errorf("target = %q", got)
	}
}

func TestLoadEncoding(t *testing.T) {
	// "pes běží" in windows-1250: ě = 0xEC, í = 0xED, ž = 0x9E
	input := []byte("dog runs\tpes b\xec\x9e\xed\n")
	opts := DefaultOptions()
	opts.Encoding = "windows-1250"
	c, err := Load(context.Background(), bytes.NewReader(input), tokenizer(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Pairs[0].Target; !reflect.DeepEqual(got, []string{"pes", "běžet"}) {
		t.Errorf("target = %q", got)
	}

	opts.Encoding = "no-such-charset"
	if _, err := Load(context.Background(), bytes.NewReader(input), tokenizer(t), opts); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, strings.NewReader(sample), tokenizer(t), DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(context.Background(), path, tokenizer(t), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Errorf("pairs = %d, want 3", c.Len())
	}
	if _, err := LoadFile(context.Background(), path+".missing", tokenizer(t), DefaultOptions()); err == nil {
		t.Error("expected error for missing file")
	}
}
