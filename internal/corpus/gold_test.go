package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/happyhackingspace/ibm1/align"
	"github.com/happyhackingspace/ibm1/internal/lemma"
)

func positionTokenizer(t *testing.T) PositionTokenizer {
	t.Helper()
	d, err := lemma.NewDictionary()
	if err != nil {
		t.Fatal(err)
	}
	return lemma.NewTokenizer(d)
}

const goldSample = "The dog , runs\tPes běží\t2-1 4-2\t1-1\n" +
	"no gold here\tžádné\n" +
	"Cats\tKočky\t1-1\n"

func TestLoadGold(t *testing.T) {
	pairs, err := LoadGold(context.Background(), strings.NewReader(goldSample), positionTokenizer(t), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(pairs))
	}

	g := pairs[0]
	if g.Line != 1 {
		t.Errorf("Line = %d", g.Line)
	}
	if !reflect.DeepEqual(g.Source, []string{"the", "dog", "run"}) || !reflect.DeepEqual(g.SourcePos, []int{0, 1, 3}) {
		t.Errorf("source = %v at %v", g.Source, g.SourcePos)
	}
	if !reflect.DeepEqual(g.Sure, []align.Link{{Source: 1, Target: 0}, {Source: 3, Target: 1}}) {
		t.Errorf("sure = %v", g.Sure)
	}
	if !reflect.DeepEqual(g.Possible, []align.Link{{Source: 0, Target: 0}}) {
		t.Errorf("possible = %v", g.Possible)
	}

	// Token 2 ("run") is raw word 3.
	raw := g.RawLinks([]align.Link{{Source: 2, Target: 1}})
	if !reflect.DeepEqual(raw, []align.Link{{Source: 3, Target: 1}}) {
		t.Errorf("RawLinks = %v", raw)
	}

	if pairs[1].Line != 3 || pairs[1].Possible != nil {
		t.Errorf("second pair = %+v", pairs[1])
	}
}

func TestLoadGoldBadLink(t *testing.T) {
	for _, input := range []string{"a\tb\t1_1\n", "a\tb\t0-1\n", "a\tb\t1-1\tx-2\n"} {
		_, err := LoadGold(context.Background(), strings.NewReader(input), positionTokenizer(t), DefaultOptions())
		var ife *InputFormatError
		if !errors.As(err, &ife) {
			t.Errorf("%q: expected InputFormatError, got %v", input, err)
		}
	}
}

func TestLoadGoldFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gold.txt")
	if err := os.WriteFile(path, []byte(goldSample), 0644); err != nil {
		t.Fatal(err)
	}
	pairs, err := LoadGoldFile(context.Background(), path, positionTokenizer(t), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Errorf("pairs = %d, want 2", len(pairs))
	}
}
