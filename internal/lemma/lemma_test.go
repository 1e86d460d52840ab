package lemma

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func newDict(t *testing.T) *Dictionary {
	t.Helper()
	d, err := NewDictionary()
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestBuiltinTables(t *testing.T) {
	d := newDict(t)
	for _, tag := range Languages() {
		if d.Size(tag) == 0 {
			t.Errorf("builtin table %q is empty", tag)
		}
	}
}

func TestLemmatize(t *testing.T) {
	d := newDict(t)
	tests := []struct {
		token string
		lang  string
		want  string
	}{
		{"dogs", "en", "dog"},
		{"ran", "en", "run"},
		{"houses", "en", "house"},
		{"books", "en", "book"},
		{"conflicts", "en", "conflict"},
		{"left", "en", "leave"},
		{"unknownword", "en", "unknownword"},
		{"psa", "cs", "pes"},
		{"jsou", "cs", "být"},
		{"dětmi", "cs", "dítě"},
		{"pes", "cs", "pes"},
		{"afriky", "cs", "afrik"},
		{"afrika", "cs", "afrik"},
	}
	for _, tt := range tests {
		got, err := d.Lemmatize(tt.token, tt.lang)
		if err != nil {
			t.Fatalf("Lemmatize(%q, %q): %v", tt.token, tt.lang, err)
		}
		if got != tt.want {
			t.Errorf("Lemmatize(%q, %q) = %q, want %q", tt.token, tt.lang, got, tt.want)
		}
	}
}

func TestLemmatizeUnsupportedLanguage(t *testing.T) {
	d := newDict(t)
	_, err := d.Lemmatize("hund", "de")
	var ule *UnsupportedLanguageError
	if !errors.As(err, &ule) {
		t.Fatalf("expected UnsupportedLanguageError, got %v", err)
	}
	if ule.Tag != "de" {
		t.Errorf("Tag = %q, want %q", ule.Tag, "de")
	}
}

func TestReadCustomTable(t *testing.T) {
	d := newDict(t)
	err := d.Read("en", strings.NewReader("# comment\n\nRhetoric\trhetoric\ntakes\tgrab\n"))
	if err != nil {
		t.Fatal(err)
	}
	got, _ := d.Lemmatize("takes", "en")
	if got != "grab" {
		t.Errorf("table entry should win over the dictionary, got %q", got)
	}
	got, _ = d.Lemmatize("rhetoric", "en")
	if got != "rhetoric" {
		t.Errorf("got %q", got)
	}
}

func TestReadMalformed(t *testing.T) {
	d := newDict(t)
	err := d.Read("en", strings.NewReader("ok\tfine\nbroken\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 error, got %v", err)
	}
	if err := d.Read("xx", strings.NewReader("")); err == nil {
		t.Error("expected error for unsupported tag")
	}
}

func TestLoadFile(t *testing.T) {
	d := newDict(t)
	path := filepath.Join(t.TempDir(), "cs.tsv")
	if err := os.WriteFile(path, []byte("beha\tběh\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := d.LoadFile("cs", path); err != nil {
		t.Fatal(err)
	}
	got, _ := d.Lemmatize("beha", "cs")
	if got != "běh" {
		t.Errorf("got %q, want %q", got, "běh")
	}
	if err := d.LoadFile("cs", filepath.Join(t.TempDir(), "missing.tsv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTokenize(t *testing.T) {
	tok := NewTokenizer(newDict(t))
	tests := []struct {
		text string
		lang string
		want []string
	}{
		{"The dogs ran .", "en", []string{"the", "dog", "run"}},
		{"Psi jsou , doma !", "cs", []string{"pes", "být", "dom"}},
		{"Houses , books and models", "en", []string{"house", "book", "and", "model"}},
		{". ; !", "en", nil},
		{"", "cs", nil},
	}
	for _, tt := range tests {
		got, err := tok.Tokenize(tt.text, tt.lang)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", tt.text, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q, %q) = %v, want %v", tt.text, tt.lang, got, tt.want)
		}
	}
}

func TestTokenizeUnsupportedLanguage(t *testing.T) {
	tok := NewTokenizer(newDict(t))
	// Fails even when the text has no tokens.
	if _, err := tok.Tokenize("", "fr"); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestTokenizePositions(t *testing.T) {
	tok := NewTokenizer(newDict(t))
	tokens, pos, err := tok.TokenizePositions("Arab rhetoric , often takes .", "en")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tokens, []string{"arab", "rhetoric", "often", "take"}) {
		t.Errorf("tokens = %v", tokens)
	}
	if !reflect.DeepEqual(pos, []int{0, 1, 3, 4}) {
		t.Errorf("positions = %v, want [0 1 3 4]", pos)
	}
}

func TestStemCzech(t *testing.T) {
	tests := []struct {
		forms []string
		want  string
	}{
		{[]string{"politika", "politiky", "politice", "politiku", "politikou"}, "politik"},
		{[]string{"koloniální", "koloniálním", "koloniálních"}, "koloniáln"},
		{[]string{"sionismus", "sionismu", "sionismem"}, "sionism"},
		{[]string{"praha", "praze", "prahou"}, "prah"},
		{[]string{"konflikt", "konfliktu", "konflikty", "konfliktech"}, "konflikt"},
		{[]string{"zkušenost", "zkušenosti", "zkušenostem"}, "zkušenost"},
	}
	for _, tt := range tests {
		for _, form := range tt.forms {
			if got := stemCzech(form); got != tt.want {
				t.Errorf("stemCzech(%q) = %q, want %q", form, got, tt.want)
			}
		}
	}
	// Short words are kept.
	for _, w := range []string{"a", "do", "ji", "kde"} {
		if got := stemCzech(w); got != w {
			t.Errorf("stemCzech(%q) = %q, want unchanged", w, got)
		}
	}
}

func TestLoadTableFiles(t *testing.T) {
	dir := t.TempDir()
	cs := filepath.Join(dir, "cs.tsv")
	if err := os.WriteFile(cs, []byte("zzforma\tzzlemma\n"), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(TableFile{Tag: English}, TableFile{Tag: Czech, Path: cs})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := d.Lemmatize("zzforma", Czech); got != "zzlemma" {
		t.Errorf("got %q, want zzlemma", got)
	}

	_, err = Load(TableFile{Tag: Czech, Path: filepath.Join(dir, "missing.tsv")})
	if err == nil || !strings.Contains(err.Error(), "cs lemmas") {
		t.Errorf("expected cs lemmas error, got %v", err)
	}
}
