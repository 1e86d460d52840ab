// Package lemma reduces word forms to dictionary base forms for a closed set
// of languages and turns raw sentences into lemmatized token sequences.
package lemma

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/happyhackingspace/ibm1/internal/textutil"
)

// Supported language tags.
const (
	English = "en"
	Czech   = "cs"
)

//go:embed data/*.tsv
var builtin embed.FS

// UnsupportedLanguageError reports a language tag outside the supported set.
type UnsupportedLanguageError struct {
	Tag string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q (supported: %s)", e.Tag, strings.Join(Languages(), ", "))
}

// Lemmatizer maps a normalized token to its base form for a language tag.
type Lemmatizer interface {
	Lemmatize(token, lang string) (string, error)
}

// Languages returns the supported language tags in sorted order.
func Languages() []string {
	tags := []string{English, Czech}
	sort.Strings(tags)
	return tags
}

// CheckLanguage returns an *UnsupportedLanguageError if tag is not supported.
func CheckLanguage(tag string) error {
	switch tag {
	case English, Czech:
		return nil
	}
	return &UnsupportedLanguageError{Tag: tag}
}

// Dictionary is a Lemmatizer backed by form/lemma tables. Forms missing from
// the tables go to a per-language fallback: golem's English dictionary, or
// Czech case-ending removal.
type Dictionary struct {
	tables    map[string]map[string]string
	fallbacks map[string]func(string) string
}

// NewDictionary returns a Dictionary seeded with the built-in tables.
func NewDictionary() (*Dictionary, error) {
	english, err := englishLemmas()
	if err != nil {
		return nil, fmt.Errorf("load English lemmas: %w", err)
	}
	d := &Dictionary{
		tables: make(map[string]map[string]string),
		fallbacks: map[string]func(string) string{
			English: lemmatizeEnglish(english),
			Czech:   stemCzech,
		},
	}
	for _, tag := range Languages() {
		d.tables[tag] = make(map[string]string)
		f, err := builtin.Open("data/" + tag + ".tsv")
		if err != nil {
			return nil, fmt.Errorf("open builtin %s table: %w", tag, err)
		}
		err = d.Read(tag, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read builtin %s table: %w", tag, err)
		}
	}
	return d, nil
}

// TableFile names an extra form<TAB>lemma file for a language.
type TableFile struct {
	Tag  string
	Path string
}

// Load returns a Dictionary with the built-in tables and files applied in
// order. Entries with an empty Path are skipped.
func Load(files ...TableFile) (*Dictionary, error) {
	d, err := NewDictionary()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.Path == "" {
			continue
		}
		if err := d.LoadFile(f.Tag, f.Path); err != nil {
			return nil, fmt.Errorf("%s lemmas: %w", f.Tag, err)
		}
	}
	return d, nil
}

// LoadFile adds the form/lemma entries of a TSV file to the table for tag.
func (d *Dictionary) LoadFile(tag, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := d.Read(tag, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Read adds "form<TAB>lemma" lines from r to the table for tag.
// Blank lines and lines starting with '#' are skipped. Later entries win.
func (d *Dictionary) Read(tag string, r io.Reader) error {
	if err := CheckLanguage(tag); err != nil {
		return err
	}
	table := d.tables[tag]
	if table == nil {
		table = make(map[string]string)
		d.tables[tag] = table
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return fmt.Errorf("line %d: expected form<TAB>lemma", lineNo)
		}
		form := textutil.NormalizeToken(parts[0])
		base := textutil.Lower(strings.TrimSpace(parts[1]))
		if form == "" || base == "" {
			return fmt.Errorf("line %d: empty form or lemma", lineNo)
		}
		table[form] = base
	}
	return scanner.Err()
}

// Size returns the number of entries for tag.
func (d *Dictionary) Size(tag string) int {
	return len(d.tables[tag])
}

// Lemmatize implements Lemmatizer. Table entries win over the fallback.
func (d *Dictionary) Lemmatize(token, lang string) (string, error) {
	if err := CheckLanguage(lang); err != nil {
		return "", err
	}
	if base, ok := d.tables[lang][token]; ok {
		return base, nil
	}
	if fallback := d.fallbacks[lang]; fallback != nil {
		return fallback(token), nil
	}
	return token, nil
}
