// Package config holds the run configuration of a training job.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/happyhackingspace/ibm1/internal/lemma"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config describes one load-train-report run.
type Config struct {
	Corpus         string  `yaml:"corpus"`
	Output         string  `yaml:"output"`
	Model          string  `yaml:"model"`
	Encoding       string  `yaml:"encoding"`
	MaxPairs       int     `yaml:"max_pairs"`
	Iterations     int     `yaml:"iterations"`
	TopK           int     `yaml:"top_k"`
	Workers        int     `yaml:"workers"`
	Epsilon        float64 `yaml:"epsilon"`
	KeepDuplicates bool    `yaml:"keep_duplicates"`
	SourceLang     string  `yaml:"source_lang"`
	TargetLang     string  `yaml:"target_lang"`
	SourceLemmas   string  `yaml:"source_lemmas"`
	TargetLemmas   string  `yaml:"target_lemmas"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Corpus:     "czenali.txt",
		Output:     "translation_dictionary.txt",
		MaxPairs:   1000,
		Iterations: 10,
		TopK:       3,
		Workers:    1,
		SourceLang: lemma.English,
		TargetLang: lemma.Czech,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every setting before any work begins.
func (c Config) Validate() error {
	var problems []string
	if c.Corpus == "" {
		problems = append(problems, "corpus path is empty")
	}
	if c.MaxPairs < 1 {
		problems = append(problems, fmt.Sprintf("max pairs must be positive, got %d", c.MaxPairs))
	}
	if c.Iterations < 1 {
		problems = append(problems, fmt.Sprintf("iterations must be positive, got %d", c.Iterations))
	}
	if c.TopK < 1 {
		problems = append(problems, fmt.Sprintf("top k must be positive, got %d", c.TopK))
	}
	if c.Workers < 1 {
		problems = append(problems, fmt.Sprintf("workers must be positive, got %d", c.Workers))
	}
	if c.Epsilon < 0 {
		problems = append(problems, fmt.Sprintf("epsilon must not be negative, got %v", c.Epsilon))
	}
	if err := lemma.CheckLanguage(c.SourceLang); err != nil {
		problems = append(problems, "source "+err.Error())
	}
	if err := lemma.CheckLanguage(c.TargetLang); err != nil {
		problems = append(problems, "target "+err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
