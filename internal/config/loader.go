package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"han":     {"pinyin"},
	"latin":   {"enrule"},
	"aligner": {"swalign"},
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Converter
	if !cfg.Converter.NumberLang.IsValid() {
		errs = append(errs, fmt.Errorf("converter.number_lang %q is invalid; valid values: \"\", en, zh", cfg.Converter.NumberLang))
	}

	// Provider name validation, warn for unknown provider names.
	validateProviderName("han", cfg.Providers.Han.Name)
	validateProviderName("latin", cfg.Providers.Latin.Name)
	validateProviderName("aligner", cfg.Providers.Aligner.Name)

	// Aligner weights
	if w := cfg.Providers.Aligner.Match; w < 0 {
		errs = append(errs, fmt.Errorf("providers.aligner.match %.2f must not be negative", w))
	}
	if w := cfg.Providers.Aligner.Mismatch; w > 0 {
		errs = append(errs, fmt.Errorf("providers.aligner.mismatch %.2f must not be positive", w))
	}
	if w := cfg.Providers.Aligner.Gap; w > 0 {
		errs = append(errs, fmt.Errorf("providers.aligner.gap %.2f must not be positive", w))
	}

	// Corrector
	if t := cfg.Corrector.Threshold; math.IsNaN(t) || t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("corrector.threshold %v is out of range [0, 1]", t))
	}
	if cfg.Corrector.Workers < 0 {
		errs = append(errs, fmt.Errorf("corrector.workers %d must not be negative", cfg.Corrector.Workers))
	}

	// Lexicon availability
	if cfg.Lexicon.Path == "" && len(cfg.Lexicon.Phrases) == 0 {
		slog.Warn("lexicon has no path and no phrases; correction will return input unchanged")
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name, may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
