// Package config provides the configuration schema, loader, and provider
// registry for the phonofix correction service.
package config

// LogLevel controls log verbosity for the phonofix service.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// NumberLang selects the numeral expansion language.
type NumberLang string

const (
	// NumberLangNone leaves numerals untouched.
	NumberLangNone NumberLang = ""

	// NumberLangEnglish expands numerals to English words.
	NumberLangEnglish NumberLang = "en"

	// NumberLangChinese expands numerals to Chinese characters.
	NumberLangChinese NumberLang = "zh"
)

// IsValid reports whether n is a recognised numeral language.
func (n NumberLang) IsValid() bool {
	switch n {
	case NumberLangNone, NumberLangEnglish, NumberLangChinese:
		return true
	}
	return false
}

// Config is the root configuration structure for phonofix.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Converter ConverterConfig `yaml:"converter"`
	Providers ProvidersConfig `yaml:"providers"`
	Corrector CorrectorConfig `yaml:"corrector"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
}

// ServerConfig holds logging and telemetry settings.
type ServerConfig struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// MetricsAddr is the TCP address the Prometheus metrics endpoint
	// listens on (e.g., ":9091"). Empty disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

// ConverterConfig controls phonetic conversion and normalization.
type ConverterConfig struct {
	// RemoveToneMarks strips tone digits and tone letters from phonetic output.
	RemoveToneMarks bool `yaml:"remove_tone_marks"`

	// RemoveStressMarks strips primary and secondary stress markers.
	RemoveStressMarks bool `yaml:"remove_stress_marks"`

	// StripWhitespace removes whitespace from phonetic output.
	StripWhitespace bool `yaml:"strip_whitespace"`

	// RemovePunctuation removes punctuation from converted text.
	RemovePunctuation bool `yaml:"remove_punctuation"`

	// NumberLang selects numeral-to-word expansion. Empty leaves numerals as-is.
	NumberLang NumberLang `yaml:"number_lang"`
}

// ProvidersConfig declares which implementation to use for each pluggable
// capability. Each Name selects a constructor registered in the [Registry].
type ProvidersConfig struct {
	// Han phoneticizes ideographic text (e.g., "pinyin").
	Han ProviderEntry `yaml:"han"`

	// Latin phoneticizes alphabetic text (e.g., "enrule").
	Latin ProviderEntry `yaml:"latin"`

	// Aligner performs phonetic sequence alignment (e.g., "swalign").
	Aligner AlignerEntry `yaml:"aligner"`
}

// ProviderEntry is the common configuration block shared by named providers.
type ProviderEntry struct {
	// Name selects the registered implementation.
	Name string `yaml:"name"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields. Values may be strings, numbers, or booleans.
	Options map[string]any `yaml:"options"`
}

// AlignerEntry configures the alignment oracle. The weight fields are
// only consulted by aligners that support them; zero values mean the
// aligner's defaults.
type AlignerEntry struct {
	// Name selects the registered aligner implementation.
	Name string `yaml:"name"`

	// Match is the score awarded per matching position. Must be positive
	// when set.
	Match float64 `yaml:"match"`

	// Mismatch is the penalty per substituted position. Must not be
	// positive when set.
	Mismatch float64 `yaml:"mismatch"`

	// Gap is the penalty per inserted or deleted position. Must not be
	// positive when set.
	Gap float64 `yaml:"gap"`
}

// CorrectorConfig controls match selection and concurrency.
type CorrectorConfig struct {
	// Threshold is the minimum normalized alignment score for a
	// replacement, in [0, 1]. Zero means the built-in default.
	Threshold float64 `yaml:"threshold"`

	// Workers bounds concurrent alignment workers. Zero or one means
	// sequential processing.
	Workers int `yaml:"workers"`

	// Prefilter enables the cheap phonetic gate before alignment.
	Prefilter bool `yaml:"prefilter"`
}

// LexiconConfig declares where correction phrases come from. Path and
// Phrases may be combined; inline phrases are added after the file loads.
type LexiconConfig struct {
	// Path is a JSON lexicon file to load at startup. Empty skips loading.
	Path string `yaml:"path"`

	// Phrases lists correction phrases converted at startup.
	Phrases []string `yaml:"phrases"`
}
