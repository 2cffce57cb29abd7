// Command phonofix corrects phonetically confusable phrases in transcribed
// text against a domain lexicon.
//
// Text to correct is taken from the positional arguments, or from stdin
// (one sentence per line) when no arguments are given. Corrected text is
// written to stdout.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/MrWong99/phonofix/internal/config"
	"github.com/MrWong99/phonofix/internal/convert"
	"github.com/MrWong99/phonofix/internal/correct"
	"github.com/MrWong99/phonofix/internal/health"
	"github.com/MrWong99/phonofix/internal/lexicon"
	"github.com/MrWong99/phonofix/internal/observe"
	"github.com/MrWong99/phonofix/pkg/provider/align"
	"github.com/MrWong99/phonofix/pkg/provider/align/swalign"
	"github.com/MrWong99/phonofix/pkg/provider/numexpand"
	"github.com/MrWong99/phonofix/pkg/provider/numexpand/english"
	"github.com/MrWong99/phonofix/pkg/provider/numexpand/hanzi"
	"github.com/MrWong99/phonofix/pkg/provider/phoneticize"
	"github.com/MrWong99/phonofix/pkg/provider/phoneticize/enrule"
	"github.com/MrWong99/phonofix/pkg/provider/phoneticize/pinyin"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	lexiconPath := flag.String("lexicon", "", "path to a JSON lexicon file (overrides the config)")
	saveLexicon := flag.String("save-lexicon", "", "convert the configured phrases, write them as JSON to this path, and exit")
	watch := flag.Bool("watch", false, "reload the lexicon file when it changes on disk")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "phonofix: config file %q not found\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "phonofix: %v\n", err)
		}
		return 1
	}
	if *lexiconPath != "" {
		cfg.Lexicon.Path = *lexiconPath
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("phonofix starting",
		"config", *configPath,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Metrics (optional) ────────────────────────────────────────────────────
	var metrics *observe.Metrics
	if cfg.Server.MetricsAddr != "" {
		shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "phonofix"})
		if err != nil {
			slog.Error("failed to initialise metrics", "err", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("metrics shutdown error", "err", err)
			}
		}()

		metrics, err = observe.NewMetrics(otel.GetMeterProvider())
		if err != nil {
			slog.Error("failed to create metrics", "err", err)
			return 1
		}
	}

	// ── Provider registry ─────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	// ── Converter ─────────────────────────────────────────────────────────────
	conv, err := buildConverter(cfg, reg)
	if err != nil {
		slog.Error("failed to build converter", "err", err)
		return 1
	}

	// ── Lexicon ───────────────────────────────────────────────────────────────
	lex, watcher, err := buildLexicon(cfg, conv, *watch)
	if err != nil {
		slog.Error("failed to build lexicon", "err", err)
		return 1
	}
	if watcher != nil {
		defer watcher.Stop()
	}
	slog.Info("lexicon ready", "entries", lex().Len())

	if cfg.Server.MetricsAddr != "" {
		go serveMetrics(cfg.Server.MetricsAddr, health.New(health.LexiconCheck(lex)))
	}

	if *saveLexicon != "" {
		if err := lex().SaveFile(*saveLexicon); err != nil {
			slog.Error("failed to save lexicon", "err", err)
			return 1
		}
		slog.Info("lexicon saved", "path", *saveLexicon)
		return 0
	}

	// ── Corrector ─────────────────────────────────────────────────────────────
	oracle, err := reg.CreateAligner(alignerEntry(cfg))
	if err != nil {
		slog.Error("failed to create aligner", "err", err)
		return 1
	}

	// The corrector is rebuilt only when the watcher swaps the lexicon.
	var (
		corrector *correct.Corrector
		built     *lexicon.Lexicon
	)
	currentCorrector := func() (*correct.Corrector, error) {
		l := lex()
		if corrector != nil && l == built {
			return corrector, nil
		}
		la, err := correct.NewLocalAligner(oracle)
		if err != nil {
			return nil, err
		}
		opts := []correct.Option{
			correct.WithWorkers(cfg.Corrector.Workers),
			correct.WithPrefilter(cfg.Corrector.Prefilter),
			correct.WithMetrics(metrics),
		}
		if cfg.Corrector.Threshold > 0 {
			opts = append(opts, correct.WithThreshold(cfg.Corrector.Threshold))
		}
		c, err := correct.NewCorrector(l, la, opts...)
		if err != nil {
			return nil, err
		}
		corrector, built = c, l
		return c, nil
	}

	// ── Correct input ─────────────────────────────────────────────────────────
	if args := flag.Args(); len(args) > 0 {
		c, err := currentCorrector()
		if err != nil {
			slog.Error("failed to build corrector", "err", err)
			return 1
		}
		out, err := c.Correct(ctx, strings.Join(args, " "))
		if err != nil {
			slog.Error("correction failed", "err", err)
			return 1
		}
		fmt.Println(out)
		return 0
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		c, err := currentCorrector()
		if err != nil {
			slog.Error("failed to build corrector", "err", err)
			return 1
		}
		out, err := c.Correct(ctx, scanner.Text())
		if err != nil {
			slog.Error("correction failed", "err", err)
			return 1
		}
		fmt.Println(out)
	}
	if err := scanner.Err(); err != nil {
		slog.Error("stdin read error", "err", err)
		return 1
	}
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires all built-in provider factories into reg.
func registerBuiltinProviders(reg *config.Registry) {
	reg.RegisterPhoneticizer("pinyin", func(entry config.ProviderEntry) (phoneticize.Phoneticizer, error) {
		return pinyin.New(), nil
	})
	reg.RegisterPhoneticizer("enrule", func(entry config.ProviderEntry) (phoneticize.Phoneticizer, error) {
		return enrule.New(), nil
	})

	reg.RegisterExpander("english", func(entry config.ProviderEntry) (numexpand.Expander, error) {
		return english.New(), nil
	})
	reg.RegisterExpander("hanzi", func(entry config.ProviderEntry) (numexpand.Expander, error) {
		return hanzi.New(), nil
	})

	reg.RegisterAligner("swalign", func(entry config.AlignerEntry) (align.Oracle, error) {
		if entry.Match != 0 || entry.Mismatch != 0 || entry.Gap != 0 {
			return swalign.New(swalign.WithWeights(entry.Match, entry.Mismatch, entry.Gap)), nil
		}
		return swalign.New(), nil
	})
}

// buildConverter assembles the converter from the configured phoneticizers
// and the numeral expander matching converter.number_lang.
func buildConverter(cfg *config.Config, reg *config.Registry) (*convert.Converter, error) {
	router := &phoneticize.Router{}

	if entry := providerOrDefault(cfg.Providers.Han, "pinyin"); entry.Name != "" {
		p, err := reg.CreatePhoneticizer(entry)
		if err != nil {
			return nil, fmt.Errorf("create han phoneticizer %q: %w", entry.Name, err)
		}
		router.Han = p
		slog.Info("provider created", "kind", "han", "name", entry.Name)
	}
	if entry := providerOrDefault(cfg.Providers.Latin, "enrule"); entry.Name != "" {
		p, err := reg.CreatePhoneticizer(entry)
		if err != nil {
			return nil, fmt.Errorf("create latin phoneticizer %q: %w", entry.Name, err)
		}
		router.Latin = p
		slog.Info("provider created", "kind", "latin", "name", entry.Name)
	}

	var expander numexpand.Expander
	switch cfg.Converter.NumberLang {
	case config.NumberLangEnglish:
		e, err := reg.CreateExpander(config.ProviderEntry{Name: "english"})
		if err != nil {
			return nil, fmt.Errorf("create numeral expander: %w", err)
		}
		expander = e
	case config.NumberLangChinese:
		e, err := reg.CreateExpander(config.ProviderEntry{Name: "hanzi"})
		if err != nil {
			return nil, fmt.Errorf("create numeral expander: %w", err)
		}
		expander = e
	}

	return convert.New(router, expander, convert.Options{
		RemoveToneMarks:   cfg.Converter.RemoveToneMarks,
		RemoveStressMarks: cfg.Converter.RemoveStressMarks,
		StripWhitespace:   cfg.Converter.StripWhitespace,
		RemovePunctuation: cfg.Converter.RemovePunctuation,
		NumberLang:        string(cfg.Converter.NumberLang),
	})
}

// buildLexicon loads the configured lexicon file, adds inline phrases, and
// optionally starts a file watcher. The returned accessor always yields the
// most recent lexicon.
func buildLexicon(cfg *config.Config, conv *convert.Converter, watch bool) (func() *lexicon.Lexicon, *lexicon.Watcher, error) {
	addInline := func(l *lexicon.Lexicon) error {
		if err := l.AddPhrases(cfg.Lexicon.Phrases...); err != nil {
			return fmt.Errorf("convert lexicon phrases: %w", err)
		}
		return nil
	}

	if cfg.Lexicon.Path != "" && watch {
		// Inline phrases are added through the transform hook so every
		// reloaded lexicon carries them before it becomes visible to
		// concurrent readers.
		w, err := lexicon.NewWatcher(cfg.Lexicon.Path, conv, nil,
			lexicon.WithTransform(addInline))
		if err != nil {
			return nil, nil, err
		}
		return w.Current, w, nil
	}

	lex := lexicon.New(conv)
	if cfg.Lexicon.Path != "" {
		if err := lex.LoadFile(cfg.Lexicon.Path); err != nil {
			return nil, nil, err
		}
	}
	if err := addInline(lex); err != nil {
		return nil, nil, err
	}
	return func() *lexicon.Lexicon { return lex }, nil, nil
}

func alignerEntry(cfg *config.Config) config.AlignerEntry {
	entry := cfg.Providers.Aligner
	if entry.Name == "" {
		entry.Name = "swalign"
	}
	return entry
}

func providerOrDefault(entry config.ProviderEntry, name string) config.ProviderEntry {
	if entry.Name == "" {
		entry.Name = name
	}
	return entry
}

// ── Metrics endpoint ──────────────────────────────────────────────────────────

func serveMetrics(addr string, h *health.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	h.Register(mux)
	slog.Info("metrics endpoint listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("metrics endpoint failed", "err", err)
	}
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
