package lexicon

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/MrWong99/phonofix/internal/convert"
)

// Watcher monitors a lexicon file for changes and calls a callback when the
// file is modified. It uses polling (not fsnotify) to keep dependencies minimal.
type Watcher struct {
	path      string
	conv      *convert.Converter
	interval  time.Duration
	onChange  func(old, new *Lexicon)
	transform func(*Lexicon) error

	mu       sync.Mutex
	current  *Lexicon
	done     chan struct{}
	stopOnce sync.Once

	// last known file state for change detection
	lastMtime time.Time
	lastHash  [sha256.Size]byte
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithInterval sets the polling interval. The default is 5 seconds.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithTransform runs fn on every freshly decoded lexicon before it is
// published through [Watcher.Current]. This is the only safe place to add
// phrases to a reloaded lexicon: once published it may be read concurrently
// and must not be mutated. A transform error counts as a failed load and
// keeps the previous lexicon.
func WithTransform(fn func(*Lexicon) error) WatcherOption {
	return func(w *Watcher) {
		w.transform = fn
	}
}

// NewWatcher creates a lexicon file watcher. It loads the initial lexicon
// immediately and starts polling in a background goroutine. Reloaded
// lexicons carry conv as their converter so downstream consumers can keep
// converting sentences through them.
func NewWatcher(path string, conv *convert.Converter, onChange func(old, new *Lexicon), opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		path:     path,
		conv:     conv,
		interval: 5 * time.Second,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	// Load initial lexicon.
	lex, hash, mtime, err := w.loadAndHash()
	if err != nil {
		return nil, fmt.Errorf("lexicon: watcher initial load: %w", err)
	}
	w.current = lex
	w.lastHash = hash
	w.lastMtime = mtime

	go w.poll()
	return w, nil
}

// Current returns the most recently loaded valid lexicon.
func (w *Watcher) Current() *Lexicon {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Stop stops the file watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

// poll runs in a background goroutine, checking the lexicon file periodically.
func (w *Watcher) poll() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check reads the lexicon file and, if it has changed and is valid, calls
// onChange and updates the current lexicon.
func (w *Watcher) check() {
	// Quick mtime check first to avoid hashing unchanged files.
	info, err := os.Stat(w.path)
	if err != nil {
		slog.Warn("lexicon watcher: cannot stat file", "path", w.path, "err", err)
		return
	}

	w.mu.Lock()
	mtime := w.lastMtime
	w.mu.Unlock()

	if info.ModTime().Equal(mtime) {
		return
	}

	lex, hash, newMtime, err := w.loadAndHash()
	if err != nil {
		slog.Warn("lexicon watcher: failed to load lexicon", "path", w.path, "err", err)
		return
	}

	w.mu.Lock()

	if hash == w.lastHash {
		// File was touched but content is identical.
		w.lastMtime = newMtime
		w.mu.Unlock()
		return
	}

	old := w.current
	w.current = lex
	w.lastHash = hash
	w.lastMtime = newMtime
	w.mu.Unlock()

	d := Diff(old, lex)
	slog.Info("lexicon watcher: lexicon reloaded",
		"path", w.path,
		"added", len(d.Added),
		"removed", len(d.Removed),
		"changed", len(d.Changed),
	)

	// Invoke the callback outside the lock so it can safely call Current().
	if w.onChange != nil {
		w.onChange(old, lex)
	}
}

// loadAndHash reads the lexicon file, decodes it, and returns the lexicon
// alongside the file's SHA-256 hash and modification time. If the file is
// invalid, it returns an error (the caller should keep the old one).
func (w *Watcher) loadAndHash() (*Lexicon, [sha256.Size]byte, time.Time, error) {
	var zeroHash [sha256.Size]byte

	f, err := os.Open(w.path)
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}

	// Read the full file into memory for hashing + decoding.
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}

	hash := sha256.Sum256(data)

	lex := New(w.conv)
	if err := lex.Load(bytes.NewReader(data)); err != nil {
		return nil, zeroHash, time.Time{}, err
	}
	if w.transform != nil {
		if err := w.transform(lex); err != nil {
			return nil, zeroHash, time.Time{}, err
		}
	}

	return lex, hash, info.ModTime(), nil
}
