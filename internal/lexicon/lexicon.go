// Package lexicon builds and persists the phrase lexicon the correction
// engine aligns against.
//
// A lexicon maps each known-correct phrase to its precomputed
// [gp.GraphemePhoneme]. Entries are built through a [convert.Converter] or
// loaded from JSON. Two persisted shapes are accepted:
//
//   - structured: phrase → {grapheme_str, grapheme_list, phoneme_str,
//     phoneme_list}, rebuilt with [gp.Reconstruct]
//   - simple: phrase → "phonetic string", rebuilt as a single-unit pair
//     (per-unit span granularity is lost)
//
// Saving always writes the structured shape. Iteration order is phrase
// order: insertion order for built lexicons, sorted order after a load,
// so a run over the same data is deterministic.
package lexicon

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/MrWong99/phonofix/internal/convert"
	"github.com/MrWong99/phonofix/internal/gp"
)

// Entry pairs a lexicon phrase with its dual representation.
type Entry struct {
	Phrase string
	GP     *gp.GraphemePhoneme
}

// record is the structured JSON shape for one entry.
type record struct {
	GraphemeStr  string   `json:"grapheme_str"`
	GraphemeList []string `json:"grapheme_list"`
	PhonemeStr   string   `json:"phoneme_str"`
	PhonemeList  []string `json:"phoneme_list"`
}

// Lexicon stores phrases with their phonetic forms. It is not safe for
// concurrent mutation; correction-time access is read-only.
type Lexicon struct {
	converter *convert.Converter
	entries   map[string]*gp.GraphemePhoneme
	order     []string
}

// New returns an empty Lexicon whose entries are built with c.
func New(c *convert.Converter) *Lexicon {
	return &Lexicon{
		converter: c,
		entries:   make(map[string]*gp.GraphemePhoneme),
	}
}

// Converter returns the converter used to build entries.
func (l *Lexicon) Converter() *convert.Converter { return l.converter }

// Len returns the number of entries.
func (l *Lexicon) Len() int { return len(l.entries) }

// AddPhrases converts each phrase and adds it to the lexicon. Adding a
// phrase that already exists overwrites its previous entry.
func (l *Lexicon) AddPhrases(phrases ...string) error {
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		g, err := l.converter.ToGraphemePhoneme(phrase)
		if err != nil {
			return fmt.Errorf("lexicon: add %q: %w", phrase, err)
		}
		l.put(phrase, g)
	}
	return nil
}

// Put inserts a prebuilt entry, overwriting any previous entry for phrase.
func (l *Lexicon) Put(phrase string, g *gp.GraphemePhoneme) {
	l.put(phrase, g)
}

func (l *Lexicon) put(phrase string, g *gp.GraphemePhoneme) {
	if _, exists := l.entries[phrase]; !exists {
		l.order = append(l.order, phrase)
	}
	l.entries[phrase] = g
}

// Entries returns all entries in deterministic phrase order.
func (l *Lexicon) Entries() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, phrase := range l.order {
		out = append(out, Entry{Phrase: phrase, GP: l.entries[phrase]})
	}
	return out
}

// Save writes the lexicon to w in the structured JSON shape.
func (l *Lexicon) Save(w io.Writer) error {
	records := make(map[string]record, len(l.entries))
	for phrase, g := range l.entries {
		records[phrase] = record{
			GraphemeStr:  g.GraphemeText(),
			GraphemeList: g.GraphemeUnits(),
			PhonemeStr:   g.PhonemeText(),
			PhonemeList:  g.PhonemeUnits(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("lexicon: encode: %w", err)
	}
	return nil
}

// SaveFile writes the lexicon to the file at path.
func (l *Lexicon) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("lexicon: create %q: %w", path, err)
	}
	defer f.Close()

	if err := l.Save(f); err != nil {
		return err
	}
	return f.Close()
}

// Load replaces the lexicon's entries with those decoded from r. Each
// value may be either the structured shape or a bare phonetic string;
// the two may be mixed within one file. Entries are ordered by sorted
// phrase after a load.
func (l *Lexicon) Load(r io.Reader) error {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return fmt.Errorf("lexicon: decode: %w", err)
	}

	entries := make(map[string]*gp.GraphemePhoneme, len(raw))
	order := make([]string, 0, len(raw))

	for phrase, value := range raw {
		g, err := decodeEntry(phrase, value)
		if err != nil {
			return err
		}
		entries[phrase] = g
		order = append(order, phrase)
	}
	sort.Strings(order)

	l.entries = entries
	l.order = order
	return nil
}

// LoadFile replaces the lexicon's entries with those in the file at path.
func (l *Lexicon) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("lexicon: open %q: %w", path, err)
	}
	defer f.Close()
	return l.Load(f)
}

// decodeEntry rebuilds one entry from either persisted shape.
func decodeEntry(phrase string, value json.RawMessage) (*gp.GraphemePhoneme, error) {
	var simple string
	if err := json.Unmarshal(value, &simple); err == nil {
		g, err := gp.Reconstruct(phrase, []string{phrase}, simple, []string{simple})
		if err != nil {
			return nil, fmt.Errorf("lexicon: entry %q: %w", phrase, err)
		}
		return g, nil
	}

	var rec record
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("lexicon: entry %q: unrecognised shape: %w", phrase, err)
	}
	g, err := gp.Reconstruct(rec.GraphemeStr, rec.GraphemeList, rec.PhonemeStr, rec.PhonemeList)
	if err != nil {
		return nil, fmt.Errorf("lexicon: entry %q: %w", phrase, err)
	}
	return g, nil
}
