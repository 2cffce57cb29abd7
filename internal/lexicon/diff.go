package lexicon

// LexiconDiff describes what changed between two lexicons. Used by the
// watcher to log reloads and by callers that want to invalidate caches
// selectively.
type LexiconDiff struct {
	// Added lists phrases present only in the new lexicon.
	Added []string

	// Removed lists phrases present only in the old lexicon.
	Removed []string

	// Changed lists phrases whose phonetic form differs between the two.
	Changed []string
}

// Empty reports whether the diff contains no changes.
func (d LexiconDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares old and new lexicons by phrase. Phrases in both lexicons
// count as changed when their phoneme text differs; spelling-identical,
// sound-identical entries are not reported.
func Diff(old, new *Lexicon) LexiconDiff {
	d := LexiconDiff{}

	for _, e := range old.Entries() {
		g, ok := new.entries[e.Phrase]
		if !ok {
			d.Removed = append(d.Removed, e.Phrase)
			continue
		}
		if g.PhonemeText() != e.GP.PhonemeText() {
			d.Changed = append(d.Changed, e.Phrase)
		}
	}

	for _, e := range new.Entries() {
		if _, ok := old.entries[e.Phrase]; !ok {
			d.Added = append(d.Added, e.Phrase)
		}
	}

	return d
}
