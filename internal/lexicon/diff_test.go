package lexicon_test

import (
	"reflect"
	"testing"

	"github.com/MrWong99/phonofix/internal/gp"
	"github.com/MrWong99/phonofix/internal/lexicon"
)

func entryGP(t *testing.T, phrase, phonetic string) *gp.GraphemePhoneme {
	t.Helper()
	g, err := gp.Reconstruct(phrase, []string{phrase}, phonetic, []string{phonetic})
	if err != nil {
		t.Fatalf("gp.Reconstruct returned error: %v", err)
	}
	return g
}

func TestDiff(t *testing.T) {
	t.Parallel()

	old := newLexicon(t)
	old.Put("hello", entryGP(t, "hello", "heloʊ"))
	old.Put("world", entryGP(t, "world", "wɜrld"))
	old.Put("stale", entryGP(t, "stale", "steɪl"))

	updated := newLexicon(t)
	updated.Put("hello", entryGP(t, "hello", "heloʊ"))
	updated.Put("world", entryGP(t, "world", "world"))
	updated.Put("fresh", entryGP(t, "fresh", "frɛʃ"))

	d := lexicon.Diff(old, updated)
	if d.Empty() {
		t.Fatal("Diff reported empty for differing lexicons")
	}
	if want := []string{"fresh"}; !reflect.DeepEqual(d.Added, want) {
		t.Errorf("Added = %v, want %v", d.Added, want)
	}
	if want := []string{"stale"}; !reflect.DeepEqual(d.Removed, want) {
		t.Errorf("Removed = %v, want %v", d.Removed, want)
	}
	if want := []string{"world"}; !reflect.DeepEqual(d.Changed, want) {
		t.Errorf("Changed = %v, want %v", d.Changed, want)
	}
}

func TestDiff_IdenticalIsEmpty(t *testing.T) {
	t.Parallel()

	a := newLexicon(t)
	a.Put("hello", entryGP(t, "hello", "heloʊ"))

	b := newLexicon(t)
	b.Put("hello", entryGP(t, "hello", "heloʊ"))

	if d := lexicon.Diff(a, b); !d.Empty() {
		t.Errorf("Diff = %+v, want empty", d)
	}
}
