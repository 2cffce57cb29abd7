package tokenize_test

import (
	"strings"
	"testing"

	"github.com/MrWong99/phonofix/internal/tokenize"
)

func TestSplit_Empty(t *testing.T) {
	t.Parallel()

	if segs := tokenize.Split(""); len(segs) != 0 {
		t.Errorf("Split(\"\") = %v, want no segments", segs)
	}
}

func TestSplit_MixedScripts(t *testing.T) {
	t.Parallel()

	segs := tokenize.Split("你好 hello 123!")

	want := []struct {
		text  string
		class tokenize.Class
	}{
		{"你好", tokenize.Ideographic},
		{" ", tokenize.Other},
		{"hello", tokenize.Alphabetic},
		{" 123!", tokenize.Other},
	}

	if len(segs) != len(want) {
		t.Fatalf("Split returned %d segments, want %d: %v", len(segs), len(want), segs)
	}
	for i, w := range want {
		if segs[i].Text != w.text {
			t.Errorf("segment %d: Text=%q, want %q", i, segs[i].Text, w.text)
		}
		if segs[i].Class != w.class {
			t.Errorf("segment %d: Class=%v, want %v", i, segs[i].Class, w.class)
		}
	}
}

func TestSplit_OffsetsIndexOriginal(t *testing.T) {
	t.Parallel()

	text := "abc中文12.5 déjà"
	for _, seg := range tokenize.Split(text) {
		if got := text[seg.Start:seg.End]; got != seg.Text {
			t.Errorf("text[%d:%d] = %q, want %q", seg.Start, seg.End, got, seg.Text)
		}
	}
}

// Concatenating segments in order must reproduce the input exactly.
func TestSplit_Partition(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		" ",
		"hello",
		"你好世界",
		"NASA launched 2 rockets。你好, world! 3.14",
		"ümlaut-mix 漢字abc",
		"!!!",
	}

	for _, in := range inputs {
		segs := tokenize.Split(in)
		var b strings.Builder
		prevEnd := 0
		for i, seg := range segs {
			if seg.Start != prevEnd {
				t.Errorf("input %q: segment %d starts at %d, want %d (gap or overlap)", in, i, seg.Start, prevEnd)
			}
			if seg.End-seg.Start != len(seg.Text) {
				t.Errorf("input %q: segment %d span length %d != text length %d", in, i, seg.End-seg.Start, len(seg.Text))
			}
			prevEnd = seg.End
			b.WriteString(seg.Text)
		}
		if b.String() != in {
			t.Errorf("concatenated segments = %q, want %q", b.String(), in)
		}
	}
}

// Accented Latin letters are outside A–Z/a–z and fall into Other runs.
func TestSplit_NonASCIILetters(t *testing.T) {
	t.Parallel()

	segs := tokenize.Split("déjà")
	if len(segs) != 4 {
		t.Fatalf("Split(%q) returned %d segments, want 4: %v", "déjà", len(segs), segs)
	}
	if segs[0].Class != tokenize.Alphabetic || segs[0].Text != "d" {
		t.Errorf("segment 0 = %+v, want alphabetic %q", segs[0], "d")
	}
	if segs[1].Class != tokenize.Other || segs[1].Text != "é" {
		t.Errorf("segment 1 = %+v, want other %q", segs[1], "é")
	}
}
