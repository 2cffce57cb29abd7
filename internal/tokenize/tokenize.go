// Package tokenize splits mixed-script text into maximal homogeneous
// segments prior to phonetic conversion.
//
// A segment is a maximal run of characters belonging to one script class:
// ideographs (CJK unified ranges), Latin letters, or everything else
// (digits, punctuation, whitespace). Segments partition the input exactly:
// concatenating segment texts in order reproduces the input byte-for-byte.
// All offsets are byte offsets into the UTF-8 input string; downstream
// span arithmetic uses the same representation throughout.
package tokenize

// Class identifies the script class of a [Segment].
type Class int

const (
	// Other covers digits, punctuation, whitespace, and any character that
	// is neither an ideograph nor a Latin letter.
	Other Class = iota

	// Ideographic covers CJK ideographs from the ranges
	// U+3400–U+4DBF (Extension A) and U+4E00–U+9FFF (Unified Ideographs).
	Ideographic

	// Alphabetic covers ASCII Latin letters A–Z and a–z.
	Alphabetic
)

// String returns a human-readable name for the class.
func (c Class) String() string {
	switch c {
	case Ideographic:
		return "ideographic"
	case Alphabetic:
		return "alphabetic"
	default:
		return "other"
	}
}

// Segment is a maximal homogeneous run of characters within the input text.
type Segment struct {
	// Text is the segment's surface form, a substring of the input.
	Text string

	// Start and End are byte offsets into the input such that
	// input[Start:End] == Text.
	Start int
	End   int

	// Class is the script class shared by every character in Text.
	Class Class
}

// classOf classifies a single rune.
func classOf(r rune) Class {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF, r >= 0x3400 && r <= 0x4DBF:
		return Ideographic
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return Alphabetic
	default:
		return Other
	}
}

// Split tokenizes text into an ordered, gap-free, non-overlapping sequence
// of segments. It never fails; empty input yields a nil slice.
func Split(text string) []Segment {
	if text == "" {
		return nil
	}

	var segs []Segment
	start := 0
	cur := Other
	first := true

	for i, r := range text {
		c := classOf(r)
		if first {
			cur = c
			first = false
			continue
		}
		if c != cur {
			segs = append(segs, Segment{Text: text[start:i], Start: start, End: i, Class: cur})
			start = i
			cur = c
		}
	}
	segs = append(segs, Segment{Text: text[start:], Start: start, End: len(text), Class: cur})

	return segs
}
