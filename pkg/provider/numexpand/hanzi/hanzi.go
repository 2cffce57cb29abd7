// Package hanzi implements the [numexpand.Expander] interface for Chinese.
//
// Numbers are written with standard numeral characters following spoken
// Mandarin conventions: 361 → 三百六十一, 10 → 十, 105 → 一百零五, and
// decimal fractions are read digit by digit after 点 (3.14 → 三点一四).
// A leading minus becomes 负.
package hanzi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MrWong99/phonofix/pkg/provider/numexpand"
)

// Expander spells numbers out in Chinese numerals. It is stateless and
// safe for concurrent use.
type Expander struct{}

var _ numexpand.Expander = (*Expander)(nil)

// New returns a Chinese number expander.
func New() *Expander { return &Expander{} }

var digits = [...]string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

// units are the small-scale unit characters for positions within a
// four-digit group: ones, tens, hundreds, thousands.
var units = [...]string{"", "十", "百", "千"}

// groups are the large-scale group markers: each group covers four decimal
// digits (万 = 10^4, 亿 = 10^8, 万亿 = 10^12, 亿亿 = 10^16). Five groups
// cover every int64.
var groups = [...]string{"", "万", "亿", "万亿", "亿亿"}

// Expand converts literal to Chinese numeral words. Thousands separators
// are stripped before parsing. Only "zh"-tagged languages are accepted.
func (e *Expander) Expand(literal, lang string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(lang), "zh") {
		return "", fmt.Errorf("hanzi: unsupported language tag %q", lang)
	}

	clean := strings.ReplaceAll(literal, ",", "")
	negative := strings.HasPrefix(clean, "-")
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "-"), "+")

	intPart, fracPart, hasFrac := strings.Cut(clean, ".")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return "", fmt.Errorf("hanzi: parse %q: %w", literal, err)
	}

	var b strings.Builder
	if negative {
		b.WriteString("负")
	}
	if err != nil {
		// Literals beyond int64 are read digit by digit.
		for _, d := range intPart {
			if d < '0' || d > '9' {
				return "", fmt.Errorf("hanzi: parse %q: not a decimal integer", literal)
			}
			b.WriteString(digits[d-'0'])
		}
	} else {
		b.WriteString(cardinal(n))
	}

	if hasFrac {
		b.WriteString("点")
		for _, d := range fracPart {
			if d < '0' || d > '9' {
				return "", fmt.Errorf("hanzi: malformed fraction in %q", literal)
			}
			b.WriteString(digits[d-'0'])
		}
	}

	return b.String(), nil
}

// cardinal renders a non-negative integer in spoken-Mandarin form.
func cardinal(n int64) string {
	if n == 0 {
		return digits[0]
	}

	// Split into four-digit groups, least significant first.
	var chunks []int64
	for n > 0 {
		chunks = append(chunks, n%10000)
		n /= 10000
	}

	var b strings.Builder
	last := -1
	for i := len(chunks) - 1; i >= 0; i-- {
		c := chunks[i]
		if c == 0 {
			continue
		}
		// A skipped group or leading zeros within this group read as 零.
		if last >= 0 && (last-i > 1 || c < 1000) {
			b.WriteString(digits[0])
		}
		b.WriteString(fourDigits(c))
		b.WriteString(groups[i])
		last = i
	}

	// 一十X reads as 十X when it opens the number (10 → 十, 15 → 十五).
	out := b.String()
	if rest, found := strings.CutPrefix(out, "一十"); found {
		out = "十" + rest
	}
	return out
}

// fourDigits renders a value in [1, 9999] with interior zeros collapsed to
// a single 零.
func fourDigits(n int64) string {
	var b strings.Builder
	pendingZero := false
	for pos := 3; pos >= 0; pos-- {
		scale := int64(1)
		for range pos {
			scale *= 10
		}
		d := n / scale % 10
		if d == 0 {
			if b.Len() > 0 {
				pendingZero = true
			}
			continue
		}
		if pendingZero {
			b.WriteString(digits[0])
			pendingZero = false
		}
		b.WriteString(digits[d])
		b.WriteString(units[pos])
	}
	return b.String()
}
