// Package english implements the [numexpand.Expander] interface for
// English, built on the divan num2words converter.
//
// Decimal fractions are read digit by digit ("3.14" → "three point one
// four") and a leading minus becomes the word "minus", matching how such
// numbers are spoken aloud in running speech.
package english

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/divan/num2words"

	"github.com/MrWong99/phonofix/pkg/provider/numexpand"
)

// Expander spells numbers out in English. It is stateless and safe for
// concurrent use.
type Expander struct{}

var _ numexpand.Expander = (*Expander)(nil)

// New returns an English number expander.
func New() *Expander { return &Expander{} }

var digitWords = [...]string{
	"zero", "one", "two", "three", "four",
	"five", "six", "seven", "eight", "nine",
}

// Expand converts literal to English words. Thousands separators are
// stripped before parsing. Only "en"-tagged languages are accepted.
func (e *Expander) Expand(literal, lang string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(lang), "en") {
		return "", fmt.Errorf("english: unsupported language tag %q", lang)
	}

	clean := strings.ReplaceAll(literal, ",", "")
	negative := strings.HasPrefix(clean, "-")
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "-"), "+")

	intPart, fracPart, hasFrac := strings.Cut(clean, ".")

	var words string
	n, err := strconv.Atoi(intPart)
	switch {
	case err == nil:
		words = num2words.Convert(n)
	case errors.Is(err, strconv.ErrRange):
		// Literals beyond the int range are read digit by digit, the way
		// long identifiers are spoken aloud.
		words, err = digitByDigit(intPart)
		if err != nil {
			return "", fmt.Errorf("english: parse %q: %w", literal, err)
		}
	default:
		return "", fmt.Errorf("english: parse %q: %w", literal, err)
	}

	if negative {
		words = "minus " + words
	}

	if hasFrac {
		parts := []string{words, "point"}
		for _, d := range fracPart {
			if d < '0' || d > '9' {
				return "", fmt.Errorf("english: malformed fraction in %q", literal)
			}
			parts = append(parts, digitWords[d-'0'])
		}
		words = strings.Join(parts, " ")
	}

	return words, nil
}

// digitByDigit spells out each decimal digit of s as its own word.
func digitByDigit(s string) (string, error) {
	parts := make([]string, 0, len(s))
	for _, d := range s {
		if d < '0' || d > '9' {
			return "", fmt.Errorf("not a decimal integer")
		}
		parts = append(parts, digitWords[d-'0'])
	}
	return strings.Join(parts, " "), nil
}
