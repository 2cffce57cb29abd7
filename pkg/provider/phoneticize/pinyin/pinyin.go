// Package pinyin implements the [phoneticize.Phoneticizer] interface for
// CJK ideographs using the mozillazg go-pinyin tables.
//
// Each ideograph is converted to its first (most common) pinyin reading in
// numeric-tone style, e.g. 好 → "hao3". Numeric tones keep the tone marker
// as a trailing ASCII digit, which is exactly the character class the
// converter's tone-stripping normalization removes.
package pinyin

import (
	"fmt"
	"strings"

	gopinyin "github.com/mozillazg/go-pinyin"

	"github.com/MrWong99/phonofix/pkg/provider/phoneticize"
)

// Provider converts ideographs to numeric-tone pinyin. It is read-only
// after construction and safe for concurrent use.
type Provider struct {
	args gopinyin.Args
}

var _ phoneticize.Phoneticizer = (*Provider)(nil)

// New returns a Provider using numeric-tone style (Tone3: "hao3").
func New() *Provider {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone3
	return &Provider{args: args}
}

// Phoneticize converts each ideograph in unit to pinyin and concatenates
// the syllables. Characters without a pinyin reading (rare ideographs
// outside the table) pass through unchanged so the unit is never silently
// dropped here.
//
// Only [phoneticize.ScriptHan] units are supported.
func (p *Provider) Phoneticize(unit string, script phoneticize.Script) (string, error) {
	if script != phoneticize.ScriptHan {
		return "", fmt.Errorf("pinyin: unsupported script %v", script)
	}

	var b strings.Builder
	for _, r := range unit {
		readings := gopinyin.SinglePinyin(r, p.args)
		if len(readings) == 0 {
			b.WriteRune(r)
			continue
		}
		b.WriteString(readings[0])
	}
	return b.String(), nil
}
