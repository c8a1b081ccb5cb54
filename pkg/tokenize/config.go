package tokenize

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/glosstip/pkg/errs"
)

// MarkerPair is a left/right delimiter bracketing a candidate acronym, e.g. "(" and ")".
type MarkerPair struct {
	Left  rune
	Right rune
}

// NewMarkerPair validates and returns a marker pair. The two runes must
// differ and neither may be a letter, digit, space or control character.
func NewMarkerPair(left, right rune) (MarkerPair, error) {
	mp := MarkerPair{Left: left, Right: right}
	if err := mp.Validate(); err != nil {
		return MarkerPair{}, err
	}
	return mp, nil
}

// ParseMarkerPair reads a two-rune string such as "()" or "[]".
func ParseMarkerPair(s string) (MarkerPair, error) {
	if utf8.RuneCountInString(s) != 2 || !utf8.ValidString(s) {
		return MarkerPair{}, errs.Config("marker pair", s, "must be exactly two characters")
	}
	left, size := utf8.DecodeRuneInString(s)
	right, _ := utf8.DecodeRuneInString(s[size:])
	return NewMarkerPair(left, right)
}

// Validate checks the pair is made of two distinguishable delimiter runes.
func (mp MarkerPair) Validate() error {
	for _, r := range []rune{mp.Left, mp.Right} {
		switch {
		case r == 0 || r == utf8.RuneError:
			return errs.Config("marker pair", mp.String(), "contains an invalid character")
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return errs.Config("marker pair", mp.String(), "markers cannot be letters or digits")
		case unicode.IsSpace(r) || unicode.IsControl(r):
			return errs.Config("marker pair", mp.String(), "markers cannot be whitespace or control characters")
		}
	}
	if mp.Left == mp.Right {
		return errs.Config("marker pair", mp.String(), "left and right markers must differ")
	}
	return nil
}

func (mp MarkerPair) String() string {
	return string(mp.Left) + string(mp.Right)
}

// MatchConfig controls what the tokenizer recognizes. NewMatchConfig copies
// the marker slice.
type MatchConfig struct {
	EnableBareAcronyms bool
	MinLen             int
	MaxLen             int
	MarkerPairs        []MarkerPair
}

// NewMatchConfig returns a validated MatchConfig.
func NewMatchConfig(enableBare bool, minLen, maxLen int, markers ...MarkerPair) (MatchConfig, error) {
	cfg := MatchConfig{
		EnableBareAcronyms: enableBare,
		MinLen:             minLen,
		MaxLen:             maxLen,
		MarkerPairs:        append([]MarkerPair(nil), markers...),
	}
	if err := cfg.Validate(); err != nil {
		return MatchConfig{}, err
	}
	return cfg, nil
}

// DefaultMatchConfig matches parenthesized and bracketed acronyms of 2 to 6
// characters as well as bare upper-case words.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		EnableBareAcronyms: true,
		MinLen:             2,
		MaxLen:             6,
		MarkerPairs:        []MarkerPair{{'(', ')'}, {'[', ']'}},
	}
}

// Validate reports the first invalid field.
func (c MatchConfig) Validate() error {
	if c.MinLen <= 0 {
		return errs.Config("min_len", c.MinLen, "must be greater than zero")
	}
	if c.MaxLen < c.MinLen {
		return errs.Config("max_len", c.MaxLen, "must be >= min_len ("+strconv.Itoa(c.MinLen)+")")
	}
	for _, mp := range c.MarkerPairs {
		if err := mp.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// keyPrefix serializes every field that influences scan output. Each marker
// pair is exactly two runes, so the count makes the encoding unambiguous.
func (c MatchConfig) keyPrefix() string {
	var b strings.Builder
	if c.EnableBareAcronyms {
		b.WriteString("b1|")
	} else {
		b.WriteString("b0|")
	}
	b.WriteString(strconv.Itoa(c.MinLen))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(c.MaxLen))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(len(c.MarkerPairs)))
	b.WriteByte('|')
	for _, mp := range c.MarkerPairs {
		b.WriteRune(mp.Left)
		b.WriteRune(mp.Right)
	}
	b.WriteByte('|')
	return b.String()
}

// CacheKey is the memoization key for scanning text under c.
func (c MatchConfig) CacheKey(text string) string {
	return c.keyPrefix() + text
}
