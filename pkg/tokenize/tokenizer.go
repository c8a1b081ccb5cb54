// Package tokenize scans text into plain-text and acronym tokens.
//
// A scan is a single left-to-right pass. At each position the configured
// marker pairs are tried in declared order, then (if enabled) a bare
// upper-case word, and otherwise one character is appended to the pending
// text run. Matches are only accepted when the captured key is present in
// the registry; a syntactic match on an unknown key falls back to plain text
// one character at a time.
package tokenize

import (
	"unicode/utf8"

	"github.com/bastiangx/glosstip/pkg/cache"
	"github.com/bastiangx/glosstip/pkg/registry"
)

// Tokenizer memoizes scans of text against a fixed registry.
//
// The returned slices are shared with the cache: callers must treat them as
// read-only. Until a key is evicted, repeated calls return the same slice,
// so callers may compare the backing array to skip re-rendering.
//
// A Tokenizer is not safe for concurrent use because its cache is not.
type Tokenizer struct {
	registry *registry.Registry
	cache    *cache.LRU[string, []Token]
}

// NewTokenizer wires a registry to a caller-owned cache. A nil cache
// disables memoization.
func NewTokenizer(reg *registry.Registry, c *cache.LRU[string, []Token]) *Tokenizer {
	return &Tokenizer{registry: reg, cache: c}
}

// New builds a Tokenizer with its own cache of the given capacity.
func New(reg *registry.Registry, capacity int) (*Tokenizer, error) {
	c, err := cache.New[string, []Token](capacity)
	if err != nil {
		return nil, err
	}
	return NewTokenizer(reg, c), nil
}

// Registry returns the registry the tokenizer resolves against.
func (t *Tokenizer) Registry() *registry.Registry {
	return t.registry
}

// Tokenize scans text under cfg, returning the cached result when present.
func (t *Tokenizer) Tokenize(text string, cfg MatchConfig) ([]Token, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if t.cache == nil {
		return Scan(text, t.registry, cfg), nil
	}

	key := cfg.CacheKey(text)
	if tokens, ok := t.cache.Get(key); ok {
		return tokens, nil
	}

	tokens := Scan(text, t.registry, cfg)
	t.cache.Put(key, tokens)
	return tokens, nil
}

// Stats exposes the cache counters; the zero value when caching is off.
func (t *Tokenizer) Stats() cache.Stats {
	if t.cache == nil {
		return cache.Stats{}
	}
	return t.cache.Stats()
}

// Scan tokenizes text without memoization. cfg is assumed valid.
// Empty input yields an empty, non-nil slice.
func Scan(text string, reg *registry.Registry, cfg MatchConfig) []Token {
	tokens := make([]Token, 0, 4)
	pending := 0 // start of the current literal run

	flush := func(end int) {
		if end > pending {
			tokens = append(tokens, TextToken(text[pending:end]))
		}
	}

	for i := 0; i < len(text); {
		if end, key, desc, ok := matchMarker(text, i, reg, cfg); ok {
			flush(i)
			tokens = append(tokens, AcronymToken(key, desc, text[i:end]))
			i, pending = end, end
			continue
		}
		if cfg.EnableBareAcronyms {
			if end, desc, ok := matchBare(text, i, reg, cfg); ok {
				flush(i)
				tokens = append(tokens, AcronymToken(text[i:end], desc, text[i:end]))
				i, pending = end, end
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	flush(len(text))
	return tokens
}

// matchMarker tries each marker pair anchored at i and returns the first
// whose capture is a registry hit.
func matchMarker(text string, i int, reg *registry.Registry, cfg MatchConfig) (end int, key, desc string, ok bool) {
	first, size := utf8.DecodeRuneInString(text[i:])
	for _, mp := range cfg.MarkerPairs {
		if first != mp.Left {
			continue
		}
		start := i + size
		n := alnumRun(text, start, cfg.MaxLen)
		if n < cfg.MinLen || n > cfg.MaxLen {
			continue
		}
		closing, closeSize := utf8.DecodeRuneInString(text[start+n:])
		if start+n >= len(text) || closing != mp.Right {
			continue
		}
		captured := text[start : start+n]
		if d, found := reg.Describe(captured); found {
			return start + n + closeSize, captured, d, true
		}
	}
	return 0, "", "", false
}

// matchBare matches a word of two or more ASCII capitals bounded on both
// sides by non-word characters, with length within cfg bounds.
func matchBare(text string, i int, reg *registry.Registry, cfg MatchConfig) (end int, desc string, ok bool) {
	if i > 0 && isWordByte(text[i-1]) {
		return 0, "", false
	}
	k := i
	for k < len(text) && isUpperByte(text[k]) {
		k++
	}
	n := k - i
	if n < 2 || n < cfg.MinLen || n > cfg.MaxLen {
		return 0, "", false
	}
	if k < len(text) && isWordByte(text[k]) {
		return 0, "", false
	}
	if d, found := reg.Describe(text[i:k]); found {
		return k, d, true
	}
	return 0, "", false
}

// alnumRun counts ASCII letters and digits starting at i. It stops once the
// count passes limit, so a result above limit means the run is too long.
func alnumRun(text string, i, limit int) int {
	n := 0
	for i+n < len(text) && n <= limit && isAlnumByte(text[i+n]) {
		n++
	}
	return n
}

func isUpperByte(c byte) bool {
	return 'A' <= c && c <= 'Z'
}

func isAlnumByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func isWordByte(c byte) bool {
	return isAlnumByte(c) || c == '_'
}
