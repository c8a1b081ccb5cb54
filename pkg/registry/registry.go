// Package registry holds the immutable acronym to description lookup table.
//
// Keys live in a patricia trie so that callers can list entries by prefix
// as well as test membership.
package registry

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/unicode/norm"
)

// Entry is a single acronym and its description.
type Entry struct {
	Key         string `toml:"key" msgpack:"k"`
	Description string `toml:"description" msgpack:"d"`
}

// Registry maps normalized keys to descriptions. It has no mutation API.
type Registry struct {
	trie            *patricia.Trie
	caseInsensitive bool
	size            int
}

// New builds a registry from entries. With caseInsensitive set, keys are
// canonicalized to upper case at construction and every query is
// canonicalized the same way; otherwise keys match byte for byte.
// Empty keys are skipped and a later duplicate replaces an earlier one.
func New(entries []Entry, caseInsensitive bool) *Registry {
	r := &Registry{
		trie:            patricia.NewTrie(),
		caseInsensitive: caseInsensitive,
	}
	for _, e := range entries {
		key := r.normalize(e.Key)
		if key == "" {
			log.Debugf("Skipping registry entry with empty key (description %q)", e.Description)
			continue
		}
		if r.trie.Get(patricia.Prefix(key)) == nil {
			r.size++
		}
		r.trie.Set(patricia.Prefix(key), e.Description)
	}
	return r
}

// FromMap is a convenience over New for literal tables.
func FromMap(m map[string]string, caseInsensitive bool) *Registry {
	entries := make([]Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry{Key: k, Description: v})
	}
	return New(entries, caseInsensitive)
}

// Contains reports whether key is present.
func (r *Registry) Contains(key string) bool {
	_, ok := r.Describe(key)
	return ok
}

// Describe returns the description for key.
func (r *Registry) Describe(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	k := r.normalize(key)
	if k == "" {
		return "", false
	}
	item := r.trie.Get(patricia.Prefix(k))
	if item == nil {
		return "", false
	}
	desc, ok := item.(string)
	return desc, ok
}

// CaseInsensitive reports how keys are matched.
func (r *Registry) CaseInsensitive() bool {
	return r.caseInsensitive
}

// Len returns the number of distinct keys.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.size
}

// Keys returns every stored key in sorted order.
func (r *Registry) Keys() []string {
	entries := r.Prefixed("")
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Prefixed returns the entries whose normalized key starts with prefix,
// sorted by key. An empty prefix returns everything.
func (r *Registry) Prefixed(prefix string) []Entry {
	if r == nil {
		return nil
	}
	var out []Entry
	visit := func(p patricia.Prefix, item patricia.Item) error {
		desc, _ := item.(string)
		out = append(out, Entry{Key: string(p), Description: desc})
		return nil
	}

	var err error
	if p := r.normalize(prefix); p == "" {
		err = r.trie.Visit(visit)
	} else {
		err = r.trie.VisitSubtree(patricia.Prefix(p), visit)
	}
	if err != nil {
		log.Errorf("Error visiting registry trie: %v", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (r *Registry) normalize(key string) string {
	if !r.caseInsensitive {
		return key
	}
	return strings.ToUpper(norm.NFC.String(key))
}
