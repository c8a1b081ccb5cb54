package tokenize

import (
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/bastiangx/glosstip/pkg/cache"
	"github.com/bastiangx/glosstip/pkg/errs"
	"github.com/bastiangx/glosstip/pkg/registry"
)

const sdkDesc = "Software Development Kit"

func newTokenizer(t *testing.T, reg *registry.Registry, capacity int) *Tokenizer {
	t.Helper()
	tok, err := New(reg, capacity)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return tok
}

func mustConfig(t *testing.T, bare bool, minLen, maxLen int, markers ...string) MatchConfig {
	t.Helper()
	pairs := make([]MarkerPair, 0, len(markers))
	for _, m := range markers {
		mp, err := ParseMarkerPair(m)
		if err != nil {
			t.Fatalf("ParseMarkerPair(%q) error: %v", m, err)
		}
		pairs = append(pairs, mp)
	}
	cfg, err := NewMatchConfig(bare, minLen, maxLen, pairs...)
	if err != nil {
		t.Fatalf("NewMatchConfig error: %v", err)
	}
	return cfg
}

func TestTokenizeScenarios(t *testing.T) {
	sdk := registry.FromMap(map[string]string{"SDK": sdkDesc}, false)
	empty := registry.New(nil, false)

	testCases := []struct {
		reg         *registry.Registry
		cfg         MatchConfig
		input       string
		expected    []Token
		description string
	}{
		{
			sdk, mustConfig(t, false, 2, 6, "()"), "Our (SDK) rocks.",
			[]Token{TextToken("Our "), AcronymToken("SDK", sdkDesc, "(SDK)"), TextToken(" rocks.")},
			"Marker match in the middle",
		},
		{
			sdk, mustConfig(t, true, 2, 3, "()"), "SDK is great",
			[]Token{AcronymToken("SDK", sdkDesc, "SDK"), TextToken(" is great")},
			"Bare acronym at start",
		},
		{
			empty, mustConfig(t, true, 2, 6, "()"), "(API) call",
			[]Token{TextToken("(API) call")},
			"Marker syntax but unknown key degrades to text",
		},
		{
			sdk, mustConfig(t, true, 2, 6, "()"), "",
			[]Token{},
			"Empty input",
		},
		{
			sdk, mustConfig(t, false, 2, 6, "()"), "SDK bare is off",
			[]Token{TextToken("SDK bare is off")},
			"Bare match disabled",
		},
		{
			sdk, mustConfig(t, true, 4, 6, "()"), "SDK too short",
			[]Token{TextToken("SDK too short")},
			"Bare word below min length",
		},
		{
			sdk, mustConfig(t, true, 2, 6, "()"), "the SDKs and xSDK and SDK_x",
			[]Token{TextToken("the SDKs and xSDK and SDK_x")},
			"Bare words need word boundaries",
		},
		{
			sdk, mustConfig(t, true, 2, 6, "()"), "(SDK)",
			[]Token{AcronymToken("SDK", sdkDesc, "(SDK)")},
			"Whole input is a marker match",
		},
		{
			sdk, mustConfig(t, true, 2, 6, "()"), "(SDK",
			[]Token{TextToken("("), AcronymToken("SDK", sdkDesc, "SDK")},
			"Unclosed marker falls back to bare match",
		},
		{
			sdk, mustConfig(t, true, 2, 6, "()"), "((SDK))",
			[]Token{TextToken("("), AcronymToken("SDK", sdkDesc, "(SDK)"), TextToken(")")},
			"Nested markers keep outer characters as text",
		},
		{
			sdk, mustConfig(t, false, 2, 6, "()", "[]"), "[SDK] and (SDK)",
			[]Token{AcronymToken("SDK", sdkDesc, "[SDK]"), TextToken(" and "), AcronymToken("SDK", sdkDesc, "(SDK)")},
			"Several marker pairs",
		},
		{
			sdk, mustConfig(t, true, 2, 6, "()"), "café SDK ünï",
			[]Token{TextToken("café "), AcronymToken("SDK", sdkDesc, "SDK"), TextToken(" ünï")},
			"Multi-byte text around a match",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			tok := newTokenizer(t, tc.reg, 8)
			got, err := tok.Tokenize(tc.input, tc.cfg)
			if err != nil {
				t.Fatalf("Tokenize error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Tokenize(%q) =\n  %#v\nwant\n  %#v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestMarkerPairPriorityRequiresRegistryHit(t *testing.T) {
	reg := registry.FromMap(map[string]string{"SDK": sdkDesc}, false)
	// "<>" is tried first and fails on the closing rune; "<]" then matches.
	// "<SD>" is syntactically fine but SD is absent, so it stays text.
	cfg := MatchConfig{
		MinLen:      2,
		MaxLen:      6,
		MarkerPairs: []MarkerPair{{'<', '>'}, {'<', ']'}},
	}
	got := Scan("<SDK] <SD>", reg, cfg)
	want := []Token{AcronymToken("SDK", sdkDesc, "<SDK]"), TextToken(" <SD>")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan = %#v, want %#v", got, want)
	}
}

func TestCaseInsensitiveMarkerCapture(t *testing.T) {
	reg := registry.FromMap(map[string]string{"SDK": sdkDesc}, true)
	got := Scan("use the (sdk)", reg, DefaultMatchConfig())
	want := []Token{TextToken("use the "), AcronymToken("sdk", sdkDesc, "(sdk)")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan = %#v, want %#v", got, want)
	}
}

func TestMarkerCaptureLengthBounds(t *testing.T) {
	reg := registry.FromMap(map[string]string{"ABCDEFG": "long", "A": "short"}, false)
	cfg := MatchConfig{MinLen: 2, MaxLen: 6, MarkerPairs: []MarkerPair{{'(', ')'}}}
	for _, input := range []string{"(ABCDEFG)", "(A)"} {
		got := Scan(input, reg, cfg)
		if len(got) != 1 || got[0].IsAcronym() {
			t.Errorf("Scan(%q) = %#v, want one text token", input, got)
		}
	}
}

func TestUnboundedMaxLenStillMatchesMarkers(t *testing.T) {
	reg := registry.FromMap(map[string]string{"SDK": sdkDesc}, false)
	cfg := mustConfig(t, false, 2, math.MaxInt, "()")

	got := Scan("Our (SDK) rocks.", reg, cfg)
	want := []Token{
		TextToken("Our "),
		AcronymToken("SDK", sdkDesc, "(SDK)"),
		TextToken(" rocks."),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan = %#v, want %#v", got, want)
	}
}

func TestTokenizeIsMemoized(t *testing.T) {
	reg := registry.FromMap(map[string]string{"SDK": sdkDesc}, false)
	tok := newTokenizer(t, reg, 4)
	cfg := DefaultMatchConfig()

	first, err := tok.Tokenize("Our (SDK) rocks.", cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := tok.Tokenize("Our (SDK) rocks.", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated Tokenize returned different tokens")
	}
	if &first[0] != &second[0] {
		t.Error("repeated Tokenize should return the cached slice")
	}
	if stats := tok.Stats(); stats.Hits != 1 || stats.Entries != 1 {
		t.Errorf("Stats = %+v, want 1 hit and 1 entry", stats)
	}
}

func TestCacheKeySeparatesConfigs(t *testing.T) {
	reg := registry.FromMap(map[string]string{"SDK": sdkDesc}, false)
	tok := newTokenizer(t, reg, 4)

	bareOn := mustConfig(t, true, 2, 6, "()")
	bareOff := mustConfig(t, false, 2, 6, "()")

	on, _ := tok.Tokenize("SDK", bareOn)
	off, _ := tok.Tokenize("SDK", bareOff)
	if !on[0].IsAcronym() || off[0].IsAcronym() {
		t.Errorf("configs shared a cache entry: on=%#v off=%#v", on, off)
	}
	if tok.Stats().Entries != 2 {
		t.Errorf("Entries = %d, want 2", tok.Stats().Entries)
	}
}

func TestCacheKeyUnambiguous(t *testing.T) {
	a := MatchConfig{MinLen: 1, MaxLen: 12, MarkerPairs: []MarkerPair{{'(', ')'}}}
	b := MatchConfig{MinLen: 11, MaxLen: 2}
	if a.CacheKey("x") == b.CacheKey("x") {
		t.Error("distinct configs produced the same cache key")
	}
	if a.CacheKey("|x") == a.CacheKey("x|") {
		t.Error("distinct texts produced the same cache key")
	}
}

func TestEvictedEntryIsRecomputed(t *testing.T) {
	reg := registry.FromMap(map[string]string{"SDK": sdkDesc}, false)
	c, err := cache.New[string, []Token](1)
	if err != nil {
		t.Fatal(err)
	}
	tok := NewTokenizer(reg, c)
	cfg := DefaultMatchConfig()

	first, _ := tok.Tokenize("SDK one", cfg)
	tok.Tokenize("SDK two", cfg)
	again, _ := tok.Tokenize("SDK one", cfg)
	if !reflect.DeepEqual(first, again) {
		t.Error("recomputed tokens differ by value")
	}
	if &first[0] == &again[0] {
		t.Error("evicted entry should have been recomputed")
	}
}

func TestTokenizeRejectsInvalidConfig(t *testing.T) {
	tok := newTokenizer(t, registry.New(nil, false), 2)
	testCases := []struct {
		cfg         MatchConfig
		description string
	}{
		{MatchConfig{MinLen: 0, MaxLen: 3}, "Zero min length"},
		{MatchConfig{MinLen: 4, MaxLen: 3}, "Max below min"},
		{MatchConfig{MinLen: 1, MaxLen: 3, MarkerPairs: []MarkerPair{{'|', '|'}}}, "Identical markers"},
		{MatchConfig{MinLen: 1, MaxLen: 3, MarkerPairs: []MarkerPair{{'a', ')'}}}, "Letter marker"},
	}
	for _, tc := range testCases {
		if _, err := tok.Tokenize("x", tc.cfg); !errs.IsConfiguration(err) {
			t.Errorf("%s: error = %v, want configuration error", tc.description, err)
		}
	}
}

func TestParseMarkerPair(t *testing.T) {
	testCases := []struct {
		input       string
		valid       bool
		description string
	}{
		{"()", true, "Parentheses"},
		{"«»", true, "Multi-byte guillemets"},
		{"(", false, "Single character"},
		{"(()", false, "Three characters"},
		{"((", false, "Identical characters"},
		{"( ", false, "Whitespace marker"},
		{"", false, "Empty"},
	}
	for _, tc := range testCases {
		_, err := ParseMarkerPair(tc.input)
		if (err == nil) != tc.valid {
			t.Errorf("%s: ParseMarkerPair(%q) error = %v", tc.description, tc.input, err)
		}
	}
}

func TestNilCacheDisablesMemoization(t *testing.T) {
	reg := registry.FromMap(map[string]string{"SDK": sdkDesc}, false)
	tok := NewTokenizer(reg, nil)
	got, err := tok.Tokenize("SDK", DefaultMatchConfig())
	if err != nil || len(got) != 1 {
		t.Fatalf("Tokenize = %v, %v", got, err)
	}
	if tok.Stats() != (cache.Stats{}) {
		t.Error("Stats should be zero without a cache")
	}
}

func TestRoundTrip(t *testing.T) {
	reg := registry.FromMap(map[string]string{
		"SDK": sdkDesc,
		"API": "Application Programming Interface",
		"IO":  "Input/Output",
	}, false)
	cfg := DefaultMatchConfig()
	alphabet := []string{"S", "D", "K", "A", "P", "I", "O", "(", ")", "[", "]", " ", "x", "_", "é", "\xff"}

	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 500; n++ {
		var b strings.Builder
		for j := rng.Intn(24); j > 0; j-- {
			b.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		input := b.String()

		tokens := Scan(input, reg, cfg)
		if got := Join(tokens); got != input {
			t.Fatalf("Join(Scan(%q)) = %q", input, got)
		}
		for i, tk := range tokens {
			if tk.Kind == KindText && tk.Text == "" {
				t.Fatalf("Scan(%q) emitted empty text token", input)
			}
			if i > 0 && tk.Kind == KindText && tokens[i-1].Kind == KindText {
				t.Fatalf("Scan(%q) emitted adjacent text tokens", input)
			}
			if tk.IsAcronym() && !reg.Contains(tk.Acronym) {
				t.Fatalf("Scan(%q) emitted unknown acronym %q", input, tk.Acronym)
			}
		}
	}
}

func TestAcronymsHelper(t *testing.T) {
	reg := registry.FromMap(map[string]string{"SDK": sdkDesc, "API": "x"}, false)
	got := Acronyms(Scan("an SDK and an (API)", reg, DefaultMatchConfig()))
	if len(got) != 2 || got[0].Acronym != "SDK" || got[1].Span() != "(API)" {
		t.Errorf("Acronyms = %#v", got)
	}
}
