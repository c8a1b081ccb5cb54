package tokenize

import "strings"

// Kind tags the Token variant.
type Kind uint8

const (
	KindText Kind = iota
	KindAcronym
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindAcronym:
		return "acronym"
	default:
		return "unknown"
	}
}

// Token is either literal text or a resolved acronym. Switch on Kind.
//
// Text always holds the source span the token covers: the literal content
// for KindText, or the full match including any markers for KindAcronym.
// Acronym and Description are set only for KindAcronym.
type Token struct {
	Kind        Kind   `msgpack:"k"`
	Text        string `msgpack:"t"`
	Acronym     string `msgpack:"a,omitempty"`
	Description string `msgpack:"d,omitempty"`
}

// TextToken returns a literal passthrough token.
func TextToken(text string) Token {
	return Token{Kind: KindText, Text: text}
}

// AcronymToken returns a resolved match covering span.
func AcronymToken(acronym, description, span string) Token {
	return Token{Kind: KindAcronym, Text: span, Acronym: acronym, Description: description}
}

// IsAcronym reports whether t is a resolved match.
func (t Token) IsAcronym() bool {
	return t.Kind == KindAcronym
}

// Span returns the source text the token consumed.
func (t Token) Span() string {
	return t.Text
}

// Join concatenates the spans of tokens, reconstructing the scanned input.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Acronyms returns the acronym tokens in order.
func Acronyms(tokens []Token) []Token {
	var out []Token
	for _, t := range tokens {
		if t.Kind == KindAcronym {
			out = append(out, t)
		}
	}
	return out
}
