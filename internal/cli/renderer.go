package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/glosstip/pkg/cache"
	"github.com/bastiangx/glosstip/pkg/tokenize"
	"github.com/charmbracelet/lipgloss"
)

// Renderer turns a line into highlighted text plus a boxed glossary of the
// acronyms it contains. Rendered output is cached per text, match config and
// box width.
type Renderer struct {
	tokenizer *tokenize.Tokenizer
	match     tokenize.MatchConfig
	width     int
	cache     *cache.LRU[string, string]

	acronym lipgloss.Style
	term    lipgloss.Style
	desc    lipgloss.Style
	box     lipgloss.Style
}

// NewRenderer creates a renderer holding at most capacity rendered lines.
// A width of zero leaves the glossary box unconstrained.
func NewRenderer(tok *tokenize.Tokenizer, match tokenize.MatchConfig, capacity, width int) (*Renderer, error) {
	if err := match.Validate(); err != nil {
		return nil, err
	}
	c, err := cache.New[string, string](capacity)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		tokenizer: tok,
		match:     match,
		width:     width,
		cache:     c,
		acronym:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("75")),
		term:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		desc:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}, nil
}

// SetWidth changes the glossary box width. Cached lines for other widths stay valid.
func (r *Renderer) SetWidth(width int) {
	r.width = width
}

// Width returns the glossary box width.
func (r *Renderer) Width() int {
	return r.width
}

// Render highlights acronyms in text and appends their descriptions.
func (r *Renderer) Render(text string) (string, error) {
	key := fmt.Sprintf("w%d|%s", r.width, r.match.CacheKey(text))
	if out, ok := r.cache.Get(key); ok {
		return out, nil
	}

	tokens, err := r.tokenizer.Tokenize(text, r.match)
	if err != nil {
		return "", err
	}

	var line strings.Builder
	for _, t := range tokens {
		if t.IsAcronym() {
			line.WriteString(r.acronym.Render(t.Span()))
			continue
		}
		line.WriteString(t.Text)
	}

	out := line.String()
	if legend := r.legend(tokens); legend != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, legend)
	}
	r.cache.Put(key, out)
	return out, nil
}

// Stats reports the render cache counters.
func (r *Renderer) Stats() cache.Stats {
	return r.cache.Stats()
}

func (r *Renderer) legend(tokens []tokenize.Token) string {
	seen := make(map[string]bool)
	var rows []string
	for _, t := range tokenize.Acronyms(tokens) {
		if seen[t.Acronym] {
			continue
		}
		seen[t.Acronym] = true
		rows = append(rows, r.term.Render(t.Acronym)+"  "+r.desc.Render(t.Description))
	}
	if len(rows) == 0 {
		return ""
	}

	box := r.box
	if r.width > 0 {
		// lipgloss widths exclude the border
		box = box.Width(max(r.width-2, 1))
	}
	return box.Render(strings.Join(rows, "\n"))
}
