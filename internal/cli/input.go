// Package cli provides an interactive line tokenizer for debugging glossaries
// and tooltip placement in real-time.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/glosstip/internal/logger"
	"github.com/bastiangx/glosstip/pkg/placement"
	"github.com/bastiangx/glosstip/pkg/tokenize"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const helpText = `commands:
  :list [prefix]                       glossary entries
  :stats                               cache counters
  :width N                             glossary box width (0 = unbounded)
  :place vw vh ax ay aw ah sw sh [rtl] resolve tooltip constraints and offset
  :help                                this text
anything else is tokenized and rendered`

// InputHandler reads lines and renders their acronyms.
type InputHandler struct {
	tokenizer    *tokenize.Tokenizer
	renderer     *Renderer
	theme        placement.Theme
	maxList      int
	requestCount int
	out          io.Writer
	logger       *log.Logger
	dim          lipgloss.Style
}

// NewInputHandler creates a handler that writes results to out.
// maxList caps :list output, zero means no cap.
func NewInputHandler(tok *tokenize.Tokenizer, renderer *Renderer, theme placement.Theme, maxList int, out io.Writer) *InputHandler {
	return &InputHandler{
		tokenizer: tok,
		renderer:  renderer,
		theme:     theme,
		maxList:   maxList,
		out:       out,
		logger:    logger.New("cli"),
		dim:       lipgloss.NewStyle().Faint(true),
	}
}

// Start runs the prompt loop until in is exhausted.
func (h *InputHandler) Start(in io.Reader) error {
	fmt.Fprintln(h.out, "glosstip CLI, type :help for commands (Ctrl+C to exit)")
	reader := bufio.NewReader(in)

	for {
		fmt.Fprint(h.out, "> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	if !strings.HasPrefix(line, ":") {
		h.render(line)
		return
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":list":
		prefix := ""
		if len(fields) > 1 {
			prefix = fields[1]
		}
		h.list(prefix)
	case ":stats":
		h.stats()
	case ":width":
		h.setWidth(fields[1:])
	case ":place":
		h.place(fields[1:])
	case ":help":
		fmt.Fprintln(h.out, helpText)
	default:
		h.logger.Errorf("Unknown command: %s", fields[0])
	}
}

func (h *InputHandler) render(line string) {
	start := time.Now()
	out, err := h.renderer.Render(line)
	if err != nil {
		h.logger.Errorf("Render failed: %v", err)
		return
	}
	h.logger.Debugf("Took [ %v ] for %d bytes", time.Since(start), len(line))
	fmt.Fprintln(h.out, out)
}

func (h *InputHandler) list(prefix string) {
	entries := h.tokenizer.Registry().Prefixed(prefix)
	if len(entries) == 0 {
		h.logger.Warnf("No entries found for prefix: '%s'", prefix)
		return
	}
	shown := entries
	if h.maxList > 0 && len(shown) > h.maxList {
		shown = shown[:h.maxList]
	}
	for i, e := range shown {
		fmt.Fprintf(h.out, "%2d. %-8s %s\n", i+1, e.Key, e.Description)
	}
	if len(shown) < len(entries) {
		fmt.Fprintln(h.out, h.dim.Render(fmt.Sprintf("... %d more", len(entries)-len(shown))))
	}
}

func (h *InputHandler) stats() {
	for _, row := range []struct {
		name  string
		stats func() string
	}{
		{"tokenizer", func() string { return formatStats(h.tokenizer.Stats()) }},
		{"renderer", func() string { return formatStats(h.renderer.Stats()) }},
	} {
		fmt.Fprintf(h.out, "%-10s %s\n", row.name, row.stats())
	}
	fmt.Fprintf(h.out, "%-10s %d entries, %d requests\n", "glossary", h.tokenizer.Registry().Len(), h.requestCount)
}

func (h *InputHandler) setWidth(args []string) {
	if len(args) != 1 {
		h.logger.Error("usage: :width N")
		return
	}
	w, err := strconv.Atoi(args[0])
	if err != nil || w < 0 {
		h.logger.Errorf("Invalid width: %s", args[0])
		return
	}
	h.renderer.SetWidth(w)
	fmt.Fprintf(h.out, "width set to %d\n", w)
}

func (h *InputHandler) place(args []string) {
	geom, measured, err := parsePlaceArgs(args)
	if err != nil {
		h.logger.Errorf("%v\nusage: :place vw vh ax ay aw ah sw sh [rtl]", err)
		return
	}
	layout, err := placement.NewLayout(geom, h.theme)
	if err != nil {
		h.logger.Errorf("Invalid geometry: %v", err)
		return
	}
	wc, err := layout.Constrain()
	if err != nil {
		h.logger.Errorf("Constrain failed: %v", err)
		return
	}
	measured.Width = wc.Clamp(measured.Width)
	p, err := layout.Place(measured)
	if err != nil {
		h.logger.Errorf("Place failed: %v", err)
		return
	}

	side := "below"
	if p.Above {
		side = "above"
	}
	fmt.Fprintf(h.out, "%s width [%g, %g] measured %gx%g\n", layout.Orientation(), wc.MinWidth, wc.MaxWidth, measured.Width, measured.Height)
	fmt.Fprintf(h.out, "offset (%g, %g) %s, surface at (%g, %g)\n",
		p.Offset.DX, p.Offset.DY, side,
		geom.Anchor.TopLeft.X+p.Offset.DX, geom.Anchor.TopLeft.Y+p.Offset.DY)
}

func parsePlaceArgs(args []string) (placement.Geometry, placement.Size, error) {
	if len(args) != 8 && len(args) != 9 {
		return placement.Geometry{}, placement.Size{}, fmt.Errorf("expected 8 numbers, got %d arguments", len(args))
	}
	nums := make([]float64, 8)
	for i := range nums {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return placement.Geometry{}, placement.Size{}, fmt.Errorf("argument %d: %w", i+1, err)
		}
		nums[i] = v
	}

	geom := placement.Geometry{
		Viewport: placement.Size{Width: nums[0], Height: nums[1]},
		Anchor: placement.Rect{
			TopLeft: placement.Point{X: nums[2], Y: nums[3]},
			Size:    placement.Size{Width: nums[4], Height: nums[5]},
		},
	}
	if len(args) == 9 {
		if args[8] != "rtl" {
			return placement.Geometry{}, placement.Size{}, fmt.Errorf("unknown direction %q", args[8])
		}
		geom.Direction = placement.RightToLeft
	}
	return geom, placement.Size{Width: nums[6], Height: nums[7]}, nil
}
