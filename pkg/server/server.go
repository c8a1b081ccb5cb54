package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/glosstip/internal/logger"
	"github.com/bastiangx/glosstip/pkg/config"
	"github.com/bastiangx/glosstip/pkg/errs"
	"github.com/bastiangx/glosstip/pkg/placement"
	"github.com/bastiangx/glosstip/pkg/tokenize"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the msgpack IPC for tokenizing and placement
type Server struct {
	tokenizer    *tokenize.Tokenizer
	cfg          *config.Config
	configPath   string
	match        tokenize.MatchConfig
	theme        placement.Theme
	reader       io.Reader
	writer       io.Writer
	enc          *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// NewServer creates a server on stdin/stdout. configPath receives config
// updates; leave it empty to keep updates in memory.
func NewServer(tokenizer *tokenize.Tokenizer, cfg *config.Config, configPath string) (*Server, error) {
	match, err := cfg.MatchConfig()
	if err != nil {
		return nil, err
	}
	return &Server{
		tokenizer:  tokenizer,
		cfg:        cfg,
		configPath: configPath,
		match:      match,
		theme:      cfg.PlacementTheme(),
		reader:     os.Stdin,
		writer:     os.Stdout,
		logger:     logger.New("server"),
	}, nil
}

// SetIO swaps the request and response streams.
func (s *Server) SetIO(r io.Reader, w io.Writer) {
	s.reader = r
	s.writer = w
}

// Start signals readiness, then serves requests until the input stream ends.
// A request that cannot be decoded ends the session since the stream can no
// longer be framed.
func (s *Server) Start() error {
	s.logger.Debug("Starting server")
	dec := msgpack.NewDecoder(bufio.NewReader(s.reader))
	s.enc = msgpack.NewEncoder(s.writer)

	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Client closed the stream")
				return nil
			}
			s.logger.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return err
		}
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	s.requestCount++
	s.logger.Debugf("Request %q action=%s", req.ID, req.Action)

	switch req.Action {
	case ActionTokenize:
		s.handleTokenize(req)
	case ActionLookup:
		s.handleLookup(req)
	case ActionSuggest:
		s.handleSuggest(req)
	case ActionConstrain:
		s.handleConstrain(req)
	case ActionPlace:
		s.handlePlace(req)
	case ActionConfig:
		s.handleConfig(req)
	case ActionStats:
		s.sendResponse(StatsResponse{
			ID:       req.ID,
			Cache:    s.tokenizer.Stats(),
			Entries:  s.tokenizer.Registry().Len(),
			Requests: s.requestCount,
		})
	case ActionHealth:
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %q", req.Action), 404)
	}
}

func (s *Server) sendResponse(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}

// sendFailure maps configuration errors to 400 and anything else to 500.
func (s *Server) sendFailure(id string, err error) {
	code := 500
	if errs.IsConfiguration(err) {
		code = 400
	}
	s.sendError(id, err.Error(), code)
}

func (s *Server) handleTokenize(req Request) {
	if limit := s.cfg.Server.MaxTextLen; limit > 0 && len(req.Text) > limit {
		s.sendError(req.ID, fmt.Sprintf("text exceeds maximum length of %d bytes", limit), 400)
		return
	}

	start := time.Now()
	tokens, err := s.tokenizer.Tokenize(req.Text, s.match)
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	elapsed := time.Since(start)
	s.logger.Debugf("Tokenized %d bytes into %d tokens in %v", len(req.Text), len(tokens), elapsed)

	s.sendResponse(TokenizeResponse{
		ID:        req.ID,
		Tokens:    tokens,
		Count:     len(tokens),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleLookup(req Request) {
	if req.Key == "" {
		s.sendError(req.ID, "missing 'k' parameter", 400)
		return
	}
	desc, ok := s.tokenizer.Registry().Describe(req.Key)
	s.sendResponse(LookupResponse{ID: req.ID, Key: req.Key, Found: ok, Description: desc})
}

func (s *Server) handleSuggest(req Request) {
	limit := s.cfg.Server.MaxSuggestions
	if req.Limit > 0 && (limit <= 0 || req.Limit < limit) {
		limit = req.Limit
	}

	entries := s.tokenizer.Registry().Prefixed(req.Prefix)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	s.sendResponse(SuggestResponse{ID: req.ID, Entries: entries, Count: len(entries)})
}

func (s *Server) layout(req Request) (*placement.Layout, bool) {
	if req.Geometry == nil {
		s.sendError(req.ID, "missing 'g' parameter", 400)
		return nil, false
	}
	l, err := placement.NewLayout(*req.Geometry, s.theme)
	if err != nil {
		s.sendFailure(req.ID, err)
		return nil, false
	}
	return l, true
}

func (s *Server) handleConstrain(req Request) {
	l, ok := s.layout(req)
	if !ok {
		return
	}
	wc, err := l.Constrain()
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	s.sendResponse(ConstrainResponse{ID: req.ID, Constraints: wc, Orientation: l.Orientation().String()})
}

func (s *Server) handlePlace(req Request) {
	if req.Measured == nil {
		s.sendError(req.ID, "missing 'm' parameter", 400)
		return
	}
	l, ok := s.layout(req)
	if !ok {
		return
	}
	p, err := l.Place(*req.Measured)
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	s.sendResponse(PlaceResponse{ID: req.ID, Placement: p})
}

func (s *Server) handleConfig(req Request) {
	if err := s.cfg.Update(s.configPath, req.Bare, req.MinLen, req.MaxLen); err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	match, err := s.cfg.MatchConfig()
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	s.match = match
	s.logger.Debugf("Match config updated: bare=%v min=%d max=%d", match.EnableBareAcronyms, match.MinLen, match.MaxLen)

	s.sendResponse(ConfigResponse{
		ID:     req.ID,
		Status: "ok",
		Bare:   match.EnableBareAcronyms,
		MinLen: match.MinLen,
		MaxLen: match.MaxLen,
	})
}
