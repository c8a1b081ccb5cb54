/*
Package server implements msgpack IPC for acronym tokenizing and tooltip placement.

Clients write a stream of msgpack encoded requests to stdin and read one
msgpack response per request from stdout. Every request carries an ID that is
echoed back and an action selecting the operation:

	{"id": "r1", "action": "tokenize", "t": "The (API) uses JSON."}

The server answers with the ordered token stream. Acronym tokens carry the
canonical key and description, every token carries its source span:

	{"id": "r1", "tok": [{"k": 0, "t": "The "}, {"k": 1, "t": "(API)", "a": "API", "d": "..."}], "c": 4, "us": 12}

Tooltip placement follows the two-phase layout protocol. The host first asks
for width constraints, lays the tooltip out, then asks for its position:

	{"id": "r2", "action": "constrain", "g": {"vp": {"w": 360, "h": 640}, "anchor": {...}}}
	{"id": "r3", "action": "place", "g": {...}, "m": {"w": 220, "h": 90}}

Other actions: "lookup" (k), "suggest" (p, l), "config" (bare, min, max),
"health" and "stats". Failures return ErrorResponse with code 400 for invalid
input, 404 for unknown actions and 500 for internal errors.

Messages are processed synchronously in arrival order.
*/
package server

import (
	"github.com/bastiangx/glosstip/pkg/cache"
	"github.com/bastiangx/glosstip/pkg/placement"
	"github.com/bastiangx/glosstip/pkg/registry"
	"github.com/bastiangx/glosstip/pkg/tokenize"
)

// Action names accepted in Request.Action.
const (
	ActionTokenize  = "tokenize"
	ActionLookup    = "lookup"
	ActionSuggest   = "suggest"
	ActionConstrain = "constrain"
	ActionPlace     = "place"
	ActionConfig    = "config"
	ActionHealth    = "health"
	ActionStats     = "stats"
)

// Request is the single envelope for every action. Fields unused by an action are ignored.
type Request struct {
	ID       string              `msgpack:"id"`
	Action   string              `msgpack:"action"`
	Text     string              `msgpack:"t,omitempty"`
	Key      string              `msgpack:"k,omitempty"`
	Prefix   string              `msgpack:"p,omitempty"`
	Limit    int                 `msgpack:"l,omitempty"`
	Geometry *placement.Geometry `msgpack:"g,omitempty"`
	Measured *placement.Size     `msgpack:"m,omitempty"`
	Bare     *bool               `msgpack:"bare,omitempty"`
	MinLen   *int                `msgpack:"min,omitempty"`
	MaxLen   *int                `msgpack:"max,omitempty"`
}

// TokenizeResponse - ordered tokens for a text
type TokenizeResponse struct {
	ID        string           `msgpack:"id"`
	Tokens    []tokenize.Token `msgpack:"tok"`
	Count     int              `msgpack:"c"`
	TimeTaken int64            `msgpack:"us"`
}

// LookupResponse - single registry lookup
type LookupResponse struct {
	ID          string `msgpack:"id"`
	Key         string `msgpack:"k"`
	Found       bool   `msgpack:"f"`
	Description string `msgpack:"d,omitempty"`
}

// SuggestResponse - registry entries sharing a prefix
type SuggestResponse struct {
	ID      string           `msgpack:"id"`
	Entries []registry.Entry `msgpack:"s"`
	Count   int              `msgpack:"c"`
}

// ConstrainResponse - width bounds for the unmeasured tooltip
type ConstrainResponse struct {
	ID          string                     `msgpack:"id"`
	Constraints placement.WidthConstraints `msgpack:"w"`
	Orientation string                     `msgpack:"o"`
}

// PlaceResponse - resolved tooltip position
type PlaceResponse struct {
	ID        string              `msgpack:"id"`
	Placement placement.Placement `msgpack:"pl"`
}

// ConfigResponse - active match settings after a config request
type ConfigResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Bare   bool   `msgpack:"bare"`
	MinLen int    `msgpack:"min"`
	MaxLen int    `msgpack:"max"`
}

// StatsResponse - tokenizer cache and registry counters
type StatsResponse struct {
	ID       string      `msgpack:"id"`
	Cache    cache.Stats `msgpack:"cache"`
	Entries  int         `msgpack:"n"`
	Requests int         `msgpack:"r"`
}

// StatusResponse - ready and health signals
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for any failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
