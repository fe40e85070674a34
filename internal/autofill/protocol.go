package autofill

import (
	"context"

	"github.com/jonathan/hired-always/internal/form"
)

// Message types accepted by HandleMessage.
const (
	TypePing        = "PING"
	TypeAutofillNow = "AUTOFILL_NOW"
)

// Message asks for a liveness check or an immediate fill.
type Message struct {
	Type string  `json:"type"`
	Opts Options `json:"opts"`
}

// Options tunes one fill pass.
type Options struct {
	UseAI bool `json:"useAI"`
}

// Response acknowledges a Message.
type Response struct {
	OK     bool     `json:"ok"`
	Filled int      `json:"filled"`
	Logs   []string `json:"logs,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// PageInfo identifies the page being filled.
type PageInfo struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// SolveRequest is what the AI solver is given.
type SolveRequest struct {
	Page    PageInfo          `json:"page"`
	Profile map[string]string `json:"profile"`
	Fields  []form.Field      `json:"fields"`
}

// Answer is one solver answer. Value is a string, boolean or number.
type Answer struct {
	FieldID string `json:"fieldId"`
	Value   any    `json:"value"`
}

// SolveResult carries the solver's answers.
type SolveResult struct {
	Answers []Answer `json:"answers"`
}

// SolveResponse is the solver's reply. A reply with OK unset carries no answers.
type SolveResponse struct {
	OK     bool         `json:"ok"`
	Result *SolveResult `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Solver answers fields from the profile and page context.
type Solver interface {
	Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error)
}

// ProfileStore reads applicant profile keys. An empty keys slice asks for
// every key.
type ProfileStore interface {
	Get(ctx context.Context, keys []string) (map[string]string, error)
}

// Page is a page the pipeline can snapshot and write to.
type Page interface {
	form.Page
	Snapshot(ctx context.Context) (*form.Snapshot, error)
}
