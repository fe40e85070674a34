package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jonathan/hired-always/internal/autofill"
	"github.com/jonathan/hired-always/internal/prompts"
	"github.com/jonathan/hired-always/internal/schemas"
)

// Solver answers form fields with a language model.
type Solver struct {
	client Client
	tier   ModelTier
	logger *slog.Logger
}

var _ autofill.Solver = (*Solver)(nil)

// NewSolver returns a Solver using the lite tier of client.
func NewSolver(client Client, logger *slog.Logger) *Solver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver{client: client, tier: TierLite, logger: logger}
}

// BuildSolvePrompt renders the prompt for req.
func BuildSolvePrompt(req autofill.SolveRequest) (string, error) {
	if req.Profile == nil {
		req.Profile = map[string]string{}
	}
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode solve request: %w", err)
	}
	template, err := prompts.Get("autofill.json", "solve-fields")
	if err != nil {
		return "", err
	}
	return prompts.Format(template, map[string]string{"Input": string(payload)}), nil
}

// Solve asks the model for answers. A transport failure is returned as an
// error; a reply that does not match the answer schema is an unsuccessful
// response.
func (s *Solver) Solve(ctx context.Context, req autofill.SolveRequest) (*autofill.SolveResponse, error) {
	prompt, err := BuildSolvePrompt(req)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("llm: solving fields", "fields", len(req.Fields), "model", s.client.Model(s.tier))

	text, err := s.client.Generate(ctx, Request{Prompt: prompt, Tier: s.tier, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("solve fields: %w", err)
	}
	text = CleanJSONBlock(text)

	if err := schemas.Validate(schemas.Answers, []byte(text)); err != nil {
		s.logger.Warn("llm: rejected solver reply", "error", err)
		return &autofill.SolveResponse{OK: false, Error: fmt.Sprintf("invalid solver reply: %v", err)}, nil
	}
	var result autofill.SolveResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return &autofill.SolveResponse{OK: false, Error: fmt.Sprintf("decode solver reply: %v", err)}, nil
	}
	s.logger.Debug("llm: solved fields", "answers", len(result.Answers))
	return &autofill.SolveResponse{OK: true, Result: &result}, nil
}
