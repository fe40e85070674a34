package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrBlocked means the model stopped without an answer, usually on a safety
// filter.
var ErrBlocked = errors.New("model reply blocked")

// Request is one prompt round trip.
type Request struct {
	Prompt string
	Tier   ModelTier
	// JSON asks for an application/json reply and strips markdown fences from it.
	JSON bool
}

// Client talks to a language model.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	// Model names the model a tier resolves to, or "" when none is configured.
	Model(tier ModelTier) string
	Close() error
}

// NewClient builds the client for config.Provider. A nil config means
// DefaultConfig.
func NewClient(ctx context.Context, config *Config, apiKey string, logger *slog.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey, logger)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}

// GeminiClient is a Client on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	config *Config
	logger *slog.Logger
}

// NewGeminiClient opens a Gemini client authenticated with apiKey.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, logger *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config, logger: logger}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	name := c.config.GetModel(req.Tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}
	model := c.client.GenerativeModel(name)
	model.SetTemperature(c.config.Temperature)
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if u := resp.UsageMetadata; u != nil {
		c.logger.Debug("llm: usage", "model", name, "prompt_tokens", u.PromptTokenCount, "reply_tokens", u.CandidatesTokenCount)
	}

	text, err := replyText(resp)
	if err != nil {
		return "", err
	}
	if req.JSON {
		text = CleanJSONBlock(text)
	}
	return text, nil
}

func (c *GeminiClient) Model(tier ModelTier) string {
	return c.config.GetModel(tier)
}

func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// replyText joins the text parts of the first candidate.
func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("%w: prompt %s", ErrBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no candidates in response")
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: %s", ErrBlocked, cand.FinishReason)
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return b.String(), nil
}
