package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"caseforge.app/caseforge/core/config"
)

// systemPrompt is the fixed system role for every generation request.
const systemPrompt = "You are a QA expert generating test cases."

// userPromptTemplate fixes the requested shape of the completion.
const userPromptTemplate = "Generate 5 functional, 3 negative, and 2 edge test cases for this user story: %s"

// transportRetries is the bounded retry count for transient upstream
// failures. Retrying beyond the transport is a caller policy decision.
const transportRetries = 2

// Sampling holds the sampling parameters for a completion request. The
// zero value is not useful; use DefaultSampling or values from config.
type Sampling struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

func DefaultSampling() Sampling {
	return Sampling{Temperature: 0.7, TopP: 0.9, MaxTokens: 500}
}

// Request is one completion call. UserStory is interpolated into the fixed
// prompt template.
type Request struct {
	UserStory string
	Sampling  Sampling
}

// Client generates test-case text from a user story.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}

type client struct {
	openai   openai.Client
	model    string
	sampling Sampling
}

// New creates a completion client against an OpenAI-compatible endpoint.
func New(cfg config.CompletionConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(transportRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	sampling := DefaultSampling()
	if cfg.MaxTokens > 0 {
		sampling.MaxTokens = cfg.MaxTokens
	}
	if cfg.Temperature > 0 {
		sampling.Temperature = cfg.Temperature
	}
	if cfg.TopP > 0 {
		sampling.TopP = cfg.TopP
	}

	return &client{
		openai:   openai.NewClient(opts...),
		model:    cfg.Model,
		sampling: sampling,
	}, nil
}

func (c *client) Complete(ctx context.Context, req Request) (string, error) {
	sampling := req.Sampling
	if sampling == (Sampling{}) {
		sampling = c.sampling
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf(userPromptTemplate, req.UserStory)),
		},
		MaxTokens:   openai.Int(int64(sampling.MaxTokens)),
		Temperature: openai.Float(sampling.Temperature),
		TopP:        openai.Float(sampling.TopP),
	}

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &CompletionError{StatusCode: apiErr.StatusCode, Body: apiErr.Message}
		}
		return "", fmt.Errorf("completion request: %w", err)
	}

	slog.DebugContext(ctx, "completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", &CompletionError{StatusCode: 0, Body: "no choices in response"}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *client) Model() string {
	return c.model
}
