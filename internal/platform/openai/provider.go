package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskpilot-api/internal/generation"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	goopenai "github.com/sashabaranov/go-openai"
)

// ProviderName identifies this backend in logs and errors.
const ProviderName = "openai"

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds the settings needed to talk to a chat-completions endpoint.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	// JSONResponses requests response_format json_object.
	JSONResponses bool
}

// chatCompleter is the subset of *goopenai.Client used by the provider.
type chatCompleter interface {
	CreateChatCompletion(
		ctx context.Context,
		request goopenai.ChatCompletionRequest,
	) (goopenai.ChatCompletionResponse, error)
}

// Provider implements generation.Provider on top of the go-openai client.
type Provider struct {
	cfg    Config
	client chatCompleter
	logger *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Provider. A nil client uses http.DefaultClient; the
// deadline comes from the request context.
func NewProvider(cfg Config, client *http.Client, log *slog.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = client

	return &Provider{
		cfg:    cfg,
		client: goopenai.NewClientWithConfig(clientCfg),
		logger: log.With(slog.String("component", "openai_provider")),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Generate implements generation.Provider.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	req := goopenai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.cfg.Temperature,
	}
	if p.cfg.JSONResponses {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	log.Debug("calling openai",
		slog.String("model", p.cfg.Model),
		slog.Int("prompt_length", len(prompt)))

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			log.Warn("openai rejected request",
				slog.Int("status", apiErr.HTTPStatusCode),
				slog.String("type", apiErr.Type))
		}
		return "", p.failure(err)
	}

	if len(resp.Choices) == 0 {
		return "", p.failure(errors.New("response has no choices"))
	}

	choice := resp.Choices[0]
	if choice.FinishReason == goopenai.FinishReasonContentFilter {
		return "", p.failure(errors.New("response blocked by content filter"))
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", p.failure(errors.New("response contained no text"))
	}

	return choice.Message.Content, nil
}

func (p *Provider) failure(err error) error {
	return generation.NewProviderError(ProviderName, "generate", generation.ErrProviderFailure, err)
}
