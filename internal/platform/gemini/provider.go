package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/taskpilot-api/internal/generation"
	"github.com/phrazzld/taskpilot-api/internal/platform/logger"
	"google.golang.org/genai"
)

// ProviderName identifies this backend in logs and errors.
const ProviderName = "gemini"

// Config holds the settings needed to talk to Gemini.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	// JSONResponses asks the model for application/json output.
	JSONResponses bool
}

// contentGenerator is the subset of *genai.Models used by the provider.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Provider implements generation.Provider using the Gemini API.
type Provider struct {
	models contentGenerator
	cfg    Config
	logger *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Gemini client for cfg.
func NewProvider(ctx context.Context, cfg Config, log *slog.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newProvider(client.Models, cfg, log)
}

func newProvider(models contentGenerator, cfg Config, log *slog.Logger) (*Provider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Provider{
		models: models,
		cfg:    cfg,
		logger: log.With(slog.String("component", "gemini_provider")),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Generate implements generation.Provider.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	temperature := p.cfg.Temperature
	genCfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if p.cfg.JSONResponses {
		genCfg.ResponseMIMEType = "application/json"
	}

	log.Debug("calling gemini",
		slog.String("model", p.cfg.Model),
		slog.Int("prompt_length", len(prompt)))

	resp, err := p.models.GenerateContent(ctx, p.cfg.Model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", generation.NewProviderError(ProviderName, "generate", generation.ErrProviderFailure, err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", generation.NewProviderError(ProviderName, "generate", generation.ErrProviderFailure, err)
	}
	return text, nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("empty response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("response has no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("response blocked by safety filters")
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("candidate has no content")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("response contained no text")
	}
	return sb.String(), nil
}
