package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-1.5-flash-latest"

// GeminiBackend generates completions with the Gemini API.
type GeminiBackend struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

// NewGeminiBackend creates a Gemini client. With an empty apiKey the backend is
// still returned but every Complete call fails with ErrAPIKeyRequired.
func NewGeminiBackend(ctx context.Context, apiKey, model string, logger zerolog.Logger) (*GeminiBackend, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	b := &GeminiBackend{
		model:  model,
		logger: logger.With().Str("component", "gemini").Logger(),
	}
	if apiKey == "" {
		b.logger.Warn().Msg("GEMINI_API_KEY is not set, generation requests will fail")
		return b, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	b.client = client
	return b, nil
}

func (b *GeminiBackend) Name() string  { return ProviderGemini }
func (b *GeminiBackend) Model() string { return b.model }

// Complete sends one prompt and returns the concatenated text of the first candidate.
func (b *GeminiBackend) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if b.client == nil {
		return "", ErrAPIKeyRequired
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(req.Prompt), geminiConfig(req))
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		b.logger.Warn().Str("block_reason", string(resp.PromptFeedback.BlockReason)).Msg("prompt blocked")
		return "", fmt.Errorf("%w: %s", ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: candidate stopped for safety", ErrContentBlocked)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if resp.UsageMetadata != nil {
		b.logger.Debug().
			Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount).
			Int32("output_tokens", resp.UsageMetadata.CandidatesTokenCount).
			Str("finish_reason", string(candidate.FinishReason)).
			Msg("gemini usage")
	}
	return sb.String(), nil
}

func geminiConfig(req CompletionRequest) *genai.GenerateContentConfig {
	cfg := req.Config
	gc := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(cfg.Temperature),
		TopP:             genai.Ptr(cfg.TopP),
		TopK:             genai.Ptr(cfg.TopK),
		MaxOutputTokens:  cfg.MaxOutputTokens,
		ResponseMIMEType: cfg.ResponseMIMEType,
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	for _, rule := range cfg.Safety {
		gc.SafetySettings = append(gc.SafetySettings, &genai.SafetySetting{
			Category:  genai.HarmCategory(rule.Category),
			Threshold: genai.HarmBlockThreshold(rule.Threshold),
		})
	}
	return gc
}
