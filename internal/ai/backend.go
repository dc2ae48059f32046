package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"template_builder/config"
)

// Backend is a text generation provider.
type Backend interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is one prompt plus the sampling settings to use.
type CompletionRequest struct {
	System string
	Prompt string
	Config GenerationConfig
}

// SafetyRule blocks a harm category at or above a threshold. Names use the
// Gemini API vocabulary.
type SafetyRule struct {
	Category  string
	Threshold string
}

// GenerationConfig holds the sampling and output settings for a completion.
type GenerationConfig struct {
	Temperature      float32
	TopP             float32
	TopK             float32
	MaxOutputTokens  int32
	ResponseMIMEType string
	Safety           []SafetyRule
}

// DefaultGenerationConfig favors consistent code over creative output.
func DefaultGenerationConfig() GenerationConfig {
	threshold := string(genai.HarmBlockThresholdBlockMediumAndAbove)
	return GenerationConfig{
		Temperature:      0.4,
		TopP:             0.8,
		TopK:             32,
		MaxOutputTokens:  16384,
		ResponseMIMEType: "application/json",
		Safety: []SafetyRule{
			{Category: string(genai.HarmCategoryHarassment), Threshold: threshold},
			{Category: string(genai.HarmCategoryHateSpeech), Threshold: threshold},
			{Category: string(genai.HarmCategorySexuallyExplicit), Threshold: threshold},
			{Category: string(genai.HarmCategoryDangerousContent), Threshold: threshold},
		},
	}
}

// Provider names accepted by NewBackend.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewBackend builds the backend selected by cfg.AIProvider. A missing API key
// is not an error here; the backend reports ErrAPIKeyRequired on first use.
func NewBackend(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Backend, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case ProviderGemini, "":
		return NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	case ProviderOpenAI:
		var clientConfig *openai.ClientConfig
		if cfg.OpenAIKey != "" {
			c := openai.DefaultConfig(cfg.OpenAIKey)
			clientConfig = &c
		}
		return NewOpenAIBackend(clientConfig, cfg.OpenAIModel, logger), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}
