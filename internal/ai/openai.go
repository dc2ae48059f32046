package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT4o

// OpenAIBackend generates completions with the chat completions API.
type OpenAIBackend struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewOpenAIBackend creates the backend from a client config. A nil config
// yields a backend whose Complete fails with ErrAPIKeyRequired.
func NewOpenAIBackend(clientConfig *openai.ClientConfig, model string, logger zerolog.Logger) *OpenAIBackend {
	if model == "" {
		model = DefaultOpenAIModel
	}
	b := &OpenAIBackend{
		model:  model,
		logger: logger.With().Str("component", "openai").Logger(),
	}
	if clientConfig == nil {
		b.logger.Warn().Msg("OPENAI_API_KEY is not set, generation requests will fail")
		return b
	}
	b.client = openai.NewClientWithConfig(*clientConfig)
	return b
}

func (b *OpenAIBackend) Name() string  { return ProviderOpenAI }
func (b *OpenAIBackend) Model() string { return b.model }

// Complete runs a single chat completion. Top-k and safety rules have no
// chat completion equivalent and are not sent.
func (b *OpenAIBackend) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if b.client == nil {
		return "", ErrAPIKeyRequired
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	chatReq := openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    messages,
		Temperature: req.Config.Temperature,
		TopP:        req.Config.TopP,
		MaxTokens:   int(req.Config.MaxOutputTokens),
	}
	if req.Config.ResponseMIMEType == "application/json" {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	if len(req.Config.Safety) > 0 {
		b.logger.Debug().Int("rules", len(req.Config.Safety)).Msg("safety rules are not supported by chat completions, ignoring")
	}

	resp, err := b.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", fmt.Errorf("%w: finish reason %s", ErrContentBlocked, choice.FinishReason)
	}
	b.logger.Debug().
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Str("finish_reason", string(choice.FinishReason)).
		Msg("openai usage")
	return choice.Message.Content, nil
}
