package ai

import (
	"context"

	"template_builder/internal/ai/prompts"
	"template_builder/internal/types"
)

// Submit validates sel, asks the backend for a bundle exactly once and
// returns the result. Unusable replies produce a degraded result, not an error.
func (o *Orchestrator) Submit(ctx context.Context, sel types.Selection) (*types.GenerationResult, error) {
	if missing := sel.MissingRequired(); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	logger := o.logger.With().
		Str("provider", o.backend.Name()).
		Str("model", o.backend.Model()).
		Logger()

	instruction := prompts.GenerationInstruction(sel)
	result := &types.GenerationResult{
		Prompts:  prompts.Render(sel),
		Provider: o.backend.Name(),
		Model:    o.backend.Model(),
	}

	start := o.now()
	logger.Debug().Int("prompt_bytes", len(instruction)).Bool("logo", sel.Logo != nil).Msg("requesting template")

	raw, err := o.backend.Complete(ctx, CompletionRequest{
		System: systemPrompt,
		Prompt: instruction,
		Config: DefaultGenerationConfig(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("template generation failed")
		return nil, &ServiceError{Provider: o.backend.Name(), Err: err}
	}

	bundle, err := ParseBundle(raw)
	if err != nil {
		logger.Warn().Err(err).Int("reply_bytes", len(raw)).Msg("model reply unusable, returning degraded template")
		bundle = DegradedBundle(err.Error())
		result.Degraded = true
		result.DegradedReason = err.Error()
	}
	result.Template = bundle
	result.GeneratedAt = o.now().UTC()

	logger.Info().
		Dur("elapsed", result.GeneratedAt.Sub(start)).
		Bool("degraded", result.Degraded).
		Msg("template generated")
	return result, nil
}
