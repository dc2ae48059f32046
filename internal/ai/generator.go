package ai

import (
	"time"

	"github.com/rs/zerolog"
)

const systemPrompt = "You are a front-end web developer. You answer only with a JSON object containing the keys html, css and js."

// Orchestrator turns a selection into a generation result using one Backend.
type Orchestrator struct {
	backend Backend
	logger  zerolog.Logger
	now     func() time.Time
}

// NewOrchestrator wires an orchestrator to backend.
func NewOrchestrator(backend Backend, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		backend: backend,
		logger:  logger.With().Str("component", "orchestrator").Logger(),
		now:     time.Now,
	}
}

// Backend returns the configured provider.
func (o *Orchestrator) Backend() Backend {
	return o.backend
}
