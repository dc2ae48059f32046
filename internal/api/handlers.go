package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"template_builder/internal/ai"
	"template_builder/internal/export"
	"template_builder/internal/session"
	"template_builder/internal/types"
	"template_builder/internal/wizard"
)

// Generator produces a template for a selection. *ai.Orchestrator implements it.
type Generator interface {
	Submit(ctx context.Context, sel types.Selection) (*types.GenerationResult, error)
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator    Generator
	sessions     *session.Store
	maxLogoBytes int64
	logger       zerolog.Logger
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(generator Generator, sessions *session.Store, maxLogoBytes int64, logger zerolog.Logger) *APIHandler {
	if maxLogoBytes <= 0 {
		maxLogoBytes = wizard.DefaultMaxLogoBytes
	}
	return &APIHandler{
		generator:    generator,
		sessions:     sessions,
		maxLogoBytes: maxLogoBytes,
		logger:       logger.With().Str("component", "api").Logger(),
	}
}

// --- Structs for API Requests/Responses ---

// GenerateTemplateResponse is the body of a successful stateless generation.
type GenerateTemplateResponse struct {
	Template       *types.CodeBundle       `json:"template"`
	Prompts        []types.GeneratedPrompt `json:"prompts,omitempty"`
	Degraded       bool                    `json:"degraded,omitempty"`
	DegradedReason string                  `json:"degradedReason,omitempty"`
}

// ExportRequest carries a bundle to download as a zip.
type ExportRequest struct {
	Template  *types.CodeBundle     `json:"template" binding:"required"`
	Selection types.SelectionUpdate `json:"selection"`
}

type logoPreviewField struct {
	LogoPreview string `json:"logoPreview"`
}

// --- API Handlers ---

// POST /api/generate-template
func (h *APIHandler) GenerateTemplate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var update types.SelectionUpdate
	var extra logoPreviewField
	if err := json.Unmarshal(body, &update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := json.Unmarshal(body, &extra); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var sel types.Selection
	update.Apply(&sel)
	if extra.LogoPreview != "" {
		logo, err := h.decodeLogoPreview(extra.LogoPreview)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": logoMessage(err)})
			return
		}
		sel.Logo = logo
	}

	result, err := h.generator.Submit(c.Request.Context(), sel)
	if err != nil {
		h.writeGenerateError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, GenerateTemplateResponse{
		Template:       result.Template,
		Prompts:        result.Prompts,
		Degraded:       result.Degraded,
		DegradedReason: result.DegradedReason,
	})
}

// MethodNotAllowed answers non-POST requests to POST-only endpoints.
func (h *APIHandler) MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "This endpoint only accepts POST"})
}

// POST /api/export
func (h *APIHandler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	var sel types.Selection
	req.Selection.Apply(&sel)
	h.writeArchive(c, req.Template, sel)
}

// writeGenerateError maps Submit failures to responses. serviceStatus is used
// for provider failures.
func (h *APIHandler) writeGenerateError(c *gin.Context, err error, serviceStatus int) {
	var validationErr *ai.ValidationError
	var serviceErr *ai.ServiceError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required data", "fields": validationErr.Fields})
	case errors.As(err, &serviceErr):
		h.logger.Error().Err(err).Str("provider", serviceErr.Provider).Msg("generation failed")
		c.JSON(serviceStatus, gin.H{"error": serviceErr.UserMessage(), "retryable": serviceErr.Retryable()})
	default:
		h.logger.Error().Err(err).Msg("unexpected generation error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

func (h *APIHandler) writeArchive(c *gin.Context, bundle *types.CodeBundle, sel types.Selection) {
	data, err := export.Archive(bundle, sel)
	if err != nil {
		if errors.Is(err, export.ErrNoBundle) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No generated template to export"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to build archive")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build archive"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(sel.Description)))
	c.Data(http.StatusOK, "application/zip", data)
}

// decodeLogoPreview accepts a base64 data URI as sent by browser file readers.
func (h *APIHandler) decodeLogoPreview(uri string) (*types.Logo, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasPrefix(uri, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, &wizard.LogoError{Filename: "logo", Message: "Logo must be a base64 data URI", Err: wizard.ErrLogoType}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &wizard.LogoError{Filename: "logo", Message: "Logo data is not valid base64", Err: err}
	}
	return wizard.DecodeLogo("logo", data, h.maxLogoBytes)
}

func logoMessage(err error) string {
	var logoErr *wizard.LogoError
	if errors.As(err, &logoErr) && logoErr.Message != "" {
		return logoErr.Message
	}
	return "Could not read the uploaded logo"
}
