package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"template_builder/internal/ai/prompts"
	"template_builder/internal/preview"
	"template_builder/internal/session"
	"template_builder/internal/types"
	"template_builder/internal/wizard"
)

// SessionResponse is the public view of a wizard session.
type SessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Help      string    `json:"help"`
	wizard.State
}

// JumpRequest selects a previously visited step.
type JumpRequest struct {
	Index *int `json:"index" binding:"required"`
}

// PromptsResponse lists the prompt variants for the current selection.
type PromptsResponse struct {
	WebsiteType string                  `json:"websiteType"`
	LayoutStyle string                  `json:"layoutStyle"`
	Prompts     []types.GeneratedPrompt `json:"prompts"`
}

func sessionView(sess *session.Session) SessionResponse {
	state := sess.Controller.Snapshot()
	step := wizard.StepFor(state.CurrentStep)
	return SessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		Title:     step.Title(),
		Help:      step.Help(),
		State:     state,
	}
}

// loadSession resolves :id or answers 404.
func (h *APIHandler) loadSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return sess, true
}

// POST /sessions
func (h *APIHandler) CreateSession(c *gin.Context) {
	sess := h.sessions.Create()
	c.JSON(http.StatusCreated, sessionView(sess))
}

// GET /sessions/:id
func (h *APIHandler) GetSession(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// DELETE /sessions/:id
func (h *APIHandler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /sessions/:id/advance
func (h *APIHandler) Advance(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	ctrl := sess.Controller
	if err := wizard.StepFor(ctrl.CurrentStep()).Validate(ctrl.Selection()); err != nil {
		var stepErr *wizard.StepError
		if errors.As(err, &stepErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": stepErr.Message, "field": stepErr.Field})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	ctrl.Advance()
	c.JSON(http.StatusOK, sessionView(sess))
}

// POST /sessions/:id/retreat
func (h *APIHandler) Retreat(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	sess.Controller.Retreat()
	c.JSON(http.StatusOK, sessionView(sess))
}

// POST /sessions/:id/jump
func (h *APIHandler) Jump(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	var req JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	switch err := sess.Controller.JumpTo(*req.Index); {
	case err == nil:
		c.JSON(http.StatusOK, sessionView(sess))
	case errors.Is(err, wizard.ErrJumpDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrStepOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}

// PATCH /sessions/:id/selection
func (h *APIHandler) UpdateSelection(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	var update types.SelectionUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	sess.Controller.UpdateField(update)
	c.JSON(http.StatusOK, sessionView(sess))
}

// POST /sessions/:id/reset
func (h *APIHandler) Reset(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	sess.Controller.Reset()
	c.JSON(http.StatusOK, sessionView(sess))
}

// POST /sessions/:id/logo (multipart field "logo")
func (h *APIHandler) UploadLogo(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	ctrl := sess.Controller

	// Leave room for multipart framing around the file itself.
	limit := h.maxLogoBytes + 1<<20
	if c.Request.ContentLength > limit {
		h.rejectOversizeLogo(c, sess)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectOversizeLogo(c, sess)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Multipart field 'logo' is required"})
		return
	}
	defer file.Close()

	ticket := ctrl.BeginLogo()
	logo, err := wizard.ReadLogo(header.Filename, file, h.maxLogoBytes)
	if err != nil {
		ctrl.CompleteLogo(ticket, nil)
		h.logger.Info().Err(err).Str("session_id", sess.ID).Str("filename", header.Filename).Msg("logo rejected")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": logoMessage(err)})
		return
	}
	if !ctrl.CompleteLogo(ticket, logo) {
		c.JSON(http.StatusConflict, gin.H{"error": "A newer logo upload replaced this one"})
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

// rejectOversizeLogo answers an upload whose body exceeded the limit before
// the file could be read. Like any rejected upload it clears the logo.
func (h *APIHandler) rejectOversizeLogo(c *gin.Context, sess *session.Session) {
	ctrl := sess.Controller
	ctrl.CompleteLogo(ctrl.BeginLogo(), nil)
	h.logger.Info().Str("session_id", sess.ID).Int64("content_length", c.Request.ContentLength).Msg("logo rejected, body too large")
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": wizard.TooLargeLogo("", h.maxLogoBytes).Message})
}

// DELETE /sessions/:id/logo
func (h *APIHandler) DeleteLogo(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	sess.Controller.ClearLogo()
	c.JSON(http.StatusOK, sessionView(sess))
}

// GET /sessions/:id/prompts
func (h *APIHandler) Prompts(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	sel := sess.Controller.Selection()
	c.JSON(http.StatusOK, PromptsResponse{
		WebsiteType: prompts.ClassifyWebsite(sel.Description),
		LayoutStyle: prompts.LayoutStyle(sel.BaseDesign),
		Prompts:     prompts.Render(sel),
	})
}

// POST /sessions/:id/generate
func (h *APIHandler) Generate(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	ctrl := sess.Controller

	ticket, err := ctrl.BeginGeneration()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A generation is already in progress"})
		return
	}

	result, err := h.generator.Submit(c.Request.Context(), ctrl.Selection())
	if err != nil {
		ctrl.AbortGeneration(ticket)
		h.writeGenerateError(c, err, http.StatusBadGateway)
		return
	}
	if err := ctrl.FinishGeneration(ticket, result); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "The session was reset while generating"})
		return
	}

	h.logger.Info().Str("session_id", sess.ID).Bool("degraded", result.Degraded).Msg("session template generated")
	c.JSON(http.StatusOK, sessionView(sess))
}

// GET /sessions/:id/preview
func (h *APIHandler) Preview(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	result := sess.Controller.Result()
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No generated template to preview"})
		return
	}
	doc, err := preview.Document(result.Template, "")
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to render preview")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render preview"})
		return
	}
	c.Header("Content-Security-Policy", preview.SandboxPolicy)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}

// GET /sessions/:id/export
func (h *APIHandler) ExportSession(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	result := sess.Controller.Result()
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No generated template to export"})
		return
	}
	h.writeArchive(c, result.Template, sess.Controller.Selection())
}
