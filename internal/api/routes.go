package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	// --- Stateless generation ---
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/generate-template", h.GenerateTemplate)
		for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			apiGroup.Handle(method, "/generate-template", h.MethodNotAllowed)
		}
		apiGroup.POST("/export", h.Export)
	}

	// --- Wizard sessions ---
	router.POST("/sessions", h.CreateSession)
	sessionGroup := router.Group("/sessions/:id")
	{
		sessionGroup.GET("", h.GetSession)
		sessionGroup.DELETE("", h.DeleteSession)

		sessionGroup.POST("/advance", h.Advance)
		sessionGroup.POST("/retreat", h.Retreat)
		sessionGroup.POST("/jump", h.Jump)
		sessionGroup.PATCH("/selection", h.UpdateSelection)
		sessionGroup.POST("/reset", h.Reset)

		sessionGroup.POST("/logo", h.UploadLogo)
		sessionGroup.DELETE("/logo", h.DeleteLogo)

		sessionGroup.GET("/prompts", h.Prompts)
		sessionGroup.POST("/generate", h.Generate)
		sessionGroup.GET("/preview", h.Preview)
		sessionGroup.GET("/export", h.ExportSession)
	}

	// --- Simple Health Check ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
