package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"template_builder/internal/ai"
	"template_builder/internal/preview"
	"template_builder/internal/session"
	"template_builder/internal/types"
)

// fakeGenerator validates like the real orchestrator and returns a canned result.
type fakeGenerator struct {
	mu      sync.Mutex
	err     error
	result  *types.GenerationResult
	calls   []types.Selection
	release chan struct{}
	started chan struct{}
}

func (f *fakeGenerator) Submit(_ context.Context, sel types.Selection) (*types.GenerationResult, error) {
	if missing := sel.MissingRequired(); len(missing) > 0 {
		return nil, &ai.ValidationError{Fields: missing}
	}
	f.mu.Lock()
	f.calls = append(f.calls, sel)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &types.GenerationResult{
		Template: &types.CodeBundle{HTML: "<h1>Hello</h1>", CSS: "h1{color:#3B82F6}", JS: "console.log('hi')"},
		Prompts:  []types.GeneratedPrompt{{ID: "detailed", Text: "x"}},
	}, nil
}

func newTestRouter(gen Generator) (*gin.Engine, *session.Store) {
	gin.SetMode(gin.TestMode)
	store := session.NewStore(time.Hour, nil, zerolog.Nop())
	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()))
	RegisterRoutes(router, NewAPIHandler(gen, store, 1024, zerolog.Nop()))
	return router, store
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

const fullBody = `{"description":"A portfolio for a potter","accentColor":"#10B981","typography":"Lato","baseDesign":"modern"}`

func TestGenerateTemplate(t *testing.T) {
	gen := &fakeGenerator{}
	router, _ := newTestRouter(gen)

	w := do(t, router, http.MethodPost, "/api/generate-template", fullBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp GenerateTemplateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "<h1>Hello</h1>", resp.Template.HTML)
	require.Len(t, gen.calls, 1)
	assert.Equal(t, "#10B981", gen.calls[0].AccentColor)
}

func TestGenerateTemplateAcceptsLegacyNames(t *testing.T) {
	gen := &fakeGenerator{}
	router, _ := newTestRouter(gen)

	body := `{"description":"A blog about tea","mainColor":"#EF4444","typography":"Roboto","layout":"layout2"}`
	w := do(t, router, http.MethodPost, "/api/generate-template", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, gen.calls, 1)
	assert.Equal(t, "#EF4444", gen.calls[0].AccentColor)
	assert.Equal(t, "layout2", gen.calls[0].BaseDesign)
}

func TestGenerateTemplateMissingFields(t *testing.T) {
	gen := &fakeGenerator{}
	router, _ := newTestRouter(gen)

	w := do(t, router, http.MethodPost, "/api/generate-template", `{"description":"A blog about tea"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.ElementsMatch(t, []any{"accentColor", "typography", "baseDesign"}, body["fields"])
	assert.Empty(t, gen.calls)

	w = do(t, router, http.MethodPost, "/api/generate-template", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateTemplateServiceError(t *testing.T) {
	router, _ := newTestRouter(&fakeGenerator{err: &ai.ServiceError{Provider: "gemini", Err: ai.ErrAPIKeyRequired}})

	w := do(t, router, http.MethodPost, "/api/generate-template", fullBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "API key not configured", decode(t, w)["error"])
}

func TestGenerateTemplateLogoPreview(t *testing.T) {
	gen := &fakeGenerator{}
	router, _ := newTestRouter(gen)

	body := `{"description":"A portfolio for a potter","accentColor":"#10B981","typography":"Lato","baseDesign":"modern",` +
		`"logoPreview":"data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="}`
	w := do(t, router, http.MethodPost, "/api/generate-template", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, gen.calls[0].Logo)
	assert.Equal(t, "image/png", gen.calls[0].Logo.MIMEType)

	bad := strings.Replace(body, "data:image/png;base64,", "data:text/plain;base64,aGVsbG8=", 1)
	w = do(t, router, http.MethodPost, "/api/generate-template", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateTemplateMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(&fakeGenerator{})

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		w := do(t, router, method, "/api/generate-template", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, http.MethodPost, w.Header().Get("Allow"), method)
	}
}

func TestStatelessExport(t *testing.T) {
	router, _ := newTestRouter(&fakeGenerator{})

	body := `{"template":{"html":"<p>x</p>","css":"p{}","js":""},"selection":{"description":"My Bakery Site"}}`
	w := do(t, router, http.MethodPost, "/api/export", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="mybakerysite.zip"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = do(t, router, http.MethodPost, "/api/export", `{"selection":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := decode(t, w)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestSessionFlow(t *testing.T) {
	router, _ := newTestRouter(&fakeGenerator{})
	id := createSession(t, router)
	base := "/sessions/" + id

	w := do(t, router, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decode(t, w)
	assert.Equal(t, "description", state["currentStep"])
	assert.Equal(t, types.DefaultAccentColor, state["selection"].(map[string]any)["accentColor"])

	w = do(t, router, http.MethodPost, base+"/advance", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "description", decode(t, w)["field"])

	w = do(t, router, http.MethodPatch, base+"/selection", `{"description":"A portfolio for a potter","layout":"classic"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, base+"/advance", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "color", decode(t, w)["currentStep"])

	w = do(t, router, http.MethodPost, base+"/jump", `{"index":3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = do(t, router, http.MethodPost, base+"/jump", `{"index":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["currentIndex"])

	w = do(t, router, http.MethodGet, base+"/prompts", "")
	require.Equal(t, http.StatusOK, w.Code)
	prompts := decode(t, w)
	assert.Equal(t, "portfolio", prompts["websiteType"])
	assert.Equal(t, "Classic", prompts["layoutStyle"])
	assert.Len(t, prompts["prompts"], 3)

	w = do(t, router, http.MethodGet, base+"/preview", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, router, http.MethodGet, base+"/export", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, base+"/generate", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "results", decode(t, w)["currentStep"])

	w = do(t, router, http.MethodGet, base+"/preview", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, preview.SandboxPolicy, w.Header().Get("Content-Security-Policy"))
	assert.Contains(t, w.Body.String(), "body { margin: 0; }")
	assert.Contains(t, w.Body.String(), "<h1>Hello</h1>")

	w = do(t, router, http.MethodGet, base+"/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="aportfolioforapotter.zip"`, w.Header().Get("Content-Disposition"))

	w = do(t, router, http.MethodPost, base+"/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	reset := decode(t, w)
	assert.Nil(t, reset["result"])
	assert.Equal(t, "", reset["selection"].(map[string]any)["description"])

	w = do(t, router, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, router, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionGenerateValidationAndServiceError(t *testing.T) {
	gen := &fakeGenerator{}
	router, _ := newTestRouter(gen)
	id := createSession(t, router)

	w := do(t, router, http.MethodPost, "/sessions/"+id+"/generate", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	do(t, router, http.MethodPatch, "/sessions/"+id+"/selection", `{"description":"A landing page for a café","baseDesign":"creative"}`)
	gen.err = &ai.ServiceError{Provider: "openai", Err: context.DeadlineExceeded}
	w = do(t, router, http.MethodPost, "/sessions/"+id+"/generate", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["retryable"])

	// the slot is released after a failure
	gen.err = nil
	w = do(t, router, http.MethodPost, "/sessions/"+id+"/generate", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionGenerateInFlight(t *testing.T) {
	gen := &fakeGenerator{started: make(chan struct{}), release: make(chan struct{})}
	router, _ := newTestRouter(gen)
	id := createSession(t, router)
	do(t, router, http.MethodPatch, "/sessions/"+id+"/selection", `{"description":"A landing page for a café","baseDesign":"creative"}`)

	first := make(chan int, 1)
	go func() {
		first <- do(t, router, http.MethodPost, "/sessions/"+id+"/generate", "").Code
	}()
	<-gen.started

	w := do(t, router, http.MethodPost, "/sessions/"+id+"/generate", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	close(gen.release)
	assert.Equal(t, http.StatusOK, <-first)
}

func logoRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("logo", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSessionLogo(t *testing.T) {
	router, _ := newTestRouter(&fakeGenerator{})
	id := createSession(t, router)
	path := "/sessions/" + id + "/logo"
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, logoRequest(t, path, "logo.png", png))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	logo := decode(t, w)["selection"].(map[string]any)["logo"].(map[string]any)
	assert.Equal(t, "image/png", logo["mimeType"])
	assert.True(t, strings.HasPrefix(logo["preview"].(string), "data:image/png;base64,"))

	// a rejected upload clears the previous logo
	w = httptest.NewRecorder()
	router.ServeHTTP(w, logoRequest(t, path, "notes.txt", []byte("plain text, not an image")))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = do(t, router, http.MethodGet, "/sessions/"+id, "")
	_, hasLogo := decode(t, w)["selection"].(map[string]any)["logo"]
	assert.False(t, hasLogo)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, logoRequest(t, path, "big.png", append(png, make([]byte, 2048)...)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// a body past the multipart allowance is rejected the same way and clears the logo
	w = httptest.NewRecorder()
	router.ServeHTTP(w, logoRequest(t, path, "logo.png", png))
	require.Equal(t, http.StatusOK, w.Code)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, logoRequest(t, path, "huge.png", append(png, make([]byte, 2<<20)...)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "File is too large. Please upload an image smaller than 1.0 KiB", decode(t, w)["error"])
	w = do(t, router, http.MethodGet, "/sessions/"+id, "")
	_, hasLogo = decode(t, w)["selection"].(map[string]any)["logo"]
	assert.False(t, hasLogo)

	// without a declared length the limit trips while the form is parsed
	req := logoRequest(t, path, "huge.png", append(png, make([]byte, 2<<20)...))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownSession(t *testing.T) {
	router, _ := newTestRouter(&fakeGenerator{})
	for _, path := range []string{"/sessions/nope", "/sessions/nope/prompts", "/sessions/nope/preview"} {
		w := do(t, router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(&fakeGenerator{})
	w := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}
