package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"template_builder/internal/types"
)

func TestDocumentOrder(t *testing.T) {
	bundle := &types.CodeBundle{
		HTML: `<main class="hero">Hello & welcome</main>`,
		CSS:  `.hero > h1 { color: #3B82F6; }`,
		JS:   `if (1 < 2 && true) { document.title = "x"; }`,
	}

	doc, err := Document(bundle, "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>Preview</title>")

	reset := strings.Index(doc, "body { margin: 0; }")
	css := strings.Index(doc, bundle.CSS)
	html := strings.Index(doc, bundle.HTML)
	js := strings.Index(doc, bundle.JS)

	require.True(t, reset >= 0, "margin reset missing")
	require.True(t, css >= 0, "css missing or escaped")
	require.True(t, html >= 0, "html missing or escaped")
	require.True(t, js >= 0, "js missing or escaped")
	assert.Less(t, reset, css)
	assert.Less(t, css, html)
	assert.Less(t, html, js)
}

func TestDocumentEscapesTitle(t *testing.T) {
	doc, err := Document(&types.CodeBundle{HTML: "<p>x</p>"}, "<b>Mine</b>")
	require.NoError(t, err)
	assert.Contains(t, doc, "<title>&lt;b&gt;Mine&lt;/b&gt;</title>")
}

func TestDocumentDegradedBundle(t *testing.T) {
	doc, err := Document(&types.CodeBundle{HTML: `<div class="error">Error generating the page: boom</div>`}, "t")
	require.NoError(t, err)
	assert.Contains(t, doc, `<div class="error">`)
	assert.Contains(t, doc, "<script>\n\n</script>")
}

func TestDocumentNilBundle(t *testing.T) {
	_, err := Document(nil, "t")
	assert.ErrorIs(t, err, ErrNoBundle)
}
