package preview

import (
	"errors"
	"fmt"

	"github.com/flosch/pongo2/v6"

	"template_builder/internal/types"
)

// SandboxPolicy is the Content-Security-Policy value the preview is served
// with. Scripts run but the document gets an opaque origin and cannot
// navigate the top-level context.
const SandboxPolicy = "sandbox allow-scripts"

// DefaultTitle is used when Document is called with an empty title.
const DefaultTitle = "Preview"

var documentTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{ title }}</title>
<style>
body { margin: 0; }
{{ css|safe }}
</style>
</head>
<body>
{{ html|safe }}
<script>
{{ js|safe }}
</script>
</body>
</html>
`))

// ErrNoBundle is returned when there is nothing to preview.
var ErrNoBundle = errors.New("no generated template to preview")

// Document assembles a standalone HTML page from bundle. The bundle is
// inserted verbatim; only the title is escaped.
func Document(bundle *types.CodeBundle, title string) (string, error) {
	if bundle == nil {
		return "", ErrNoBundle
	}
	if title == "" {
		title = DefaultTitle
	}
	out, err := documentTemplate.Execute(pongo2.Context{
		"title": title,
		"css":   bundle.CSS,
		"html":  bundle.HTML,
		"js":    bundle.JS,
	})
	if err != nil {
		return "", fmt.Errorf("render preview document: %w", err)
	}
	return out, nil
}
