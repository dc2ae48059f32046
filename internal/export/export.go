package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gosimple/slug"
	"github.com/klauspost/compress/zip"

	"template_builder/internal/ai/prompts"
	"template_builder/internal/types"
	"template_builder/internal/utils"
)

// Entry names inside an exported archive, in archive order.
const (
	IndexFile  = "index.html"
	StylesFile = "styles.css"
	ScriptFile = "script.js"
	ReadmeFile = "README.md"
)

// FallbackName is the archive base name used when the description has no usable characters.
const FallbackName = "my_template"

const maxNameLength = 64

// archiveTime is stamped on every entry so identical input gives identical bytes.
var archiveTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ErrNoBundle is returned when there is nothing to export.
var ErrNoBundle = errors.New("no generated template to export")

var readmeTemplate = pongo2.Must(pongo2.FromString(`{% autoescape off %}# Generated Web Template

This template was generated interactively.

## Files

{% for f in files %}- {{ f.Filename }}: {{ f.Type }}{% if f.Description %}, {{ f.Description }}{% endif %}
{% endfor %}
Open 'index.html' in your browser to view the template.

## Selections

- Description: {{ selection.Description }}
- Accent color: {{ selection.AccentColor }}
- Typography: {{ selection.Typography }}
- Base design: {{ style }}{% if selection.BaseDesign %} ({{ selection.BaseDesign }}){% endif %}
{% if selection.Logo %}- Logo: {{ selection.Logo.Filename }} ({{ selection.Logo.MIMEType }})
{% endif %}{% endautoescape %}`))

type readmeEntry struct {
	Filename    string
	Type        string
	Description string
}

var fileDescriptions = map[string]string{
	IndexFile:  "main page structure",
	StylesFile: "styles",
	ScriptFile: "behaviour",
}

// Files returns the exported files in archive order. The first three are the
// bundle contents unchanged.
func Files(bundle *types.CodeBundle, sel types.Selection) ([]types.GeneratedFile, error) {
	if bundle == nil {
		return nil, ErrNoBundle
	}
	files := []types.GeneratedFile{
		{Filename: IndexFile, Content: bundle.HTML},
		{Filename: StylesFile, Content: bundle.CSS},
		{Filename: ScriptFile, Content: bundle.JS},
	}

	entries := make([]readmeEntry, 0, len(files))
	for i := range files {
		files[i].Type = utils.DetermineFileType(files[i].Filename)
		entries = append(entries, readmeEntry{
			Filename:    files[i].Filename,
			Type:        files[i].Type,
			Description: fileDescriptions[files[i].Filename],
		})
	}

	readme, err := readmeTemplate.Execute(pongo2.Context{
		"files":     entries,
		"selection": sel,
		"style":     prompts.LayoutStyle(sel.BaseDesign),
	})
	if err != nil {
		return nil, fmt.Errorf("render readme: %w", err)
	}
	files = append(files, types.GeneratedFile{
		Filename: ReadmeFile,
		Type:     utils.DetermineFileType(ReadmeFile),
		Content:  readme,
	})
	return files, nil
}

// Archive packs the bundle and a README into a zip file.
func Archive(bundle *types.CodeBundle, sel types.Selection) ([]byte, error) {
	files, err := Files(bundle, sel)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Filename,
			Method:   zip.Deflate,
			Modified: archiveTime,
		})
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", f.Filename, err)
		}
		if _, err := w.Write([]byte(f.Content)); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", f.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName derives the download name from the site description.
func FileName(description string) string {
	var b strings.Builder
	for _, r := range slug.Make(description) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == maxNameLength {
				break
			}
		}
	}
	name := b.String()
	if name == "" {
		name = FallbackName
	}
	return name + ".zip"
}
