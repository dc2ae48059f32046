package prompts

import (
	"fmt"

	"template_builder/internal/types"
)

const siteGenerationPrompt = `
		Generate a modern, responsive landing page with the following requirements:
		- Description: "%s"
		- Primary color: %s
		- Typography: "%s"
		- Design style: "%s"
		%s

		Technical requirements:
		1.  Semantic, accessible HTML
		2.  Modern CSS with CSS custom properties and a responsive layout
		3.  Minimal JavaScript for essential interactivity
		4.  Optimized for performance and SEO
		5.  Works on mobile and tablet screens

		Respond with a single JSON object with exactly the string keys "html", "css" and "js":

		` + "```json" + `
		{
			"html": "...",
			"css": "...",
			"js": "..."
		}
		` + "```" + `

		The code must be complete and working. Do not include any explanation outside the JSON object.
	`

// GenerationInstruction builds the structured request sent to the model for a selection.
func GenerationInstruction(sel types.Selection) string {
	logoLine := ""
	if preview := sel.LogoPreview(); preview != "" {
		logoLine = "- Logo: " + preview
	}
	return fmt.Sprintf(siteGenerationPrompt,
		sel.Description,
		sel.AccentColor,
		sel.PrimaryFont(),
		sel.BaseDesign,
		logoLine,
	)
}
