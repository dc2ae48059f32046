package prompts

import (
	"fmt"
	"strings"

	"template_builder/internal/types"
)

// Prompt variant ids, in the order Render returns them.
const (
	VariantDetailed       = "detailed"
	VariantConversational = "conversational"
	VariantTechnical      = "technical"
)

// Layout style names.
const (
	StyleModern   = "Modern"
	StyleClassic  = "Classic"
	StyleCreative = "Creative"
)

var layoutStyles = map[string]string{
	"modern":   StyleModern,
	"layout1":  StyleModern,
	"design1":  StyleModern,
	"classic":  StyleClassic,
	"layout2":  StyleClassic,
	"design2":  StyleClassic,
	"creative": StyleCreative,
	"layout3":  StyleCreative,
	"design3":  StyleCreative,
}

// LayoutStyle maps a base design id to its style name. Unknown ids are Creative.
func LayoutStyle(id string) string {
	if style, ok := layoutStyles[strings.ToLower(strings.TrimSpace(id))]; ok {
		return style
	}
	return StyleCreative
}

var websiteKinds = []struct {
	label    string
	keywords []string
}{
	{"portfolio", []string{"portfolio"}},
	{"blog", []string{"blog"}},
	{"e-commerce", []string{"store", "shop", "ecommerce"}},
	{"landing page", []string{"landing"}},
}

// ClassifyWebsite infers the kind of site from free text. The first matching
// kind in the order portfolio, blog, e-commerce, landing page wins.
func ClassifyWebsite(description string) string {
	lower := strings.ToLower(description)
	for _, kind := range websiteKinds {
		for _, kw := range kind.keywords {
			if strings.Contains(lower, kw) {
				return kind.label
			}
		}
	}
	return "website"
}

type promptData struct {
	Description string
	Color       string
	Typography  string
	Kind        string
	Style       string
	HasLogo     bool
}

// Render returns the three prompt variants for a selection.
func Render(sel types.Selection) []types.GeneratedPrompt {
	d := promptData{
		Description: sel.Description,
		Color:       sel.AccentColor,
		Typography:  sel.Typography,
		Kind:        ClassifyWebsite(sel.Description),
		Style:       LayoutStyle(sel.BaseDesign),
		HasLogo:     sel.Logo != nil,
	}
	return []types.GeneratedPrompt{
		{ID: VariantDetailed, Text: detailedPrompt(d)},
		{ID: VariantConversational, Text: conversationalPrompt(d)},
		{ID: VariantTechnical, Text: technicalPrompt(d)},
	}
}

func pick(style, modern, classic, creative string) string {
	switch style {
	case StyleModern:
		return modern
	case StyleClassic:
		return classic
	default:
		return creative
	}
}

func detailedPrompt(d promptData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create HTML, CSS, and JavaScript code for a %s with the following specifications:\n\n", d.Kind)
	fmt.Fprintf(&b, "1. Type: %s\n", d.Description)
	fmt.Fprintf(&b, "2. Primary color: %s\n", d.Color)
	fmt.Fprintf(&b, "3. Typography: %s\n", d.Typography)
	fmt.Fprintf(&b, "4. Layout style: %s\n", d.Style)
	if d.HasLogo {
		b.WriteString("5. Include a placeholder for a logo in the header\n")
	}
	b.WriteString("\nTechnical requirements:\n")
	b.WriteString("- Responsive design that works well on mobile, tablet, and desktop\n")
	b.WriteString("- Semantic HTML structure\n")
	fmt.Fprintf(&b, "- CSS with %s font from Google Fonts\n", d.Typography)
	fmt.Fprintf(&b, "- Use %s as the main accent color with appropriate contrast\n", d.Color)
	b.WriteString("- Simple JavaScript for interactive elements\n")
	b.WriteString("- Include common sections like header, footer, and main content area\n")
	fmt.Fprintf(&b, "- %s\n", pick(d.Style,
		"Modern minimalist layout with focus on content and white space",
		"Classic layout with sidebar and traditional navigation",
		"Creative layout with asymmetric elements and dynamic transitions",
	))
	b.WriteString("\nPlease provide separate files for HTML, CSS, and JavaScript that I can use as a starting point for my website.")
	return b.String()
}

func conversationalPrompt(d promptData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I need to create a %s and I've selected these design preferences:\n\n", d.Kind)
	fmt.Fprintf(&b, "- Purpose: %s\n", d.Description)
	fmt.Fprintf(&b, "- Main color: %s\n", d.Color)
	fmt.Fprintf(&b, "- Font: %s\n", d.Typography)
	fmt.Fprintf(&b, "- Design style: %s\n", d.Style)
	if d.HasLogo {
		b.WriteString("- I have a logo that should be prominently displayed\n")
	}
	b.WriteString("\nCould you create the HTML, CSS, and JavaScript for a responsive website based on these choices? ")
	b.WriteString("I'd like a clean, professional design that's easy to navigate. ")
	b.WriteString("The primary color should be used for accents and important elements, while the typography should maintain good readability.\n\n")
	b.WriteString(pick(d.Style,
		"I prefer a modern, minimalist approach with plenty of white space.",
		"I like traditional layouts with clear navigation and content organization.",
		"I want something unique and creative that stands out from typical websites.",
	))
	b.WriteString("\n\nPlease separate the code into HTML, CSS, and JavaScript files so I can easily implement and customize them.")
	return b.String()
}

func technicalPrompt(d promptData) string {
	header := "navigation"
	if d.HasLogo {
		header = "logo and navigation"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a complete frontend codebase for a %s with the following specifications:\n\n", d.Kind)
	b.WriteString("USER REQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Site description: %s\n", d.Description)
	fmt.Fprintf(&b, "- Brand color: %s (should be used for primary elements, buttons, accents)\n", d.Color)
	fmt.Fprintf(&b, "- Typography: %s (import from Google Fonts)\n", d.Typography)
	fmt.Fprintf(&b, "- Layout preference: %s\n", d.Style)
	if d.HasLogo {
		b.WriteString("- Logo placement required in header\n")
	}
	b.WriteString("\nTECHNICAL SPECIFICATIONS:\n")
	b.WriteString("1. Structure:\n")
	b.WriteString("   - index.html: Semantic HTML5 markup\n")
	b.WriteString("   - styles.css: Clean, commented CSS using variables for the color scheme\n")
	b.WriteString("   - script.js: Vanilla JavaScript for interactive elements\n\n")
	b.WriteString("2. Design System:\n")
	fmt.Fprintf(&b, "   - Color palette derived from %s (primary, lighter shades, darker shades)\n", d.Color)
	fmt.Fprintf(&b, "   - Typography scale using %s with appropriate heading and body text sizes\n", d.Typography)
	b.WriteString("   - Consistent spacing variables\n")
	b.WriteString("   - Responsive breakpoints for mobile, tablet, and desktop\n\n")
	b.WriteString("3. Components:\n")
	fmt.Fprintf(&b, "   - Header with %s\n", header)
	b.WriteString("   - Hero section\n")
	fmt.Fprintf(&b, "   - Content sections appropriate for a %s\n", d.Kind)
	b.WriteString("   - Footer with essential links\n")
	fmt.Fprintf(&b, "   - %s\n\n", pick(d.Style,
		"Clean card components with subtle shadows and rounded corners",
		"Traditional content blocks with clear visual hierarchy",
		"Creative, unique UI components with interesting visual treatments",
	))
	b.WriteString("4. Responsive Behavior:\n")
	b.WriteString("   - Mobile-first approach\n")
	b.WriteString("   - Appropriate navigation solution for small screens\n")
	b.WriteString("   - Fluid typography and spacing\n\n")
	b.WriteString("Please provide production-ready, well-commented code that can be directly implemented.")
	return b.String()
}
