package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"template_builder/internal/types"
)

func TestClassifyWebsite(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"My photography PORTFOLIO", "portfolio"},
		{"a shop for my blog merch", "blog"},
		{"Portfolio and blog in one", "portfolio"},
		{"An online store for candles", "e-commerce"},
		{"ecommerce for shoes", "e-commerce"},
		{"A landing page for an app", "landing page"},
		{"Something for my bakery", "website"},
		{"", "website"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyWebsite(tt.description))
		})
	}
}

func TestLayoutStyle(t *testing.T) {
	assert.Equal(t, StyleModern, LayoutStyle("modern"))
	assert.Equal(t, StyleModern, LayoutStyle("layout1"))
	assert.Equal(t, StyleClassic, LayoutStyle("Classic"))
	assert.Equal(t, StyleClassic, LayoutStyle("design2"))
	assert.Equal(t, StyleCreative, LayoutStyle("layout3"))
	assert.Equal(t, StyleCreative, LayoutStyle("something-else"))
	assert.Equal(t, StyleCreative, LayoutStyle(""))
}

func TestRenderReturnsThreeVariants(t *testing.T) {
	sel := types.Selection{
		Description: "A portfolio for a ceramic artist",
		AccentColor: "#10B981",
		Typography:  "'Playfair Display', serif",
		BaseDesign:  "classic",
	}

	got := Render(sel)
	require.Len(t, got, 3)
	assert.Equal(t, VariantDetailed, got[0].ID)
	assert.Equal(t, VariantConversational, got[1].ID)
	assert.Equal(t, VariantTechnical, got[2].ID)

	for _, p := range got {
		assert.Contains(t, p.Text, "#10B981", p.ID)
		assert.Contains(t, p.Text, "Playfair Display", p.ID)
		assert.Contains(t, p.Text, "portfolio", p.ID)
		assert.Contains(t, p.Text, StyleClassic, p.ID)
		assert.NotContains(t, p.Text, "logo", p.ID)
	}
}

func TestRenderLogoClause(t *testing.T) {
	sel := types.DefaultSelection()
	sel.Description = "Landing page for a podcast"
	sel.BaseDesign = "modern"
	sel.Logo = &types.Logo{Filename: "logo.png", Preview: "data:image/png;base64,AAAA"}

	got := Render(sel)
	assert.Contains(t, got[0].Text, "placeholder for a logo")
	assert.Contains(t, got[1].Text, "logo that should be prominently displayed")
	assert.Contains(t, got[2].Text, "Header with logo and navigation")
}

func TestGenerationInstruction(t *testing.T) {
	sel := types.Selection{
		Description: "A blog about trail running",
		AccentColor: "#EF4444",
		Typography:  `"Roboto", sans-serif`,
		BaseDesign:  "creative",
	}

	got := GenerationInstruction(sel)
	assert.Contains(t, got, `"A blog about trail running"`)
	assert.Contains(t, got, "#EF4444")
	assert.Contains(t, got, `Typography: "Roboto"`)
	assert.Contains(t, got, `Design style: "creative"`)
	assert.Contains(t, got, `"html", "css" and "js"`)
	assert.NotContains(t, got, "Logo:")

	sel.Logo = &types.Logo{Preview: "data:image/svg+xml;base64,PHN2Zz4="}
	assert.Contains(t, GenerationInstruction(sel), "- Logo: data:image/svg+xml;base64,PHN2Zz4=")
}
