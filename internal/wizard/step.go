package wizard

import (
	"fmt"
	"strings"

	"template_builder/internal/types"
)

// StepKind identifies one step of the wizard.
type StepKind int

const (
	StepDescription StepKind = iota
	StepColor
	StepTypography
	StepLogo
	StepLayout
	StepResults
)

// MinDescriptionLength is the shortest description the describe step accepts.
const MinDescriptionLength = 10

// FullFlow includes the results step; CompactFlow ends on the layout step.
var (
	FullFlow    = []StepKind{StepDescription, StepColor, StepTypography, StepLogo, StepLayout, StepResults}
	CompactFlow = []StepKind{StepDescription, StepColor, StepTypography, StepLogo, StepLayout}
)

func (k StepKind) String() string {
	switch k {
	case StepDescription:
		return "description"
	case StepColor:
		return "color"
	case StepTypography:
		return "typography"
	case StepLogo:
		return "logo"
	case StepLayout:
		return "layout"
	case StepResults:
		return "results"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// MarshalText renders the step as its identifier in JSON payloads.
func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Step is the per-kind behavior a frontend needs: labels and the check that
// must pass before the wizard may advance past it.
type Step interface {
	Kind() StepKind
	Title() string
	Help() string
	Validate(sel types.Selection) error
}

// StepFor returns the step implementation for kind.
func StepFor(kind StepKind) Step {
	switch kind {
	case StepDescription:
		return describeStep{}
	case StepColor:
		return colorStep{}
	case StepTypography:
		return typographyStep{}
	case StepLogo:
		return logoStep{}
	case StepLayout:
		return layoutStep{}
	case StepResults:
		return resultsStep{}
	}
	panic(fmt.Sprintf("wizard: unknown step kind %d", int(kind)))
}

type describeStep struct{}

func (describeStep) Kind() StepKind {
	return StepDescription
}
func (describeStep) Title() string {
	return "Describe Your Website"
}
func (describeStep) Help() string {
	return "Include details about the purpose, target audience, and key features you'd like to have."
}

func (describeStep) Validate(sel types.Selection) error {
	if len([]rune(strings.TrimSpace(sel.Description))) < MinDescriptionLength {
		return &StepError{
			Step:    StepDescription,
			Field:   "description",
			Message: fmt.Sprintf("Please provide a more detailed description (at least %d characters)", MinDescriptionLength),
		}
	}
	return nil
}

type colorStep struct{}

func (colorStep) Kind() StepKind {
	return StepColor
}
func (colorStep) Title() string {
	return "Choose Your Accent Color"
}
func (colorStep) Help() string {
	return "Pick a color used for buttons, links and highlights."
}

func (colorStep) Validate(sel types.Selection) error {
	if strings.TrimSpace(sel.AccentColor) == "" {
		return &StepError{Step: StepColor, Field: "accentColor", Message: "Please choose an accent color"}
	}
	return nil
}

type typographyStep struct{}

func (typographyStep) Kind() StepKind {
	return StepTypography
}
func (typographyStep) Title() string {
	return "Select Typography"
}
func (typographyStep) Help() string {
	return "Choose a font that matches the style of your website."
}

func (typographyStep) Validate(sel types.Selection) error {
	if strings.TrimSpace(sel.Typography) == "" {
		return &StepError{Step: StepTypography, Field: "typography", Message: "Please select a typography"}
	}
	return nil
}

// The logo is optional, so the step never blocks.
type logoStep struct{}

func (logoStep) Kind() StepKind {
	return StepLogo
}
func (logoStep) Title() string {
	return "Upload Your Logo (Optional)"
}
func (logoStep) Help() string {
	return "Add your logo to personalize your website."
}
func (logoStep) Validate(types.Selection) error {
	return nil
}

type layoutStep struct{}

func (layoutStep) Kind() StepKind {
	return StepLayout
}
func (layoutStep) Title() string {
	return "Choose a Layout"
}
func (layoutStep) Help() string {
	return "Select a base layout for your website."
}

func (layoutStep) Validate(sel types.Selection) error {
	if strings.TrimSpace(sel.BaseDesign) == "" {
		return &StepError{Step: StepLayout, Field: "baseDesign", Message: "Please select a base design first"}
	}
	return nil
}

type resultsStep struct{}

func (resultsStep) Kind() StepKind {
	return StepResults
}
func (resultsStep) Title() string {
	return "Your Template Results"
}
func (resultsStep) Help() string {
	return "Preview and download the generated template."
}
func (resultsStep) Validate(types.Selection) error {
	return nil
}

// Option is a selectable value offered by a step.
type Option struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ColorOptions are the predefined accent colors.
var ColorOptions = []Option{
	{ID: "#3B82F6", Name: "Blue"},
	{ID: "#EF4444", Name: "Red"},
	{ID: "#10B981", Name: "Green"},
	{ID: "#8B5CF6", Name: "Purple"},
	{ID: "#F59E0B", Name: "Yellow"},
	{ID: "#EC4899", Name: "Pink"},
	{ID: "#14B8A6", Name: "Teal"},
}

// FontOptions are the suggested typography values.
var FontOptions = []Option{
	{ID: "Inter", Name: "Inter", Description: "Modern and clean"},
	{ID: "Roboto", Name: "Roboto", Description: "Professional and versatile"},
	{ID: "Poppins", Name: "Poppins", Description: "Friendly and approachable"},
	{ID: "Playfair Display", Name: "Playfair Display", Description: "Elegant and sophisticated"},
	{ID: "Montserrat", Name: "Montserrat", Description: "Contemporary and balanced"},
	{ID: "Open Sans", Name: "Open Sans", Description: "Highly readable and neutral"},
	{ID: "Lato", Name: "Lato", Description: "Warm and approachable"},
	{ID: "Raleway", Name: "Raleway", Description: "Stylish and modern"},
	{ID: "Georgia, serif", Name: "Georgia", Description: "Classic serif"},
	{ID: "'Courier New', Courier, monospace", Name: "Courier New", Description: "Typewriter monospace"},
}

// LayoutOptions are the base designs a user can pick.
var LayoutOptions = []Option{
	{ID: "modern", Name: "Modern", Description: "Clean, minimal design with focus on content"},
	{ID: "classic", Name: "Classic", Description: "Traditional layout with sidebar and header"},
	{ID: "creative", Name: "Creative", Description: "Unique layout with dynamic elements"},
}
