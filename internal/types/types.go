package types

import (
	"encoding/json"
	"strings"
	"time"
)

// Default selection values applied at session start and on reset.
const (
	DefaultAccentColor = "#3B82F6"
	DefaultTypography  = "Inter"
	DefaultBaseDesign  = ""
)

// Logo is an uploaded image plus its data URI preview.
type Logo struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mimeType"`
	Size     int    `json:"size"`
	Data     []byte `json:"-"`
	Preview  string `json:"preview"` // data:<mime>;base64,...
}

// Selection holds the design preferences collected by the wizard.
type Selection struct {
	Description string `json:"description"`
	AccentColor string `json:"accentColor"`
	Typography  string `json:"typography"`
	Logo        *Logo  `json:"logo,omitempty"`
	BaseDesign  string `json:"baseDesign"`
}

// DefaultSelection returns the selection a fresh session starts with.
func DefaultSelection() Selection {
	return Selection{
		AccentColor: DefaultAccentColor,
		Typography:  DefaultTypography,
		BaseDesign:  DefaultBaseDesign,
	}
}

// MissingRequired lists the JSON names of required fields that are blank.
func (s Selection) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(s.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(s.AccentColor) == "" {
		missing = append(missing, "accentColor")
	}
	if strings.TrimSpace(s.Typography) == "" {
		missing = append(missing, "typography")
	}
	if strings.TrimSpace(s.BaseDesign) == "" {
		missing = append(missing, "baseDesign")
	}
	return missing
}

// PrimaryFont returns the first family of a fallback list, unquoted.
func (s Selection) PrimaryFont() string {
	first, _, _ := strings.Cut(s.Typography, ",")
	first = strings.Trim(strings.TrimSpace(first), `'"`)
	if first == "" {
		return "sans-serif"
	}
	return first
}

// LogoPreview returns the logo data URI or "" when no logo is set.
func (s Selection) LogoPreview() string {
	if s.Logo == nil {
		return ""
	}
	return s.Logo.Preview
}

// Clone returns a copy that shares no mutable state with s.
func (s Selection) Clone() Selection {
	out := s
	if s.Logo != nil {
		logo := *s.Logo
		logo.Data = append([]byte(nil), s.Logo.Data...)
		out.Logo = &logo
	}
	return out
}

// SelectionUpdate is a partial update; nil fields are left untouched.
type SelectionUpdate struct {
	Description *string `json:"description,omitempty"`
	AccentColor *string `json:"accentColor,omitempty"`
	Typography  *string `json:"typography,omitempty"`
	BaseDesign  *string `json:"baseDesign,omitempty"`
}

// UnmarshalJSON accepts the legacy field names mainColor, primaryColor and layout.
func (u *SelectionUpdate) UnmarshalJSON(b []byte) error {
	var raw struct {
		Description  *string `json:"description"`
		AccentColor  *string `json:"accentColor"`
		MainColor    *string `json:"mainColor"`
		PrimaryColor *string `json:"primaryColor"`
		Typography   *string `json:"typography"`
		BaseDesign   *string `json:"baseDesign"`
		Layout       *string `json:"layout"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = SelectionUpdate{
		Description: raw.Description,
		AccentColor: firstNonNil(raw.AccentColor, raw.MainColor, raw.PrimaryColor),
		Typography:  raw.Typography,
		BaseDesign:  firstNonNil(raw.BaseDesign, raw.Layout),
	}
	return nil
}

// Apply merges the non-nil fields of u into s.
func (u SelectionUpdate) Apply(s *Selection) {
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.AccentColor != nil {
		s.AccentColor = *u.AccentColor
	}
	if u.Typography != nil {
		s.Typography = *u.Typography
	}
	if u.BaseDesign != nil {
		s.BaseDesign = *u.BaseDesign
	}
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// GeneratedPrompt is one natural-language prompt variant.
type GeneratedPrompt struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CodeBundle is the html/css/js triple returned by the model.
type CodeBundle struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// GenerationResult is the output of one submit.
type GenerationResult struct {
	Prompts        []GeneratedPrompt `json:"prompts"`
	Template       *CodeBundle       `json:"template,omitempty"`
	Degraded       bool              `json:"degraded,omitempty"`
	DegradedReason string            `json:"degradedReason,omitempty"`
	Provider       string            `json:"provider,omitempty"`
	Model          string            `json:"model,omitempty"`
	GeneratedAt    time.Time         `json:"generatedAt"`
}

// GeneratedFile is one file of an exported bundle.
type GeneratedFile struct {
	Filename string `json:"filename"`
	Type     string `json:"type"` // e.g., "HTML", "CSS", "Markdown"
	Content  string `json:"content"`
}
