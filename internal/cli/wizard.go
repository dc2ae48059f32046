package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"template_builder/internal/ai"
	"template_builder/internal/export"
	"template_builder/internal/preview"
	"template_builder/internal/types"
	"template_builder/internal/wizard"
)

// PreviewFile is written next to the exported files so the result can be
// opened directly in a browser.
const PreviewFile = "preview.html"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Generator produces a template for a selection.
type Generator interface {
	Submit(ctx context.Context, sel types.Selection) (*types.GenerationResult, error)
}

// Outcome is what a finished wizard run produced.
type Outcome struct {
	Result  *types.GenerationResult
	Written []string
}

// Runner drives a wizard.Controller from a terminal.
type Runner struct {
	driver       PromptDriver
	generator    Generator
	ctrl         *wizard.Controller
	outputDir    string
	maxLogoBytes int64
	logger       zerolog.Logger
	written      []string
}

// NewRunner wires a runner. Generated files are written under outputDir.
func NewRunner(driver PromptDriver, generator Generator, ctrl *wizard.Controller, outputDir string, maxLogoBytes int64, logger zerolog.Logger) *Runner {
	return &Runner{
		driver:       driver,
		generator:    generator,
		ctrl:         ctrl,
		outputDir:    outputDir,
		maxLogoBytes: maxLogoBytes,
		logger:       logger.With().Str("component", "cli").Logger(),
	}
}

const (
	actionGenerate = "Generate template"
	actionBack     = "Go back"
	actionRestart  = "Start over"
	actionFinish   = "Finish"
)

// Run walks the steps until a template has been generated and written, or
// the user aborts.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		steps := r.ctrl.Steps()
		index := r.ctrl.CurrentIndex()
		kind := steps[index]
		step := wizard.StepFor(kind)

		if err := r.driver.Info(ctx, fmt.Sprintf("\nStep %d of %d: %s\n%s", index+1, len(steps), step.Title(), step.Help())); err != nil {
			return nil, err
		}

		if kind == wizard.StepResults {
			outcome, done, err := r.results(ctx)
			if err != nil || done {
				return outcome, err
			}
			continue
		}

		if err := r.ask(ctx, kind); err != nil {
			return nil, err
		}
		if err := step.Validate(r.ctrl.Selection()); err != nil {
			if infoErr := r.driver.Info(ctx, err.Error()); infoErr != nil {
				return nil, infoErr
			}
			continue
		}

		if index < len(steps)-1 && steps[index+1] != wizard.StepResults {
			r.ctrl.Advance()
			continue
		}

		// Last input step: generate, go back or start over.
		choice, err := r.driver.Select(ctx, SelectConfig{
			Message: "Ready to generate your template?",
			Options: []string{actionGenerate, actionBack, actionRestart},
		})
		if err != nil {
			return nil, err
		}
		switch choice {
		case 1:
			r.ctrl.Retreat()
			continue
		case 2:
			r.ctrl.Reset()
			continue
		}

		outcome, err := r.generate(ctx)
		if err != nil {
			return nil, err
		}
		if outcome == nil {
			continue
		}
		if steps[len(steps)-1] != wizard.StepResults {
			return outcome, nil
		}
	}
}

func (r *Runner) ask(ctx context.Context, kind wizard.StepKind) error {
	sel := r.ctrl.Selection()
	switch kind {
	case wizard.StepDescription:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message: "Describe your website:",
			Default: sel.Description,
			Validator: func(s string) error {
				probe := sel
				probe.Description = s
				return wizard.StepFor(wizard.StepDescription).Validate(probe)
			},
		})
		if err != nil {
			return err
		}
		r.ctrl.UpdateField(types.SelectionUpdate{Description: &answer})

	case wizard.StepColor:
		color, err := r.choose(ctx, "Accent color:", wizard.ColorOptions, sel.AccentColor, true)
		if err != nil {
			return err
		}
		r.ctrl.UpdateField(types.SelectionUpdate{AccentColor: &color})

	case wizard.StepTypography:
		font, err := r.choose(ctx, "Typography:", wizard.FontOptions, sel.Typography, false)
		if err != nil {
			return err
		}
		r.ctrl.UpdateField(types.SelectionUpdate{Typography: &font})

	case wizard.StepLogo:
		return r.askLogo(ctx)

	case wizard.StepLayout:
		layout, err := r.choose(ctx, "Base design:", wizard.LayoutOptions, sel.BaseDesign, false)
		if err != nil {
			return err
		}
		r.ctrl.UpdateField(types.SelectionUpdate{BaseDesign: &layout})
	}
	return nil
}

// choose offers options and returns the chosen id. With allowCustom a free
// form hex color can be entered instead.
func (r *Runner) choose(ctx context.Context, message string, options []wizard.Option, current string, allowCustom bool) (string, error) {
	labels := make([]string, 0, len(options)+1)
	defaultIndex := 0
	for i, opt := range options {
		label := opt.Name
		if opt.Description != "" {
			label += " - " + opt.Description
		}
		labels = append(labels, label)
		if opt.ID == current {
			defaultIndex = i
		}
	}
	if allowCustom {
		labels = append(labels, "Custom...")
	}

	choice, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: defaultIndex})
	if err != nil {
		return "", err
	}
	if choice >= 0 && choice < len(options) {
		return options[choice].ID, nil
	}
	if !allowCustom {
		return current, nil
	}
	return r.driver.Input(ctx, InputConfig{
		Message: "Hex color (e.g. #1A73E8):",
		Default: current,
		Validator: func(s string) error {
			if !hexColor.MatchString(strings.TrimSpace(s)) {
				return errors.New("enter a color like #1A73E8")
			}
			return nil
		},
	})
}

func (r *Runner) askLogo(ctx context.Context) error {
	path, err := r.driver.Input(ctx, InputConfig{
		Message: "Path to a logo image (leave empty to skip):",
		Help:    "PNG, JPEG, GIF, SVG or WebP",
	})
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	ticket := r.ctrl.BeginLogo()
	logo, err := readLogoFile(path, r.maxLogoBytes)
	if err != nil {
		r.ctrl.CompleteLogo(ticket, nil)
		var logoErr *wizard.LogoError
		msg := err.Error()
		if errors.As(err, &logoErr) {
			msg = logoErr.Message
		}
		return r.driver.Info(ctx, "Logo not used: "+msg)
	}
	r.ctrl.CompleteLogo(ticket, logo)
	return r.driver.Info(ctx, fmt.Sprintf("Logo loaded: %s (%s)", logo.Filename, logo.MIMEType))
}

func readLogoFile(path string, maxBytes int64) (*types.Logo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &wizard.LogoError{Filename: filepath.Base(path), Message: "Could not open the file", Err: err}
	}
	defer f.Close()
	return wizard.ReadLogo(filepath.Base(path), f, maxBytes)
}

// generate runs one submit. A nil outcome with a nil error means the user
// was told about a recoverable failure and the loop should continue.
func (r *Runner) generate(ctx context.Context) (*Outcome, error) {
	ticket, err := r.ctrl.BeginGeneration()
	if err != nil {
		return nil, err
	}
	if err := r.driver.Info(ctx, "Generating your template..."); err != nil {
		r.ctrl.AbortGeneration(ticket)
		return nil, err
	}

	result, err := r.generator.Submit(ctx, r.ctrl.Selection())
	if err != nil {
		r.ctrl.AbortGeneration(ticket)
		var serviceErr *ai.ServiceError
		var validationErr *ai.ValidationError
		switch {
		case errors.As(err, &serviceErr):
			r.logger.Error().Err(err).Msg("generation failed")
			return nil, r.driver.Info(ctx, "Error: "+serviceErr.UserMessage())
		case errors.As(err, &validationErr):
			return nil, r.driver.Info(ctx, "Error: "+validationErr.Error())
		default:
			return nil, err
		}
	}
	if err := r.ctrl.FinishGeneration(ticket, result); err != nil {
		return nil, err
	}
	if result.Degraded {
		if err := r.driver.Info(ctx, "The model reply could not be used: "+result.DegradedReason); err != nil {
			return nil, err
		}
	}

	written, err := r.write(result)
	if err != nil {
		return nil, err
	}
	r.written = written
	return &Outcome{Result: result, Written: written}, r.driver.Info(ctx, fmt.Sprintf("Template written to %s", r.outputDir))
}

func (r *Runner) write(result *types.GenerationResult) ([]string, error) {
	sel := r.ctrl.Selection()
	files, err := export.Files(result.Template, sel)
	if err != nil {
		return nil, err
	}
	doc, err := preview.Document(result.Template, sel.Description)
	if err != nil {
		return nil, err
	}
	files = append(files, types.GeneratedFile{Filename: PreviewFile, Type: "HTML", Content: doc})
	return export.WriteDir(r.outputDir, files)
}

// results shows the prompts for the stored result and lets the user finish
// or start over. done is true when the run should end.
func (r *Runner) results(ctx context.Context) (outcome *Outcome, done bool, err error) {
	result := r.ctrl.Result()
	if result == nil {
		r.ctrl.Retreat()
		return nil, false, nil
	}
	for _, p := range result.Prompts {
		if err := r.driver.Info(ctx, fmt.Sprintf("--- %s prompt ---\n%s", p.ID, p.Text)); err != nil {
			return nil, false, err
		}
	}
	choice, err := r.driver.Select(ctx, SelectConfig{
		Message: "What next?",
		Options: []string{actionFinish, actionRestart},
	})
	if err != nil {
		return nil, false, err
	}
	if choice == 1 {
		r.ctrl.Reset()
		return nil, false, nil
	}
	return &Outcome{Result: result, Written: r.written}, true, nil
}
