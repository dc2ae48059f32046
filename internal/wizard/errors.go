package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrStepNotVisited     = errors.New("step has not been visited yet")
	ErrStepOutOfRange     = errors.New("step index out of range")
	ErrJumpDisabled       = errors.New("step navigation is disabled")
	ErrGenerationInFlight = errors.New("a generation is already in progress")
	ErrStaleTicket        = errors.New("ticket was superseded")
	ErrLogoEmpty          = errors.New("logo file is empty")
	ErrLogoTooLarge       = errors.New("logo file is too large")
	ErrLogoType           = errors.New("logo file is not a supported image")
)

// StepError reports that a step's data does not allow advancing.
type StepError struct {
	Step    StepKind
	Field   string
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step: %s", e.Step, e.Message)
}

// LogoError is a rejected logo upload. Message is safe to show to the user.
type LogoError struct {
	Filename string
	Message  string
	Err      error
}

func (e *LogoError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("logo upload: %v", e.Err)
	}
	return fmt.Sprintf("logo upload %q: %v", e.Filename, e.Err)
}

func (e *LogoError) Unwrap() error { return e.Err }
