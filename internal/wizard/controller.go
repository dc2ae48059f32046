package wizard

import (
	"sync"

	"template_builder/internal/types"
)

// Ticket identifies one asynchronous operation started on a Controller.
type Ticket uint64

// Controller sequences the wizard steps and owns the session's Selection and
// latest GenerationResult. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	steps      []StepKind
	current    int
	allowJump  bool
	selection  types.Selection
	result     *types.GenerationResult
	generating bool
	genTicket  Ticket
	logoTicket Ticket
	pending    map[Ticket]struct{} // cleared on Reset, which makes every outstanding ticket stale
	nextTicket Ticket
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithSteps replaces the default FullFlow sequence.
func WithSteps(steps []StepKind) ControllerOption {
	return func(c *Controller) {
		if len(steps) > 0 {
			c.steps = append([]StepKind(nil), steps...)
		}
	}
}

// WithStepNavigation enables or disables JumpTo.
func WithStepNavigation(enabled bool) ControllerOption {
	return func(c *Controller) {
		c.allowJump = enabled
	}
}

// NewController returns a controller on the first step with default selections.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		steps:     append([]StepKind(nil), FullFlow...),
		allowJump: true,
		selection: types.DefaultSelection(),
		pending:   make(map[Ticket]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State is a point-in-time copy of the controller.
type State struct {
	Steps        []StepKind              `json:"steps"`
	CurrentIndex int                     `json:"currentIndex"`
	CurrentStep  StepKind                `json:"currentStep"`
	StepNav      bool                    `json:"stepNavigation"`
	Selection    types.Selection         `json:"selection"`
	Result       *types.GenerationResult `json:"result,omitempty"`
	Generating   bool                    `json:"generating"`
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Steps:        append([]StepKind(nil), c.steps...),
		CurrentIndex: c.current,
		CurrentStep:  c.steps[c.current],
		StepNav:      c.allowJump,
		Selection:    c.selection.Clone(),
		Result:       c.result,
		Generating:   c.generating,
	}
}

// Selection returns a copy of the current selection.
func (c *Controller) Selection() types.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Clone()
}

// CurrentStep returns the step the wizard is on.
func (c *Controller) CurrentStep() StepKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steps[c.current]
}

// CurrentIndex returns the position of the current step.
func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Steps returns the step sequence.
func (c *Controller) Steps() []StepKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]StepKind(nil), c.steps...)
}

// Result returns the last stored generation result, or nil.
func (c *Controller) Result() *types.GenerationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Advance moves to the next step. It is a no-op on the last step and does
// not validate; callers run StepFor(CurrentStep()).Validate first.
func (c *Controller) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current < len(c.steps)-1 {
		c.current++
	}
}

// Retreat moves to the previous step. It is a no-op on the first step.
func (c *Controller) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current > 0 {
		c.current--
	}
}

// JumpTo moves to an already visited step.
func (c *Controller) JumpTo(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.allowJump {
		return ErrJumpDisabled
	}
	if index < 0 || index >= len(c.steps) {
		return ErrStepOutOfRange
	}
	if index > c.current {
		return ErrStepNotVisited
	}
	c.current = index
	return nil
}

// UpdateField merges a partial update into the selection.
func (c *Controller) UpdateField(update types.SelectionUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	update.Apply(&c.selection)
}

// Reset restores the defaults, returns to the first step and drops any stored
// result. Generations and logo reads started before the reset become stale.
// A generation still running keeps the slot until it finishes or aborts.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = types.DefaultSelection()
	c.current = 0
	c.result = nil
	c.logoTicket = 0
	c.pending = make(map[Ticket]struct{})
}

func (c *Controller) issue() Ticket {
	c.nextTicket++
	c.pending[c.nextTicket] = struct{}{}
	return c.nextTicket
}

func (c *Controller) valid(t Ticket) bool {
	_, ok := c.pending[t]
	return ok
}

// BeginGeneration claims the single generation slot.
func (c *Controller) BeginGeneration() (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generating {
		return 0, ErrGenerationInFlight
	}
	c.generating = true
	c.genTicket = c.issue()
	return c.genTicket, nil
}

// FinishGeneration stores result, releases the slot and moves to the last
// step, where the result is shown. A ticket invalidated by Reset is ignored
// and ErrStaleTicket is returned.
func (c *Controller) FinishGeneration(t Ticket, result *types.GenerationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t == c.genTicket {
		c.generating = false
	}
	if !c.valid(t) || t != c.genTicket {
		delete(c.pending, t)
		return ErrStaleTicket
	}
	delete(c.pending, t)
	c.result = result
	c.current = len(c.steps) - 1
	return nil
}

// AbortGeneration releases the slot without touching the stored result.
func (c *Controller) AbortGeneration(t Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t == c.genTicket {
		c.generating = false
	}
	delete(c.pending, t)
}

// BeginLogo starts a logo read. Only the most recently started read may
// complete; earlier ones are superseded.
func (c *Controller) BeginLogo() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.logoTicket != 0 {
		delete(c.pending, c.logoTicket)
	}
	c.logoTicket = c.issue()
	return c.logoTicket
}

// CompleteLogo applies the outcome of a logo read. A nil logo clears the
// field, which is what a rejected upload does. It reports whether the
// ticket was still current.
func (c *Controller) CompleteLogo(t Ticket, logo *types.Logo) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid(t) || t != c.logoTicket {
		return false
	}
	delete(c.pending, t)
	c.logoTicket = 0
	c.selection.Logo = logo
	return true
}

// ClearLogo removes the logo and supersedes any pending read.
func (c *Controller) ClearLogo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.logoTicket != 0 {
		delete(c.pending, c.logoTicket)
		c.logoTicket = 0
	}
	c.selection.Logo = nil
}
