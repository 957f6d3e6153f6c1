package planner

import (
	"sort"

	"github.com/danieljhkim/disko/internal/devices"
)

// Plan is an ordered sequence of device operations.
type Plan struct {
	// Actions is the set of actions the plan was generated for
	Actions ActionSet `json:"actions"`

	// Steps is the ordered list of steps to execute
	Steps []Step `json:"steps"`

	// SkippedSteps were computed but belong to actions that were not requested
	SkippedSteps []Step `json:"skippedSteps,omitempty"`
}

// Step represents a single device operation.
type Step struct {
	// Action is the category the step belongs to
	Action Action `json:"action"`

	// Commands is the list of argv vectors to execute, in order
	Commands [][]string `json:"commands"`

	// Description is an explanatory message for the operator
	Description string `json:"description"`

	// Device is the block device the step operates on, if any
	Device string `json:"device,omitempty"`

	// Mountpoint is set on mount steps and orders parents before children
	Mountpoint string `json:"mountpoint,omitempty"`
}

// IsEmpty reports whether the step has nothing to do.
func (s Step) IsEmpty() bool {
	return len(s.Commands) == 0
}

// NewPlan creates a new empty Plan.
func NewPlan(actions ActionSet) *Plan {
	return &Plan{
		Actions:      actions,
		Steps:        []Step{},
		SkippedSteps: []Step{},
	}
}

// Append adds a step. Empty steps are dropped; steps whose action was not
// requested are recorded as skipped.
func (p *Plan) Append(step Step) {
	if step.IsEmpty() {
		return
	}
	if p.Actions.Has(step.Action) {
		p.Steps = append(p.Steps, step)
	} else {
		p.SkippedSteps = append(p.SkippedSteps, step)
	}
}

// Extend appends all steps of another plan, re-filtering them against this
// plan's actions.
func (p *Plan) Extend(other *Plan) {
	if other == nil {
		return
	}
	for _, step := range other.Steps {
		p.Append(step)
	}
	p.SkippedSteps = append(p.SkippedSteps, other.SkippedSteps...)
}

// Len returns the number of steps to execute.
func (p *Plan) Len() int {
	return len(p.Steps)
}

// Count returns the number of steps to execute for an action.
func (p *Plan) Count(a Action) int {
	n := 0
	for _, step := range p.Steps {
		if step.Action == a {
			n++
		}
	}
	return n
}

// Order stably sorts the steps by stage. Mount steps are additionally
// ordered by mountpoint depth so that parents are mounted first.
func (p *Plan) Order() {
	sort.SliceStable(p.Steps, func(i, j int) bool {
		a, b := p.Steps[i], p.Steps[j]
		if a.Action != b.Action {
			return a.Action < b.Action
		}
		if a.Action == ActionMount {
			return devices.MountDepth(a.Mountpoint) < devices.MountDepth(b.Mountpoint)
		}
		return false
	})
}
