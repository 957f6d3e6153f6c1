// Package engine provides the core pipeline behind every disko command.
//
// The engine package acts as the orchestration layer between CLI commands and
// the lower-level packages. Each operation is a chain of stages composed with
// result.Chain, so the first failing stage ends the pipeline and its error
// reaches the CLI unchanged.
//
// Key components:
//   - Engine: Main orchestrator called by the CLI
//   - Apply: select mode, evaluate, validate, inventory, generate plan
//   - Generate: describe the current machine as a disko configuration
//   - Dev helpers: raw lsblk output, evaluation and validation
package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/evaluator"
	"github.com/danieljhkim/disko/internal/fsops"
	"github.com/danieljhkim/disko/internal/inventory"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/result"
)

// Evaluator produces the JSON of a target configuration.
type Evaluator interface {
	Evaluate(ctx context.Context, src evaluator.Source) result.Result[[]byte]
}

// Inventory observes the machine.
type Inventory interface {
	Raw(ctx context.Context) result.Result[string]
	Current(ctx context.Context) result.Result[devices.Config]
	Generate(ctx context.Context) result.Result[inventory.Generated]
}

// PlanGenerator computes plans from a current and a target snapshot.
type PlanGenerator interface {
	GeneratePlan(actions planner.ActionSet, current, target devices.Config) result.Result[*planner.Plan]
}

// Engine orchestrates all disko operations.
// It is the main API surface called by the CLI.
type Engine struct {
	evaluator Evaluator
	inventory Inventory
	planner   PlanGenerator
	fs        fsops.FS
	logger    zerolog.Logger
}

// New creates a new Engine with the given dependencies.
func New(
	eval Evaluator,
	inv Inventory,
	plans PlanGenerator,
	fs fsops.FS,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		evaluator: eval,
		inventory: inv,
		planner:   plans,
		fs:        fs,
		logger:    logger,
	}
}

// ValidModes lists every mode accepted on the command line.
func ValidModes() []string {
	modes := make([]string, 0, len(planner.ApplyModes())+2)
	for _, m := range planner.ApplyModes() {
		modes = append(modes, string(m))
	}
	return append(modes, "generate", "dev")
}

// SelectMode resolves an apply mode name.
func SelectMode(name string) result.Result[planner.Mode] {
	mode, ok := planner.ParseMode(name)
	if !ok {
		return result.Failure[planner.Mode](
			result.CodeMissingMode,
			result.Details{"valid_modes": ValidModes()},
			stageSelectMode,
		)
	}
	return result.Ok(mode, stageSelectMode)
}
