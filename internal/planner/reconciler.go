package planner

import (
	"github.com/rs/zerolog"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/result"
)

const stageGeneratePlan = "generate plan"

// Reconciler dispatches subsystem subtrees to their backends and merges the
// resulting plan segments.
type Reconciler struct {
	backends map[devices.Subsystem]Backend
	logger   zerolog.Logger
}

// NewReconciler creates a Reconciler. A later backend for the same subsystem
// replaces an earlier one.
func NewReconciler(logger zerolog.Logger, backends ...Backend) *Reconciler {
	r := &Reconciler{
		backends: make(map[devices.Subsystem]Backend, len(backends)),
		logger:   logger,
	}
	for _, b := range backends {
		r.backends[b.Subsystem()] = b
	}
	return r
}

// GeneratePlan computes the plan that turns current into target using only
// the requested actions.
//
// Algorithm steps:
// 1. If destroy is requested, replace current with the empty snapshot
// 2. Dispatch each subsystem, in fixed order, to its backend
// 3. Return the first failing segment unchanged
// 4. Concatenate segments in subsystem order and order by stage
func (r *Reconciler) GeneratePlan(actions ActionSet, current, target devices.Config) result.Result[*Plan] {
	if actions.IsEmpty() {
		return result.Failure[*Plan](result.CodeBugEmptyActionSet, nil, stageGeneratePlan)
	}

	// After a destroy nothing exists, so every target entity is created
	// from scratch instead of diffed against stale state.
	if actions.Has(ActionDestroy) {
		r.logger.Debug().Msg("destroy requested, planning against an empty current state")
		current = devices.Empty()
	}

	plan := NewPlan(actions)
	for _, subsystem := range devices.Subsystems() {
		backend, ok := r.backends[subsystem]
		if !ok {
			if target.Count(subsystem) == 0 {
				continue
			}
			return result.Failure[*Plan](
				result.CodeBugUnsupportedSubsystem,
				result.Details{"subsystem": string(subsystem), "entries": target.Names(subsystem)},
				stageGeneratePlan,
			)
		}

		r.logger.Debug().Str("subsystem", string(subsystem)).Msg("generating plan segment")
		segment, err := backend.Plan(actions, current, target).Unwrap()
		if err != nil {
			return result.Fail[*Plan](err)
		}
		plan.Extend(segment)
	}

	plan.Order()
	r.logger.Debug().
		Int("steps", plan.Len()).
		Int("skipped", len(plan.SkippedSteps)).
		Msg("generated plan")

	return result.Ok(plan, stageGeneratePlan)
}
