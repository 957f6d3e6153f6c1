// Package unsupported provides backends for subsystems disko declares but
// cannot plan yet. They accept an empty subtree and report a bug otherwise.
package unsupported

import (
	"sort"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/result"
)

// Planner rejects any non-empty subtree.
type Planner struct {
	subsystem devices.Subsystem
}

// New creates a Planner for subsystem.
func New(subsystem devices.Subsystem) *Planner {
	return &Planner{subsystem: subsystem}
}

// Backend binds the planner to its subtree.
func (p *Planner) Backend() planner.Backend {
	switch p.subsystem {
	case devices.SubsystemLVMVG:
		return planner.Bind[devices.Entity](p.subsystem, p, planner.LVMVGSubtree)
	case devices.SubsystemMdadm:
		return planner.Bind[devices.Entity](p.subsystem, p, planner.MdadmSubtree)
	default:
		return planner.Bind[devices.Entity](p.subsystem, p, planner.ZpoolSubtree)
	}
}

func (p *Planner) PlanFor(actions planner.ActionSet, _, target map[string]devices.Entity) result.Result[*planner.Plan] {
	stage := "generate " + string(p.subsystem) + " plan"
	if len(target) == 0 {
		return result.Ok(planner.NewPlan(actions), stage)
	}

	entries := make([]string, 0, len(target))
	for name := range target {
		entries = append(entries, name)
	}
	sort.Strings(entries)

	return result.Failure[*planner.Plan](
		result.CodeBugUnsupportedSubsystem,
		result.Details{"subsystem": string(p.subsystem), "entries": entries},
		stage,
	)
}

// Backends returns the placeholder backends for lvm_vg, mdadm and zpool.
func Backends() []planner.Backend {
	return []planner.Backend{
		New(devices.SubsystemLVMVG).Backend(),
		New(devices.SubsystemMdadm).Backend(),
		New(devices.SubsystemZpool).Backend(),
	}
}
