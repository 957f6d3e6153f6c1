package planner

import (
	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/result"
)

// Backend plans one storage subsystem.
type Backend interface {
	// Subsystem returns the subsystem this backend is responsible for.
	Subsystem() devices.Subsystem

	// Plan diffs the backend's subtree of current against target and
	// returns a plan segment containing only steps for requested actions.
	Plan(actions ActionSet, current, target devices.Config) result.Result[*Plan]
}

// SubtreePlanner plans a single typed subtree of a Config.
type SubtreePlanner[T any] interface {
	PlanFor(actions ActionSet, current, target map[string]T) result.Result[*Plan]
}

// Bind adapts a SubtreePlanner into a Backend. The selector extracts the
// planner's subtree from a Config.
func Bind[T any](subsystem devices.Subsystem, p SubtreePlanner[T], selector func(devices.Config) map[string]T) Backend {
	return &boundBackend[T]{subsystem: subsystem, planner: p, selector: selector}
}

type boundBackend[T any] struct {
	subsystem devices.Subsystem
	planner   SubtreePlanner[T]
	selector  func(devices.Config) map[string]T
}

func (b *boundBackend[T]) Subsystem() devices.Subsystem {
	return b.subsystem
}

func (b *boundBackend[T]) Plan(actions ActionSet, current, target devices.Config) result.Result[*Plan] {
	cur := b.selector(current)
	if cur == nil {
		cur = map[string]T{}
	}
	tgt := b.selector(target)
	if tgt == nil {
		tgt = map[string]T{}
	}
	return b.planner.PlanFor(actions, cur, tgt)
}

// Subtree selectors for Bind.
func DiskSubtree(c devices.Config) map[string]devices.Disk    { return c.Disk }
func LVMVGSubtree(c devices.Config) map[string]devices.Entity { return c.LVMVG }
func MdadmSubtree(c devices.Config) map[string]devices.Entity { return c.Mdadm }
func NodevSubtree(c devices.Config) map[string]devices.Nodev  { return c.Nodev }
func ZpoolSubtree(c devices.Config) map[string]devices.Entity { return c.Zpool }
