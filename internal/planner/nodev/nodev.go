// Package nodev plans mounts that have no backing block device.
package nodev

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/result"
)

const stageNodevPlan = "generate nodev plan"

// Planner diffs the nodev subtree.
type Planner struct {
	logger zerolog.Logger
}

// New creates a nodev Planner.
func New(logger zerolog.Logger) *Planner {
	return &Planner{logger: logger.With().Str("subsystem", string(devices.SubsystemNodev)).Logger()}
}

// Backend returns the planner bound to the nodev subtree.
func (p *Planner) Backend() planner.Backend {
	return planner.Bind[devices.Nodev](devices.SubsystemNodev, p, planner.NodevSubtree)
}

// PlanFor emits a mount for every target entry that declares a mountpoint
// and is not already mounted the same way.
func (p *Planner) PlanFor(actions planner.ActionSet, current, target map[string]devices.Nodev) result.Result[*planner.Plan] {
	plan := planner.NewPlan(actions)

	names := make([]string, 0, len(target))
	for name := range target {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tgt := target[name]
		if tgt.Mountpoint == "" {
			continue
		}
		if cur, ok := current[name]; ok && sameMount(cur, tgt) {
			p.logger.Debug().Str("nodev", name).Msg("already mounted")
			continue
		}
		plan.Append(stepMount(name, tgt))
	}

	return result.Ok(plan, stageNodevPlan)
}

func sameMount(a, b devices.Nodev) bool {
	return a.FSType == b.FSType &&
		a.Device == b.Device &&
		a.Mountpoint == b.Mountpoint &&
		slices.Equal(a.MountOptions, b.MountOptions)
}

func stepMount(name string, n devices.Nodev) planner.Step {
	device := n.Device
	if device == "" {
		device = "none"
	}
	options := append(append([]string{}, n.MountOptions...), "X-mount.mkdir")

	return planner.Step{
		Action: planner.ActionMount,
		Commands: [][]string{{
			"mount", "-t", n.FSType, device, n.Mountpoint,
			"-o", strings.Join(options, ","),
		}},
		Description: fmt.Sprintf("mount %s `%s` at %s", n.FSType, name, n.Mountpoint),
		Mountpoint:  n.Mountpoint,
	}
}
