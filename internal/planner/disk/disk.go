// Package disk plans whole-disk layouts: partition tables, partitions and
// the content provisioned inside each partition.
package disk

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/result"
)

const stageDiskPlan = "generate disk plan"

// Planner diffs the disk subtree.
type Planner struct {
	logger zerolog.Logger
}

// New creates a disk Planner.
func New(logger zerolog.Logger) *Planner {
	return &Planner{logger: logger.With().Str("subsystem", string(devices.SubsystemDisk)).Logger()}
}

// Backend returns the planner bound to the disk subtree.
func (p *Planner) Backend() planner.Backend {
	return planner.Bind[devices.Disk](devices.SubsystemDisk, p, planner.DiskSubtree)
}

// PlanFor diffs current and target disks. Disks are matched by device path.
// An unmatched disk is only created from scratch when destroy is requested,
// otherwise it is reported as missing. Problems with individual disks are
// collected so that one run reports all of them.
func (p *Planner) PlanFor(actions planner.ActionSet, current, target map[string]devices.Disk) result.Result[*planner.Plan] {
	p.logger.Debug().Int("disks", len(target)).Msg("generating plan for disks")

	errs := result.Collect(stageDiskPlan)
	plan := planner.NewPlan(actions)

	names := sortedNames(target)

	targetDevices := make([]string, 0, len(names))
	for _, name := range names {
		targetDevices = append(targetDevices, target[name].Device)
	}
	if duplicates := findDuplicates(targetDevices); len(duplicates) > 0 {
		errs.Append(result.CodeDuplicatedDiskDevices, result.Details{
			"devices":    targetDevices,
			"duplicates": duplicates,
		})
	}

	currentByName := map[string]devices.Disk{}
	skip := map[string]bool{}

	for _, name := range names {
		tgt := target[name]
		cur, found := findByDevice(current, tgt.Device)

		p.logger.Debug().Str("disk", name).Str("device", tgt.Device).Bool("exists", found).Msg("matching disk")

		if !found {
			if actions.Has(planner.ActionDestroy) {
				plan.Append(stepWipeDisk(name, tgt.Device))
				continue
			}
			errs.Append(result.CodeDiskNotFound, result.Details{
				"disk":   name,
				"device": tgt.Device,
			})
			skip[name] = true
			continue
		}
		currentByName[name] = cur

		// Unsupported target tables are reported by planContent.
		if cur.Content != nil && tgt.Content != nil && supportedTable(tgt.Content.Type) && cur.Content.Type != tgt.Content.Type {
			// Destroy clears the current state, so a type change here can
			// only be applied destructively by a different mode.
			errs.Append(result.CodeDiskTypeChangedNoDestroy, result.Details{
				"disk":     name,
				"device":   tgt.Device,
				"old_type": cur.Content.Type,
				"new_type": tgt.Content.Type,
			})
			skip[name] = true
		}
	}

	for _, name := range names {
		if skip[name] {
			continue
		}
		tgt := target[name]
		if tgt.Content == nil {
			p.logger.Debug().Str("disk", name).Msg("no target content")
			continue
		}

		var cur *devices.Table
		if c, ok := currentByName[name]; ok {
			cur = c.Content
		}

		segment, err := p.planContent(actions, name, tgt.Device, cur, tgt.Content).Unwrap()
		if err != nil {
			errs.Extend(err)
			continue
		}
		plan.Extend(segment)
	}

	if errs.Len() > 0 {
		return result.Fail[*planner.Plan](errs)
	}
	return result.Ok(plan, stageDiskPlan)
}

func (p *Planner) planContent(actions planner.ActionSet, name, device string, current, target *devices.Table) result.Result[*planner.Plan] {
	switch target.Type {
	case devices.TableGPT:
		return p.planGPT(actions, name, device, current, target)
	default:
		return result.Failure[*planner.Plan](
			result.CodeBugUnsupportedDeviceContentType,
			result.Details{"name": name, "device": device, "type": target.Type},
			stageDiskPlan,
		)
	}
}

func supportedTable(t string) bool {
	return t == devices.TableGPT
}

func findByDevice(disks map[string]devices.Disk, device string) (devices.Disk, bool) {
	for _, name := range sortedNames(disks) {
		if disks[name].Device == device {
			return disks[name], true
		}
	}
	return devices.Disk{}, false
}

func findDuplicates(items []string) []string {
	seen := map[string]bool{}
	dup := map[string]bool{}
	for _, item := range items {
		if seen[item] {
			dup[item] = true
		}
		seen[item] = true
	}
	out := make([]string, 0, len(dup))
	for item := range dup {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
