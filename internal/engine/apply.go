package engine

import (
	"context"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/result"
)

// Apply computes the plan for an apply mode.
//
// Algorithm steps:
// 1. Select the mode and its action set
// 2. Evaluate and validate the target configuration
// 3. Read the current state (skipped when destroy is requested)
// 4. Match current disks reached through device symlinks
// 5. Generate the plan
func (e *Engine) Apply(ctx context.Context, req ApplyRequest) result.Result[*planner.Plan] {
	return result.Chain(SelectMode(req.Mode), func(mode planner.Mode) result.Result[*planner.Plan] {
		actions := mode.Actions()
		e.logger.Debug().Str("mode", string(mode)).Stringer("actions", actions).Msg("selected mode")

		target := result.Chain(e.evaluator.Evaluate(ctx, req.Source), devices.Validate)
		return result.Chain(target, func(target devices.Config) result.Result[*planner.Plan] {
			return result.Chain(e.current(ctx, actions), func(current devices.Config) result.Result[*planner.Plan] {
				return e.planner.GeneratePlan(actions, e.alignDisks(current, target), target)
			})
		})
	})
}

// current reads the machine state. A destroy plans against nothing, so the
// machine is not inspected at all in that case.
func (e *Engine) current(ctx context.Context, actions planner.ActionSet) result.Result[devices.Config] {
	if actions.Has(planner.ActionDestroy) {
		e.logger.Debug().Msg("destroy requested, skipping inventory")
		return result.Ok(devices.Empty(), stageReadCurrent)
	}
	return e.inventory.Current(ctx)
}

// alignDisks renames current disks to the device path the target uses when
// that path is a symlink to them, as /dev/disk/by-id paths are. Target paths
// that cannot be resolved are left for the disk planner to report.
func (e *Engine) alignDisks(current, target devices.Config) devices.Config {
	if len(current.Disk) == 0 {
		return current
	}

	aliases := map[string]string{}
	for name, disk := range target.Disk {
		resolved, err := e.fs.EvalSymlinks(disk.Device)
		if err != nil {
			e.logger.Debug().Err(err).Str("disk", name).Str("device", disk.Device).Msg("cannot resolve device path")
			continue
		}
		if resolved != disk.Device {
			aliases[resolved] = disk.Device
		}
	}
	if len(aliases) == 0 {
		return current
	}

	disks := make(map[string]devices.Disk, len(current.Disk))
	for name, disk := range current.Disk {
		if alias, ok := aliases[disk.Device]; ok {
			e.logger.Debug().Str("disk", name).Str("device", disk.Device).Str("alias", alias).Msg("matched disk through symlink")
			disk.Device = alias
		}
		disks[name] = disk
	}
	current.Disk = disks
	return current
}
