package disk

import (
	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/result"
)

const stagePartitionPlan = "generate partition plan"

func (p *Planner) planPartitionContent(actions planner.ActionSet, name, device string, current, target *devices.Content) result.Result[*planner.Plan] {
	if target == nil {
		return result.Ok(planner.NewPlan(actions), stagePartitionPlan)
	}

	if current != nil && current.Type != target.Type {
		return result.Failure[*planner.Plan](
			result.CodeContentTypeChangedNoDestroy,
			result.Details{"name": name, "device": device, "old_type": current.Type, "new_type": target.Type},
			stagePartitionPlan,
		)
	}

	switch target.Type {
	case devices.ContentFilesystem:
		return p.planFilesystem(actions, device, current, target)
	case devices.ContentSwap:
		return p.planSwap(actions, device, current, target)
	default:
		return result.Failure[*planner.Plan](
			result.CodeBugUnsupportedPartitionContentType,
			result.Details{"name": name, "device": device, "type": target.Type},
			stagePartitionPlan,
		)
	}
}

func (p *Planner) planFilesystem(actions planner.ActionSet, device string, current, target *devices.Content) result.Result[*planner.Plan] {
	plan := planner.NewPlan(actions)

	var currentFormat, currentMountpoint string
	if current != nil {
		currentFormat = current.Format
		currentMountpoint = current.Mountpoint
	}

	p.logger.Debug().
		Str("device", device).
		Str("current_format", currentFormat).
		Str("target_format", target.Format).
		Msg("planning filesystem")

	switch {
	case current == nil:
		plan.Append(stepMakeFilesystem(device, target))
	case currentFormat != target.Format:
		return result.Failure[*planner.Plan](
			result.CodeFilesystemChangedNoDestroy,
			result.Details{"device": device, "old_format": currentFormat, "new_format": target.Format},
			stagePartitionPlan,
		)
	}

	if target.Mountpoint != "" && target.Mountpoint != currentMountpoint {
		plan.Append(stepMountFilesystem(device, target))
	}

	return result.Ok(plan, "generate filesystem plan")
}

func (p *Planner) planSwap(actions planner.ActionSet, device string, current, target *devices.Content) result.Result[*planner.Plan] {
	plan := planner.NewPlan(actions)

	if current == nil {
		plan.Append(stepMakeSwap(device, target))
	}
	if current == nil || current.Mountpoint != target.Mountpoint {
		plan.Append(stepActivateSwap(device))
	}

	return result.Ok(plan, "generate swap plan")
}
