package disk

import (
	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/result"
)

const stageGPTPlan = "generate gpt plan"

// planGPT creates or modifies partitions first, then provisions their
// content. Partitions are matched by index.
func (p *Planner) planGPT(actions planner.ActionSet, diskName, device string, current, target *devices.Table) result.Result[*planner.Plan] {
	p.logger.Debug().Str("device", device).Msg("generating gpt plan")

	plan := planner.NewPlan(actions)
	errs := result.Collect(stageGPTPlan)

	if current == nil {
		plan.Append(stepClearPartitionTable(device))
	}

	partitions := target.SortedPartitions()
	currentByName := map[string]devices.Partition{}

	for _, part := range partitions {
		cur, ok := current.PartitionByIndex(part.Index)
		if !ok {
			plan.Append(stepCreatePartition(device, part))
			continue
		}
		currentByName[part.Name] = cur.Partition

		if cur.Type == part.Type && cur.Label == part.Label {
			p.logger.Debug().Str("partition", part.Name).Msg("partition has no changes we could apply")
			continue
		}
		plan.Append(stepModifyPartition(device, part))
	}

	for _, part := range partitions {
		var cur *devices.Content
		if c, ok := currentByName[part.Name]; ok {
			cur = c.Content
		}

		segment, err := p.planPartitionContent(actions, diskName+"/"+part.Name, part.Device, cur, part.Content).Unwrap()
		if err != nil {
			errs.Extend(err)
			continue
		}
		plan.Extend(segment)
	}

	if errs.Len() > 0 {
		return result.Fail[*planner.Plan](errs)
	}
	return result.Ok(plan, stageGPTPlan)
}
