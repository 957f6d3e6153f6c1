package engine

import (
	"context"
	"encoding/json"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/evaluator"
	"github.com/danieljhkim/disko/internal/result"
)

// Lsblk returns the raw lsblk output disko works from.
func (e *Engine) Lsblk(ctx context.Context) result.Result[string] {
	return e.inventory.Raw(ctx)
}

// Evaluate returns the evaluated target configuration as a JSON tree.
func (e *Engine) Evaluate(ctx context.Context, src evaluator.Source) result.Result[any] {
	return result.Chain(e.evaluator.Evaluate(ctx, src), func(raw []byte) result.Result[any] {
		var tree any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return result.Failure[any](result.CodeEvalConfigFailed, result.Details{"args": map[string]string{"diskoFile": src.File, "flake": src.Flake}, "stderr": err.Error()}, stageDevEval)
		}
		return result.Ok(tree, stageDevEval)
	})
}

// Validate evaluates and validates the target configuration and returns it
// normalized.
func (e *Engine) Validate(ctx context.Context, src evaluator.Source) result.Result[devices.Config] {
	return result.Chain(result.Chain(e.evaluator.Evaluate(ctx, src), devices.Validate), func(cfg devices.Config) result.Result[devices.Config] {
		return result.Ok(cfg, stageDevValidate)
	})
}
