package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/disko/internal/inventory"
	"github.com/danieljhkim/disko/internal/result"
)

// Generate describes the current machine as a disko configuration. With an
// output path the configuration is written there and a short confirmation is
// returned instead.
func (e *Engine) Generate(ctx context.Context, req GenerateRequest) result.Result[any] {
	generated := e.inventory.Generate(ctx)
	if req.Output == "" {
		return result.Map(generated, func(g inventory.Generated) any { return g })
	}
	return result.Chain(generated, func(g inventory.Generated) result.Result[any] {
		return e.writeConfig(req.Output, g)
	})
}

func (e *Engine) writeConfig(path string, g inventory.Generated) result.Result[any] {
	failed := func(err error) result.Result[any] {
		return result.Failure[any](result.CodeWriteFileFailed, result.Details{"path": path, "error": err.Error()}, stageWriteConfig)
	}

	data, err := encodeConfig(path, g)
	if err != nil {
		return failed(err)
	}

	abs, err := e.fs.Abs(path)
	if err != nil {
		return failed(err)
	}
	if err := e.fs.AtomicWrite(abs, data, 0644); err != nil {
		return failed(err)
	}

	e.logger.Debug().Str("path", abs).Int("bytes", len(data)).Msg("wrote generated config")
	return result.Ok[any](fmt.Sprintf("Wrote generated config to %s", abs), stageWriteConfig)
}

func encodeConfig(path string, g inventory.Generated) ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var tree any
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		out, err := yaml.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config as yaml: %w", err)
		}
		return out, nil
	default:
		return append(data, '\n'), nil
	}
}
