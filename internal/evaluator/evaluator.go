// Package evaluator turns a disko file or flake reference into the JSON
// description of the target devices.
//
// JSON and YAML files are read directly. Nix files and flakes are evaluated
// with `nix eval`.
package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/disko/internal/execx"
	"github.com/danieljhkim/disko/internal/fsops"
	"github.com/danieljhkim/disko/internal/result"
)

const (
	stageValidateArgs = "validate args"
	stageEvalFile     = "evaluate disko_file"
	stageEvalFlake    = "evaluate flake"
	stageEvalConfig   = "evaluate disko config"
)

var nixBaseArgs = []string{
	"--extra-experimental-features", "nix-command",
	"--extra-experimental-features", "flakes",
}

var flakeURIPattern = regexp.MustCompile(`^([^#]+)(?:#(.*))?$`)

// Source names where the target configuration comes from. Exactly one of
// File and Flake must be set.
type Source struct {
	File  string
	Flake string
}

// Evaluator evaluates disko configurations.
type Evaluator struct {
	fs     fsops.FS
	runner execx.Runner
	nix    string
	logger zerolog.Logger
}

// New creates an Evaluator. nix is the nix binary to run.
func New(fs fsops.FS, runner execx.Runner, nix string, logger zerolog.Logger) *Evaluator {
	if nix == "" {
		nix = "nix"
	}
	return &Evaluator{fs: fs, runner: runner, nix: nix, logger: logger}
}

// Evaluate returns the JSON of the `disko.devices` attribute of src.
func (e *Evaluator) Evaluate(ctx context.Context, src Source) result.Result[[]byte] {
	switch {
	case src.File == "" && src.Flake == "":
		return result.Failure[[]byte](result.CodeMissingArguments, nil, stageValidateArgs)
	case src.File != "" && src.Flake != "":
		return result.Failure[[]byte](result.CodeTooManyArguments, nil, stageValidateArgs)
	case src.Flake != "":
		return e.evalFlake(ctx, src.Flake)
	default:
		return e.evalFile(ctx, src.File)
	}
}

func (e *Evaluator) evalFile(ctx context.Context, path string) result.Result[[]byte] {
	abs, err := e.fs.Abs(path)
	if err != nil {
		abs = path
	}

	exists, err := e.fs.Exists(abs)
	if err != nil || !exists {
		return result.Failure[[]byte](result.CodeFileNotFound, result.Details{"path": abs}, stageEvalFile)
	}

	args := map[string]string{"diskoFile": abs}
	e.logger.Debug().Str("file", abs).Msg("evaluating disko file")

	switch strings.ToLower(filepath.Ext(abs)) {
	case ".json":
		data, err := e.fs.ReadFile(abs)
		if err != nil {
			return evalFailed(args, err.Error())
		}
		return decodeDevices(args, data)
	case ".yaml", ".yml":
		data, err := e.fs.ReadFile(abs)
		if err != nil {
			return evalFailed(args, err.Error())
		}
		converted, err := yamlToJSON(data)
		if err != nil {
			return evalFailed(args, err.Error())
		}
		return decodeDevices(args, converted)
	default:
		return e.nixEval(ctx, args, "eval", "--impure", "--json", "--expr", fileExpr(abs))
	}
}

func (e *Evaluator) evalFlake(ctx context.Context, uri string) result.Result[[]byte] {
	m := flakeURIPattern.FindStringSubmatch(uri)
	if m == nil || m[2] == "" {
		return result.Failure[[]byte](result.CodeFlakeURINoAttr, result.Details{"flake_uri": uri}, stageEvalFlake)
	}
	flake, attr := m[1], m[2]

	// Local flakes are resolved so the reference does not depend on the
	// working directory nix is started from.
	if exists, err := e.fs.Exists(flake); err == nil && exists {
		if abs, err := e.fs.Abs(flake); err == nil {
			flake = abs
		}
	}

	args := map[string]string{"flake": flake, "flakeAttr": attr}
	e.logger.Debug().Str("flake", flake).Str("attr", attr).Msg("evaluating flake")

	ref := fmt.Sprintf("%s#nixosConfigurations.%s.config.disko.devices", flake, strconv.Quote(attr))
	return e.nixEval(ctx, args, "eval", "--json", ref)
}

func (e *Evaluator) nixEval(ctx context.Context, args map[string]string, cmdArgs ...string) result.Result[[]byte] {
	full := append(append([]string{}, nixBaseArgs...), cmdArgs...)

	out, err := e.runner.Run(ctx, e.nix, full...)
	if err != nil {
		stderr := err.Error()
		var cmdErr *execx.CommandError
		if errors.As(err, &cmdErr) {
			stderr = cmdErr.Stderr
		}
		return evalFailed(args, stderr)
	}
	return decodeDevices(args, out)
}

// fileExpr imports a disko file. Files may be plain attribute sets or
// module-style functions taking lib.
func fileExpr(path string) string {
	return fmt.Sprintf(`let
  f = import %s;
  cfg = if builtins.isFunction f then f { lib = (import <nixpkgs> { }).lib; } else f;
in cfg.disko.devices or cfg`, strconv.Quote(path))
}

// decodeDevices checks that data is a JSON object and unwraps a top-level
// disko.devices attribute.
func decodeDevices(args map[string]string, data []byte) result.Result[[]byte] {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return evalFailed(args, fmt.Sprintf("evaluation did not produce a JSON object: %v", err))
	}

	if disko, ok := top["disko"]; ok && len(top) == 1 {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(disko, &inner); err == nil {
			if devices, ok := inner["devices"]; ok {
				return result.Ok([]byte(devices), stageEvalConfig)
			}
		}
	}
	return result.Ok(bytes.TrimSpace(data), stageEvalConfig)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert yaml to json: %w", err)
	}
	return out, nil
}

func evalFailed(args map[string]string, stderr string) result.Result[[]byte] {
	return result.Failure[[]byte](
		result.CodeEvalConfigFailed,
		result.Details{"args": args, "stderr": stderr},
		stageEvalConfig,
	)
}
