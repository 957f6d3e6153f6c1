package engine

import (
	"github.com/rs/zerolog"

	"github.com/danieljhkim/disko/internal/config"
	"github.com/danieljhkim/disko/internal/evaluator"
	"github.com/danieljhkim/disko/internal/execx"
	"github.com/danieljhkim/disko/internal/fsops"
	"github.com/danieljhkim/disko/internal/inventory"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/planner/disk"
	"github.com/danieljhkim/disko/internal/planner/nodev"
	"github.com/danieljhkim/disko/internal/planner/unsupported"
)

// DefaultBackends returns a backend for every subsystem.
func DefaultBackends(logger zerolog.Logger) []planner.Backend {
	backends := []planner.Backend{
		disk.New(logger).Backend(),
		nodev.New(logger).Backend(),
	}
	return append(backends, unsupported.Backends()...)
}

// NewDefault creates an Engine running real commands on the local machine.
func NewDefault(settings config.Settings, logger zerolog.Logger) *Engine {
	return NewWithRunner(settings, execx.NewExecRunner(), fsops.NewRealFS(), logger)
}

// NewWithRunner creates an Engine whose external commands go through runner.
func NewWithRunner(settings config.Settings, runner execx.Runner, fs fsops.FS, logger zerolog.Logger) *Engine {
	return New(
		evaluator.New(fs, runner, settings.NixCommand, logger),
		inventory.New(runner, settings.LsblkCommand, logger),
		planner.NewReconciler(logger, DefaultBackends(logger)...),
		fs,
		logger,
	)
}
