package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/disko/internal/config"
	"github.com/danieljhkim/disko/internal/engine"
	"github.com/danieljhkim/disko/internal/evaluator"
	"github.com/danieljhkim/disko/internal/logging"
	"github.com/danieljhkim/disko/internal/messages"
	"github.com/danieljhkim/disko/internal/result"
)

const stageLoadSettings = "load settings"

// newEngine creates an engine with real implementations of all dependencies.
// Tests replace it to run commands against fakes.
var newEngine = engine.NewDefault

// loadSettings reads the tool settings. Tests replace it to avoid touching
// the user's config directory.
var loadSettings = config.Load

// env is everything a command needs to run and report.
type env struct {
	engine   *engine.Engine
	renderer *messages.Renderer
}

// setup loads settings and builds the engine and renderer. A broken settings
// file is reported with the default renderer.
func setup(cmd *cobra.Command) (*env, bool) {
	invalid := func(path string, err error) (*env, bool) {
		_ = report(cmd, defaultRenderer(), result.Failure[any](
			result.CodeInvalidSettings,
			result.Details{"path": path, "error": err.Error()},
			stageLoadSettings,
		))
		return nil, false
	}

	settings, paths, err := loadSettings()
	if err != nil {
		path := ""
		if paths != nil {
			path = paths.Config
		}
		return invalid(path, err)
	}

	theme := messages.NewTheme()
	switch settings.Color {
	case config.ColorAlways:
		theme.SetEnabled(true)
	case config.ColorNever:
		theme.SetEnabled(false)
	}
	if err := theme.Override(settings.Theme); err != nil {
		return invalid(paths.Config, err)
	}

	logger := logging.New(cmd.ErrOrStderr(), verbose, settings.Color == config.ColorNever)
	logger.Debug().Str("config", paths.Config).Msg("loaded settings")

	return &env{
		engine:   newEngine(settings, logger),
		renderer: messages.NewRenderer(theme, settings.IssueTracker, outputFormat()),
	}, true
}

func defaultRenderer() *messages.Renderer {
	return messages.NewRenderer(messages.NewTheme(), config.DefaultIssueTracker, outputFormat())
}

func outputFormat() messages.Format {
	if jsonOutput {
		return messages.FormatJSON
	}
	return messages.FormatYAML
}

// run sets up the environment and reports the outcome of fn.
func run[T any](cmd *cobra.Command, fn func(e *env) result.Result[T]) error {
	e, ok := setup(cmd)
	if !ok {
		return nil
	}
	return report(cmd, e.renderer, fn(e))
}

// report writes the rendered outcome and records the exit code. Successes go
// to stdout, failures to stderr.
func report[T any](cmd *cobra.Command, renderer result.Renderer, r result.Result[T]) error {
	code, text := result.Finalize(r, renderer)
	exitCode = code

	out := cmd.OutOrStdout()
	if code != result.ExitOK {
		out = cmd.ErrOrStderr()
	}
	if text == "" {
		return nil
	}
	if _, err := fmt.Fprint(out, text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// sourceFrom builds the evaluation source from the positional disko_file
// and the --flake flag.
func sourceFrom(cmd *cobra.Command, args []string) result.Result[evaluator.Source] {
	if len(args) > 1 {
		return result.Failure[evaluator.Source](result.CodeTooManyArguments, nil, "validate args")
	}

	flake, _ := cmd.Flags().GetString("flake")
	src := evaluator.Source{Flake: flake}
	if len(args) == 1 {
		src.File = args[0]
	}
	return result.Ok(src, "validate args")
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("flake", "f", "", "Flake to read the configuration from, as uri#attr")
}
