package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/disko/internal/engine"
	"github.com/danieljhkim/disko/internal/evaluator"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/result"
)

// modeCommands returns one command per apply mode. Each prints the plan that
// would bring the disks in line with the configuration.
func modeCommands() []*cobra.Command {
	modes := planner.ApplyModes()
	cmds := make([]*cobra.Command, 0, len(modes))
	for _, mode := range modes {
		cmds = append(cmds, newModeCmd(mode))
	}
	return cmds
}

func newModeCmd(mode planner.Mode) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(mode) + " [disko_file]",
		Short: mode.Description(),
		Long: mode.Description() + `.

The target configuration is read from [disko_file] or from --flake. Only steps
of the actions selected by the mode are planned; the others are reported as
skipped with --verbose.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(e *env) result.Result[*planner.Plan] {
				return result.Chain(sourceFrom(cmd, args), func(src evaluator.Source) result.Result[*planner.Plan] {
					plan := e.engine.Apply(context.Background(), engine.ApplyRequest{
						Mode:   string(mode),
						Source: src,
					})
					return result.Map(plan, trimSkipped)
				})
			})
		},
	}
	addSourceFlags(cmd)
	return cmd
}

// trimSkipped hides skipped steps unless running verbosely.
func trimSkipped(plan *planner.Plan) *planner.Plan {
	if !verbose {
		plan.SkippedSteps = nil
	}
	return plan
}
