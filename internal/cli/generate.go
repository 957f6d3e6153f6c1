package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/disko/internal/engine"
	"github.com/danieljhkim/disko/internal/result"
)

var generateOutput string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a disko configuration file from the system's current state",
	Long: `Generate a disko configuration describing the disks attached to this machine.

Disks are keyed by model and serial number, partitions by filesystem or partition
UUID. With --output the configuration is written to a file; the extension selects
JSON or YAML.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(e *env) result.Result[any] {
			if len(args) > 0 {
				return result.Failure[any](result.CodeTooManyArguments, nil, "validate args")
			}
			return e.engine.Generate(context.Background(), engine.GenerateRequest{Output: generateOutput})
		})
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write the configuration to this file")
}
