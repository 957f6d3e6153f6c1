package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/evaluator"
	"github.com/danieljhkim/disko/internal/result"
)

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Print debug information",
	Long:  "Print debug information about the inputs disko works from.",
}

var devLsblkCmd = &cobra.Command{
	Use:   "lsblk",
	Short: "Print the lsblk output disko works from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(e *env) result.Result[string] {
			return e.engine.Lsblk(context.Background())
		})
	},
}

var devAnsiCmd = &cobra.Command{
	Use:   "ansi",
	Short: "Print all the colors disko uses in output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(e *env) result.Result[string] {
			return result.Ok(e.renderer.Theme().Swatches(), "run disko dev ansi")
		})
	},
}

var devEvalCmd = &cobra.Command{
	Use:   "eval [disko_file]",
	Short: "Evaluate a disko configuration and print the result",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(e *env) result.Result[any] {
			return result.Chain(sourceFrom(cmd, args), func(src evaluator.Source) result.Result[any] {
				return e.engine.Evaluate(context.Background(), src)
			})
		})
	},
}

var devValidateCmd = &cobra.Command{
	Use:   "validate [disko_file]",
	Short: "Validate a disko configuration file or flake",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(e *env) result.Result[devices.Config] {
			return result.Chain(sourceFrom(cmd, args), func(src evaluator.Source) result.Result[devices.Config] {
				return e.engine.Validate(context.Background(), src)
			})
		})
	},
}

func init() {
	addSourceFlags(devEvalCmd)
	addSourceFlags(devValidateCmd)

	devCmd.AddCommand(devLsblkCmd)
	devCmd.AddCommand(devAnsiCmd)
	devCmd.AddCommand(devEvalCmd)
	devCmd.AddCommand(devValidateCmd)
}
