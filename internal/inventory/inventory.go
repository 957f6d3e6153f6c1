package inventory

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/execx"
	"github.com/danieljhkim/disko/internal/result"
)

const stageLsblk = "list block devices"

// Inventory reads the machine's block devices through lsblk.
type Inventory struct {
	runner  execx.Runner
	command string
	logger  zerolog.Logger
}

// New creates an Inventory. command is the lsblk binary to run.
func New(runner execx.Runner, command string, logger zerolog.Logger) *Inventory {
	if command == "" {
		command = "lsblk"
	}
	return &Inventory{runner: runner, command: command, logger: logger}
}

// Raw returns lsblk's output verbatim.
func (i *Inventory) Raw(ctx context.Context) result.Result[string] {
	out, err := i.run(ctx).Unwrap()
	if err != nil {
		return result.Fail[string](err)
	}
	return result.Ok(string(out), "run disko dev lsblk")
}

// BlockDevices lists the whole disks of the machine.
func (i *Inventory) BlockDevices(ctx context.Context) result.Result[[]BlockDevice] {
	return result.Chain(i.run(ctx), func(out []byte) result.Result[[]BlockDevice] {
		disks, err := ParseLsblk(out)
		if err != nil {
			return result.Failure[[]BlockDevice](result.CodeCommandFailed, result.Details{
				"command":   append([]string{i.command}, LsblkArgs()...),
				"exit_code": 0,
				"stderr":    err.Error(),
			}, stageLsblk)
		}
		i.logger.Debug().Int("disks", len(disks)).Msg("listed block devices")
		return result.Ok(disks, stageLsblk)
	})
}

// Current returns the current-state snapshot of the machine.
func (i *Inventory) Current(ctx context.Context) result.Result[devices.Config] {
	return result.Map(i.BlockDevices(ctx), CurrentFromDevices)
}

// Generate describes the machine as a disko configuration.
func (i *Inventory) Generate(ctx context.Context) result.Result[Generated] {
	return result.Chain(i.BlockDevices(ctx), GenerateFromDevices)
}

func (i *Inventory) run(ctx context.Context) result.Result[[]byte] {
	args := LsblkArgs()
	i.logger.Debug().Str("command", i.command).Strs("args", args).Msg("running lsblk")

	out, err := i.runner.Run(ctx, i.command, args...)
	if err != nil {
		details := result.Details{"command": append([]string{i.command}, args...), "exit_code": -1, "stderr": err.Error()}
		var cmdErr *execx.CommandError
		if errors.As(err, &cmdErr) {
			details = result.Details(cmdErr.Details())
		}
		return result.Failure[[]byte](result.CodeCommandFailed, details, stageLsblk)
	}
	return result.Ok(out, stageLsblk)
}
