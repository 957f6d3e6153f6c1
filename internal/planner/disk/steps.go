package disk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/planner"
)

func stepWipeDisk(name, device string) planner.Step {
	return planner.Step{
		Action:      planner.ActionDestroy,
		Commands:    [][]string{{"wipefs", "--all", "--force", device}},
		Description: fmt.Sprintf("destroy partition table on `%s`, at %s", name, device),
		Device:      device,
	}
}

func stepClearPartitionTable(device string) planner.Step {
	return planner.Step{
		Action:      planner.ActionFormat,
		Commands:    [][]string{{"sgdisk", "--clear", device}},
		Description: fmt.Sprintf("create gpt partition table on %s", device),
		Device:      device,
	}
}

// partprobeSettle makes sure the partition device nodes exist before the
// next step touches them.
func partprobeSettle(device string) [][]string {
	return [][]string{
		{"partprobe", device},
		{"udevadm", "trigger", "--subsystem-match=block"},
		{"udevadm", "settle"},
	}
}

func sgdiskCreateArgs(p devices.Partition) []string {
	args := []string{"--align-end"}
	if p.Alignment != 0 {
		args = append(args, "--set-alignment="+strconv.Itoa(p.Alignment))
	}
	return append(args, fmt.Sprintf("--new=%d:%s:%s", p.Index, p.Start, p.End))
}

func sgdiskModifyArgs(p devices.Partition) []string {
	return []string{
		fmt.Sprintf("--change-name=%d:%s", p.Index, p.Label),
		fmt.Sprintf("--typecode=%d:%s", p.Index, p.Type),
	}
}

func stepCreatePartition(device string, p devices.NamedPartition) planner.Step {
	cmd := []string{"sgdisk"}
	cmd = append(cmd, sgdiskCreateArgs(p.Partition)...)
	cmd = append(cmd, sgdiskModifyArgs(p.Partition)...)
	cmd = append(cmd, device)

	return planner.Step{
		Action:      planner.ActionFormat,
		Commands:    append([][]string{cmd}, partprobeSettle(device)...),
		Description: fmt.Sprintf("create partition `%s` (%d) on %s", p.Name, p.Index, device),
		Device:      p.Device,
	}
}

func stepModifyPartition(device string, p devices.NamedPartition) planner.Step {
	cmd := []string{"sgdisk"}
	cmd = append(cmd, sgdiskModifyArgs(p.Partition)...)
	cmd = append(cmd, device)

	return planner.Step{
		Action:      planner.ActionFormat,
		Commands:    append([][]string{cmd}, partprobeSettle(device)...),
		Description: fmt.Sprintf("modify partition `%s` (%d) on %s", p.Name, p.Index, device),
		Device:      p.Device,
	}
}

func stepMakeFilesystem(device string, c *devices.Content) planner.Step {
	cmd := []string{"mkfs." + c.Format}
	cmd = append(cmd, c.ExtraArgs...)
	cmd = append(cmd, device)

	return planner.Step{
		Action:      planner.ActionFormat,
		Commands:    [][]string{cmd},
		Description: fmt.Sprintf("create %s filesystem on %s", c.Format, device),
		Device:      device,
	}
}

func stepMountFilesystem(device string, c *devices.Content) planner.Step {
	options := append(append([]string{}, c.MountOptions...), "X-mount.mkdir")

	return planner.Step{
		Action: planner.ActionMount,
		Commands: [][]string{{
			"mount", device, c.Mountpoint,
			"-t", c.Format,
			"-o", strings.Join(options, ","),
		}},
		Description: fmt.Sprintf("mount %s at %s", device, c.Mountpoint),
		Device:      device,
		Mountpoint:  c.Mountpoint,
	}
}

func stepMakeSwap(device string, c *devices.Content) planner.Step {
	cmd := []string{"mkswap"}
	cmd = append(cmd, c.ExtraArgs...)
	cmd = append(cmd, device)

	return planner.Step{
		Action:      planner.ActionFormat,
		Commands:    [][]string{cmd},
		Description: fmt.Sprintf("create swap on %s", device),
		Device:      device,
	}
}

func stepActivateSwap(device string) planner.Step {
	return planner.Step{
		Action:      planner.ActionMount,
		Commands:    [][]string{{"swapon", device}},
		Description: fmt.Sprintf("activate swap on %s", device),
		Device:      device,
		Mountpoint:  devices.SwapMountpoint,
	}
}
