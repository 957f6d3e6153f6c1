// Package inventory observes the block devices of the running machine.
//
// It reads `lsblk --json` and turns the result either into the current-state
// snapshot the reconciler diffs against, or into a starting disko
// configuration for the generate mode.
package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// lsblkColumns are the columns requested from lsblk.
var lsblkColumns = []string{
	"NAME", "KNAME", "PATH", "TYPE", "SIZE", "MODEL", "SERIAL",
	"PTTYPE", "PARTTYPE", "PARTLABEL", "PARTN",
	"FSTYPE", "MOUNTPOINT", "UUID", "PARTUUID",
}

// LsblkArgs returns the arguments lsblk is run with.
func LsblkArgs() []string {
	return []string{"--json", "--bytes", "--tree", "--output", strings.Join(lsblkColumns, ",")}
}

// BlockDevice is one node of the lsblk device tree.
type BlockDevice struct {
	Name       string        `json:"name"`
	KName      string        `json:"kname"`
	Path       string        `json:"path"`
	Type       string        `json:"type"`
	Size       FlexInt       `json:"size"`
	Model      string        `json:"model"`
	Serial     string        `json:"serial"`
	PTType     string        `json:"pttype"`
	PartType   string        `json:"parttype"`
	PartLabel  string        `json:"partlabel"`
	PartN      FlexInt       `json:"partn"`
	FSType     string        `json:"fstype"`
	Mountpoint string        `json:"mountpoint"`
	UUID       string        `json:"uuid"`
	PartUUID   string        `json:"partuuid"`
	Children   []BlockDevice `json:"children,omitempty"`
}

// DevicePath returns the device node, falling back to /dev/<kname> on lsblk
// versions without the PATH column.
func (d BlockDevice) DevicePath() string {
	if d.Path != "" {
		return d.Path
	}
	return "/dev/" + d.KName
}

// FlexInt decodes integers that lsblk emits either as numbers or as strings,
// depending on its version.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", data, err)
	}
	*n = FlexInt(v)
	return nil
}

// ParseLsblk decodes lsblk output and returns the whole disks it lists.
func ParseLsblk(data []byte) ([]BlockDevice, error) {
	var out struct {
		BlockDevices []BlockDevice `json:"blockdevices"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse lsblk output: %w", err)
	}

	disks := make([]BlockDevice, 0, len(out.BlockDevices))
	for _, d := range out.BlockDevices {
		if d.Type != "disk" {
			continue
		}
		disks = append(disks, trim(d))
	}
	return disks, nil
}

func trim(d BlockDevice) BlockDevice {
	d.Model = strings.TrimSpace(d.Model)
	d.Serial = strings.TrimSpace(d.Serial)
	d.PartType = strings.ToLower(d.PartType)
	for i, c := range d.Children {
		d.Children[i] = trim(c)
	}
	return d
}
