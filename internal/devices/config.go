// Package devices defines the storage layout snapshot reconciled by disko.
//
// A Config is either the declared target layout or the observed current state
// of a machine. Both use the same shape: five mappings keyed by subsystem,
// each keyed by a stable entity name.
package devices

import (
	"path"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Subsystem names one of the five top-level mappings of a Config.
type Subsystem string

const (
	SubsystemDisk  Subsystem = "disk"
	SubsystemLVMVG Subsystem = "lvm_vg"
	SubsystemMdadm Subsystem = "mdadm"
	SubsystemNodev Subsystem = "nodev"
	SubsystemZpool Subsystem = "zpool"
)

// Subsystems returns all subsystems in reconciliation order.
func Subsystems() []Subsystem {
	return []Subsystem{SubsystemDisk, SubsystemLVMVG, SubsystemMdadm, SubsystemNodev, SubsystemZpool}
}

// Table kinds.
const (
	TableGPT = "gpt"
	// TableMBR is the legacy msdos partition table.
	TableMBR = "table"
)

// Content kinds.
const (
	ContentFilesystem = "filesystem"
	ContentSwap       = "swap"
	ContentLUKS       = "luks"
	ContentLVMPV      = "lvm_pv"
	ContentMDRaid     = "mdraid"
	ContentZFS        = "zfs"
	ContentBtrfs      = "btrfs"
)

// SwapMountpoint is the mountpoint lsblk reports for active swap. Swap
// content uses it as its mountpoint so that activation diffs like a mount.
const SwapMountpoint = "[SWAP]"

// DefaultPartitionType is the sgdisk type code of a Linux filesystem partition.
const DefaultPartitionType = "8300"

// Config is a full storage snapshot.
type Config struct {
	Disk  map[string]Disk   `json:"disk"`
	LVMVG map[string]Entity `json:"lvm_vg"`
	Mdadm map[string]Entity `json:"mdadm"`
	Nodev map[string]Nodev  `json:"nodev"`
	Zpool map[string]Entity `json:"zpool"`
}

// Entity is an opaque declaration for subsystems without a typed schema.
type Entity map[string]any

// Disk is a whole block device.
type Disk struct {
	Type    string `json:"type"`
	Device  string `json:"device"`
	Content *Table `json:"content,omitempty"`
}

// Table is the partition table of a disk.
type Table struct {
	Type       string               `json:"type"`
	Partitions map[string]Partition `json:"partitions,omitempty"`
}

// Partition is a single entry of a partition table.
type Partition struct {
	Index     int      `json:"_index,omitempty"`
	Size      string   `json:"size,omitempty"`
	Start     string   `json:"start,omitempty"`
	End       string   `json:"end,omitempty"`
	Type      string   `json:"type,omitempty"`
	Label     string   `json:"label,omitempty"`
	Alignment int      `json:"alignment,omitempty"`
	Device    string   `json:"device,omitempty"`
	Content   *Content `json:"content,omitempty"`
}

// Content describes what lives inside a partition.
type Content struct {
	Type         string   `json:"type"`
	Format       string   `json:"format,omitempty"`
	Mountpoint   string   `json:"mountpoint,omitempty"`
	MountOptions []string `json:"mountOptions,omitempty"`
	ExtraArgs    []string `json:"extraArgs,omitempty"`

	// Name is the mapper name of luks content.
	Name string `json:"name,omitempty"`
	// VG is the volume group of lvm_pv content.
	VG string `json:"vg,omitempty"`
	// Pool is the pool of zfs content.
	Pool string `json:"pool,omitempty"`
}

// Nodev is a mount without a backing block device, such as tmpfs.
type Nodev struct {
	FSType       string   `json:"fsType"`
	Device       string   `json:"device,omitempty"`
	Mountpoint   string   `json:"mountpoint,omitempty"`
	MountOptions []string `json:"mountOptions,omitempty"`
}

// NamedPartition pairs a partition with its key in the table.
type NamedPartition struct {
	Name string
	Partition
}

// Empty returns a snapshot in which nothing exists.
func Empty() Config {
	return Config{
		Disk:  map[string]Disk{},
		LVMVG: map[string]Entity{},
		Mdadm: map[string]Entity{},
		Nodev: map[string]Nodev{},
		Zpool: map[string]Entity{},
	}
}

// IsEmpty reports whether all five mappings are empty.
func (c Config) IsEmpty() bool {
	for _, s := range Subsystems() {
		if c.Count(s) > 0 {
			return false
		}
	}
	return true
}

// Count returns the number of entities declared under a subsystem.
func (c Config) Count(s Subsystem) int {
	return len(c.Names(s))
}

// Names returns the sorted entity names declared under a subsystem.
func (c Config) Names(s Subsystem) []string {
	var names []string
	switch s {
	case SubsystemDisk:
		names = keys(c.Disk)
	case SubsystemLVMVG:
		names = keys(c.LVMVG)
	case SubsystemMdadm:
		names = keys(c.Mdadm)
	case SubsystemNodev:
		names = keys(c.Nodev)
	case SubsystemZpool:
		names = keys(c.Zpool)
	}
	return names
}

// SortedPartitions returns the partitions ordered by index, then name.
func (t *Table) SortedPartitions() []NamedPartition {
	if t == nil {
		return nil
	}
	out := make([]NamedPartition, 0, len(t.Partitions))
	for name, p := range t.Partitions {
		out = append(out, NamedPartition{Name: name, Partition: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PartitionByIndex finds the partition with the given index.
func (t *Table) PartitionByIndex(index int) (NamedPartition, bool) {
	if t == nil {
		return NamedPartition{}, false
	}
	for name, p := range t.Partitions {
		if p.Index == index {
			return NamedPartition{Name: name, Partition: p}, true
		}
	}
	return NamedPartition{}, false
}

// PartitionDevice returns the device path of partition n on disk. Udev
// symlinks under /dev/disk and /dev/zvol name partitions with a "-part"
// suffix. Kernel names ending in a digit (nvme0n1, mmcblk0, md0, nbd0)
// use a "p" separator; sd and vd names take the bare number.
func PartitionDevice(disk string, n int) string {
	if disk == "" {
		return ""
	}
	num := strconv.Itoa(n)
	if strings.HasPrefix(disk, "/dev/disk/") || strings.HasPrefix(disk, "/dev/zvol/") {
		return disk + "-part" + num
	}
	base := path.Base(disk)
	for _, prefix := range []string{"nvme", "mmcblk", "md", "nbd", "loop"} {
		if strings.HasPrefix(base, prefix) {
			return disk + "p" + num
		}
	}
	if unicode.IsDigit(rune(disk[len(disk)-1])) {
		return disk + "p" + num
	}
	return disk + num
}

// MountDepth returns the number of path components of an absolute
// mountpoint; anything else has depth 0.
func MountDepth(mountpoint string) int {
	if !strings.HasPrefix(mountpoint, "/") {
		return 0
	}
	cleaned := path.Clean(mountpoint)
	if cleaned == "/" {
		return 0
	}
	return strings.Count(cleaned, "/")
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
