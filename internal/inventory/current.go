package inventory

import (
	"strconv"

	"github.com/danieljhkim/disko/internal/devices"
)

// partitionTypeCodes maps GPT partition type GUIDs to sgdisk type codes.
var partitionTypeCodes = map[string]string{
	"c12a7328-f81f-11d2-ba4b-00a0c93ec93b": "EF00", // EFI system
	"21686148-6449-6e6f-744e-656564454649": "EF02", // BIOS boot
	"0fc63daf-8483-4772-8e79-3d69d8477de4": "8300", // Linux filesystem
	"0657fd6d-a4ab-43c4-84e5-0933c84b4f4f": "8200", // Linux swap
	"e6d6d379-f507-44c2-a23c-238f2a3df928": "8E00", // Linux LVM
	"a19d880f-05fc-4d3b-a006-743f0f84911e": "FD00", // Linux RAID
}

// PartitionTypeCode returns the sgdisk code for a partition type GUID. GUIDs
// without a short code are returned unchanged; sgdisk accepts both.
func PartitionTypeCode(guid string) string {
	if code, ok := partitionTypeCodes[guid]; ok {
		return code
	}
	return guid
}

// CurrentFromDevices builds the current-state snapshot of the given disks.
// Only the disk subsystem is observed; the others are reported empty.
func CurrentFromDevices(disks []BlockDevice) devices.Config {
	cfg := devices.Empty()
	for _, d := range disks {
		cfg.Disk[d.KName] = devices.Disk{
			Type:    "disk",
			Device:  d.DevicePath(),
			Content: currentTable(d),
		}
	}
	return cfg
}

func currentTable(d BlockDevice) *devices.Table {
	switch d.PTType {
	case "":
		return nil
	case "gpt":
	case "dos":
		return &devices.Table{Type: devices.TableMBR}
	default:
		return &devices.Table{Type: d.PTType}
	}

	table := &devices.Table{Type: devices.TableGPT, Partitions: map[string]devices.Partition{}}
	for i, child := range d.Children {
		if child.Type != "part" {
			continue
		}
		index := int(child.PartN)
		if index == 0 {
			index = i + 1
		}
		table.Partitions[child.KName] = devices.Partition{
			Index:   index,
			Size:    strconv.FormatInt(int64(child.Size), 10),
			Type:    PartitionTypeCode(child.PartType),
			Label:   child.PartLabel,
			Device:  child.DevicePath(),
			Content: currentContent(child),
		}
	}
	return table
}

// currentContent classifies a partition by its filesystem signature.
func currentContent(d BlockDevice) *devices.Content {
	switch d.FSType {
	case "":
		return nil
	case "swap":
		return &devices.Content{Type: devices.ContentSwap, Mountpoint: d.Mountpoint}
	case "crypto_LUKS":
		return &devices.Content{Type: devices.ContentLUKS}
	case "LVM2_member":
		return &devices.Content{Type: devices.ContentLVMPV}
	case "linux_raid_member":
		return &devices.Content{Type: devices.ContentMDRaid}
	case "zfs_member":
		return &devices.Content{Type: devices.ContentZFS}
	default:
		return &devices.Content{
			Type:       devices.ContentFilesystem,
			Format:     d.FSType,
			Mountpoint: d.Mountpoint,
		}
	}
}
