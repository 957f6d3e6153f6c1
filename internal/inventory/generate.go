package inventory

import (
	"fmt"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/result"
)

const (
	stageGenerateConfig = "generate disko config"
	stageGenerateDisk   = "generate disk config"
)

// Generated is a disko configuration as written to a disko file.
type Generated struct {
	Disko GeneratedDisko `json:"disko"`
}

// GeneratedDisko wraps the devices of a generated configuration.
type GeneratedDisko struct {
	Devices devices.Config `json:"devices"`
}

// GenerateFromDevices describes the given disks as a disko configuration.
//
// Disks that cannot be described are reported. If at least one disk
// succeeded the result is still a success, carrying the errors and a
// WARN_GENERATE_PARTIAL_FAILURE advisory.
func GenerateFromDevices(disks []BlockDevice) result.Result[Generated] {
	cfg := devices.Empty()
	errs := result.Collect(stageGenerateConfig)

	var failed, successful []string
	for _, d := range disks {
		disk, err := generateDisk(d).Unwrap()
		if err != nil {
			errs.Extend(err)
			failed = append(failed, d.DevicePath())
			continue
		}
		cfg.Disk[DiskKey(d)] = disk
		successful = append(successful, d.DevicePath())
	}

	generated := Generated{Disko: GeneratedDisko{Devices: cfg}}
	if len(failed) == 0 {
		return result.Ok(generated, stageGenerateConfig)
	}
	if len(successful) == 0 {
		return result.Fail[Generated](errs)
	}

	advisories := append([]result.Message{}, errs.Messages...)
	advisories = append(advisories, result.NewMessage(result.CodeWarnGeneratePartialFailure, result.Details{
		"kind":       "disk",
		"failed":     failed,
		"successful": successful,
	}))
	return result.Ok(generated, stageGenerateConfig, advisories...)
}

// DiskKey names a generated disk after its hardware identity so the key stays
// stable when kernel names change between boots.
func DiskKey(d BlockDevice) string {
	return fmt.Sprintf("MODEL:%s,SN:%s", d.Model, d.Serial)
}

func generateDisk(d BlockDevice) result.Result[devices.Disk] {
	disk := devices.Disk{Type: "disk", Device: "/dev/" + d.KName}

	switch d.PTType {
	case "":
		return result.Ok(disk, stageGenerateDisk)
	case "gpt":
		disk.Content = generateGPT(d)
		return result.Ok(disk, stageGenerateDisk)
	default:
		return result.Failure[devices.Disk](
			result.CodeUnsupportedPTType,
			result.Details{"device": d.DevicePath(), "pttype": d.PTType},
			stageGenerateDisk,
		)
	}
}

func generateGPT(d BlockDevice) *devices.Table {
	table := &devices.Table{Type: devices.TableGPT, Partitions: map[string]devices.Partition{}}

	index := 0
	for _, child := range d.Children {
		if child.Type != "part" {
			continue
		}
		index++

		// Label and type are carried over so the generated layout plans
		// nothing against the machine it was read from.
		part := devices.Partition{
			Index:   index,
			Size:    sizeKiB(int64(child.Size)),
			Label:   child.PartLabel,
			Content: generateContent(child),
		}
		if child.PartType != "" {
			part.Type = PartitionTypeCode(child.PartType)
		}
		table.Partitions[partitionKey(child)] = part
	}
	return table
}

func partitionKey(d BlockDevice) string {
	if d.UUID != "" {
		return "UUID:" + d.UUID
	}
	return "PARTUUID:" + d.PartUUID
}

// sizeKiB renders a byte count the way sgdisk reads sizes. A bare number
// would be taken as sectors.
func sizeKiB(bytes int64) string {
	return fmt.Sprintf("%dK", bytes/1024)
}

func generateContent(d BlockDevice) *devices.Content {
	switch d.FSType {
	case "":
		return nil
	case "swap":
		return &devices.Content{Type: devices.ContentSwap}
	default:
		return &devices.Content{
			Type:       devices.ContentFilesystem,
			Format:     d.FSType,
			Mountpoint: d.Mountpoint,
		}
	}
}
