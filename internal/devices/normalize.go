package devices

import "sort"

// Normalize fills in the defaults a target declaration may leave out:
// missing maps, partition indices, device paths, labels, sgdisk bounds and
// the swap mountpoint. It returns a normalized copy.
func Normalize(c Config) Config {
	out := Empty()
	for name, d := range c.Disk {
		out.Disk[name] = normalizeDisk(name, d)
	}
	for name, e := range c.LVMVG {
		out.LVMVG[name] = e
	}
	for name, e := range c.Mdadm {
		out.Mdadm[name] = e
	}
	for name, n := range c.Nodev {
		if n.Device == "" {
			n.Device = "none"
		}
		out.Nodev[name] = n
	}
	for name, e := range c.Zpool {
		out.Zpool[name] = e
	}
	return out
}

func normalizeDisk(name string, d Disk) Disk {
	if d.Type == "" {
		d.Type = "disk"
	}
	if d.Content == nil {
		return d
	}

	table := &Table{Type: d.Content.Type, Partitions: map[string]Partition{}}

	// Partitions without an explicit index are numbered in name order after
	// the highest explicit one.
	next := 0
	var unindexed []string
	for pname, p := range d.Content.Partitions {
		if p.Index > next {
			next = p.Index
		}
		if p.Index == 0 {
			unindexed = append(unindexed, pname)
		}
	}
	sort.Strings(unindexed)
	indices := map[string]int{}
	for _, pname := range unindexed {
		next++
		indices[pname] = next
	}

	for pname, p := range d.Content.Partitions {
		if p.Index == 0 {
			p.Index = indices[pname]
		}
		table.Partitions[pname] = normalizePartition(name, pname, d.Device, p)
	}
	d.Content = table
	return d
}

func normalizePartition(diskName, name, diskDevice string, p Partition) Partition {
	if p.Type == "" {
		p.Type = DefaultPartitionType
	}
	if p.Label == "" {
		p.Label = "disk-" + diskName + "-" + name
	}
	if p.Device == "" {
		p.Device = PartitionDevice(diskDevice, p.Index)
	}
	if p.Start == "" {
		p.Start = "0"
	}
	if p.End == "" {
		if p.Size == "" || p.Size == "100%" {
			p.End = "-0"
		} else {
			p.End = "+" + p.Size
		}
	}
	if p.Content != nil {
		c := *p.Content
		if c.Type == ContentSwap && c.Mountpoint == "" {
			c.Mountpoint = SwapMountpoint
		}
		p.Content = &c
	}
	return p
}
