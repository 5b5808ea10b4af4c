package procfs

import (
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/procpulse/procpulse/internal/model"
)

// Filesystems returns the capacity view of mounted physical filesystems.
// gopsutil already filters pseudo-filesystems and handles the statfs
// call; a mount that fails to stat is skipped.
func (s *Source) Filesystems() ([]model.FilesystemUsage, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}

	out := make([]model.FilesystemUsage, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		if seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true
		u, err := disk.Usage(p.Mountpoint)
		if err != nil || u.Total == 0 {
			continue
		}
		out = append(out, model.FilesystemUsage{
			Device:  p.Device,
			Mount:   p.Mountpoint,
			TotalKB: u.Total / 1024,
			FreeKB:  u.Free / 1024,
		})
	}
	return out, nil
}
