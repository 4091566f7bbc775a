package infra

import (
	"fmt"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// MountTableImpl implements domain.MountTable using gopsutil.
type MountTableImpl struct{}

// NewMountTable creates a mount table reader.
func NewMountTable() domain.MountTable {
	return &MountTableImpl{}
}

// IsMounted checks the system mount table for path.
func (mt *MountTableImpl) IsMounted(path string) (bool, error) {
	partitions, err := disk.Partitions(true)
	if err != nil {
		return false, fmt.Errorf("failed to list mounts: %w", err)
	}

	want := filepath.Clean(path)
	for _, p := range partitions {
		if filepath.Clean(p.Mountpoint) == want {
			return true, nil
		}
	}
	return false, nil
}

var _ domain.MountTable = (*MountTableImpl)(nil)
