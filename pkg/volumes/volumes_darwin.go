//go:build darwin

package volumes

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

type darwinLister struct{}

// New 创建当前平台的卷枚举器
func New() Lister {
	return &darwinLister{}
}

func (l *darwinLister) List(ctx context.Context) ([]Volume, error) {
	n, err := unix.Getfsstat(nil, unix.MNT_NOWAIT)
	if err != nil {
		return nil, fmt.Errorf("getfsstat: %w", err)
	}
	buf := make([]unix.Statfs_t, n)
	n, err = unix.Getfsstat(buf, unix.MNT_NOWAIT)
	if err != nil {
		return nil, fmt.Errorf("getfsstat: %w", err)
	}

	var result []Volume
	for _, st := range buf[:n] {
		source := unix.ByteSliceToString(st.Mntfromname[:])
		if !strings.HasPrefix(source, "/dev/") {
			continue
		}
		mountPoint := unix.ByteSliceToString(st.Mntonname[:])

		label := ""
		if strings.HasPrefix(mountPoint, "/Volumes/") {
			label = filepath.Base(mountPoint)
		}

		result = append(result, Volume{
			MountLetter:    mountPoint,
			DeviceUniqueID: fmt.Sprintf("%08x%08x", uint32(st.Fsid.Val[0]), uint32(st.Fsid.Val[1])),
			Label:          label,
			Filesystem:     unix.ByteSliceToString(st.Fstypename[:]),
			RootPath:       mountPoint,
		})
	}
	return result, nil
}
