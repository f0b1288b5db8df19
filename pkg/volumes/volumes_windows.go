//go:build windows

package volumes

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sys/windows"
)

type windowsLister struct{}

// New 创建当前平台的卷枚举器
func New() Lister {
	return &windowsLister{}
}

func (l *windowsLister) List(ctx context.Context) ([]Volume, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, fmt.Errorf("get logical drives: %w", err)
	}

	var result []Volume
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		letter := string(rune('A' + i))
		root := letter + `:\`
		rootPtr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}

		// 网络驱动器、subst 盘符没有卷 GUID
		guid := make([]uint16, windows.MAX_PATH+1)
		if err := windows.GetVolumeNameForVolumeMountPoint(rootPtr, &guid[0], uint32(len(guid))); err != nil {
			continue
		}

		// 没有插入介质的光驱、读卡器会失败
		label := make([]uint16, windows.MAX_PATH+1)
		fsName := make([]uint16, windows.MAX_PATH+1)
		var serial, maxComponentLen, flags uint32
		if err := windows.GetVolumeInformation(
			rootPtr,
			&label[0], uint32(len(label)),
			&serial, &maxComponentLen, &flags,
			&fsName[0], uint32(len(fsName)),
		); err != nil {
			continue
		}

		result = append(result, Volume{
			MountLetter:    letter,
			DeviceUniqueID: normalizeVolumeGUID(windows.UTF16ToString(guid)),
			Label:          strings.TrimSpace(windows.UTF16ToString(label)),
			Filesystem:     strings.TrimSpace(windows.UTF16ToString(fsName)),
			RootPath:       root,
		})
	}
	return result, nil
}
