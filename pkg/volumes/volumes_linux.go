//go:build linux

package volumes

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/sys/mountinfo"
)

const (
	defaultByUUIDDir  = "/dev/disk/by-uuid"
	defaultByLabelDir = "/dev/disk/by-label"
)

type linuxLister struct {
	byUUIDDir  string
	byLabelDir string
	mounts     func() ([]*mountinfo.Info, error)
}

// New 创建当前平台的卷枚举器
func New() Lister {
	return &linuxLister{
		byUUIDDir:  defaultByUUIDDir,
		byLabelDir: defaultByLabelDir,
		mounts: func() ([]*mountinfo.Info, error) {
			return mountinfo.GetMounts(blockDeviceFilter)
		},
	}
}

// blockDeviceFilter 只保留挂载了块设备文件系统的条目
func blockDeviceFilter(info *mountinfo.Info) (skip, stop bool) {
	if !strings.HasPrefix(info.Source, "/dev/") || strings.HasPrefix(info.Source, "/dev/loop") {
		return true, false
	}
	return false, false
}

func (l *linuxLister) List(ctx context.Context) ([]Volume, error) {
	mounts, err := l.mounts()
	if err != nil {
		return nil, err
	}

	uuids := resolveLinks(l.byUUIDDir)
	labels := resolveLinks(l.byLabelDir)

	seen := make(map[string]bool)
	var result []Volume
	for _, m := range mounts {
		// 子目录的 bind mount 不是卷根目录
		if m.Root != "/" {
			continue
		}
		device := m.Source
		if resolved, err := filepath.EvalSymlinks(device); err == nil {
			device = resolved
		}

		id := uuids[device]
		if id == "" {
			id = device
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		result = append(result, Volume{
			MountLetter:    m.Mountpoint,
			DeviceUniqueID: id,
			Label:          unescapeUdev(labels[device]),
			Filesystem:     m.FSType,
			RootPath:       m.Mountpoint,
		})
	}
	return result, nil
}

// resolveLinks 读取 udev 生成的符号链接目录，返回 设备路径 -> 链接名
func resolveLinks(dir string) map[string]string {
	result := make(map[string]string)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return result
	}
	for _, entry := range entries {
		target, err := filepath.EvalSymlinks(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		result[target] = entry.Name()
	}
	return result
}
