// Package volumes 枚举当前系统上挂载的存储卷
//
// 每个卷由操作系统分配的设备唯一标识区分，盘符（或挂载点）只是当前的访问位置，
// 同一块可移动硬盘在不同时间、不同机器上可能获得不同的盘符。
//
// 平台实现：
//   - Windows：GetLogicalDrives + GetVolumeNameForVolumeMountPoint + GetVolumeInformation
//   - Linux：/proc/self/mountinfo，设备标识取自 /dev/disk/by-uuid，卷标取自 /dev/disk/by-label
//   - macOS：getfsstat(2)
package volumes

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// ErrUnsupported 当前平台不支持枚举卷
var ErrUnsupported = errors.New("volume enumeration is not supported on this platform")

// Volume 已挂载的卷
type Volume struct {
	// MountLetter Windows 下为盘符（如 "C"），其他平台为挂载点
	MountLetter string `json:"mountLetter"`
	// DeviceUniqueID 设备唯一标识，不随盘符变化
	DeviceUniqueID string `json:"deviceUniqueID"`
	Label          string `json:"label"`
	Filesystem     string `json:"filesystem"`
	// RootPath 卷根目录在本机文件系统中的路径（如 `C:\` 或 "/mnt/data"）
	RootPath string `json:"rootPath"`
}

// Lister 卷枚举接口
type Lister interface {
	List(ctx context.Context) ([]Volume, error)
}

// FindByLetter 按盘符（大小写不敏感）查找卷
func FindByLetter(volumes []Volume, letter string) (Volume, bool) {
	for _, v := range volumes {
		if strings.EqualFold(v.MountLetter, letter) {
			return v, true
		}
	}
	return Volume{}, false
}

// normalizeVolumeGUID 将 `\\?\Volume{GUID}\` 形式的卷名转换为 `Volume{GUID}`
func normalizeVolumeGUID(name string) string {
	if strings.HasPrefix(name, `\\?\Volume{`) && strings.HasSuffix(name, `\`) {
		return name[4 : len(name)-1]
	}
	return name
}

// unescapeUdev 还原 udev 链接名中的 \xHH 转义（如 "My\x20Disk"）
func unescapeUdev(s string) string {
	if !strings.Contains(s, `\x`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) && s[i+1] == 'x' {
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
