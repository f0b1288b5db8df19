// Package filetime 从 os.FileInfo 中提取文件时间
//
// 修改时间在所有平台上都可用；创建时间只在文件系统记录了出生时间的平台上可用
// （Windows、macOS、FreeBSD），其他平台返回 nil。
package filetime

import (
	"os"
	"time"
)

// Modified 返回文件修改时间，FileInfo 未提供时返回 nil
func Modified(fi os.FileInfo) *time.Time {
	if fi == nil {
		return nil
	}
	t := fi.ModTime()
	if t.IsZero() {
		return nil
	}
	return &t
}

// Created 返回文件创建时间，平台不支持时返回 nil
func Created(fi os.FileInfo) *time.Time {
	if fi == nil {
		return nil
	}
	t, ok := birthTime(fi)
	if !ok || t.IsZero() {
		return nil
	}
	return &t
}
