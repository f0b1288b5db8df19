package entity

import "fmt"

// ScanRequest 扫描请求
type ScanRequest struct {
	// Letters 要扫描的卷（盘符或挂载点）
	Letters []string
	// DriveName 操作者为尚未命名的卷指定的驱动器名称
	DriveName string
}

// ScanProgress 一次扫描会话中的累计处理量，由调用方持有并在多个卷之间共享
type ScanProgress struct {
	Files int64 `json:"files"`
	Bytes int64 `json:"bytes"`
}

// ScanResult 扫描结果
type ScanResult struct {
	Progress  ScanProgress `json:"progress"`
	Cancelled bool         `json:"cancelled"`
}

// Session 扫描会话
type Session struct {
	ID         uint64 `json:"id"`
	VolumeID   uint   `json:"volumeID"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
	Files      int64  `json:"files"`
	Bytes      int64  `json:"bytes"`
	Status     string `json:"status"`
}

// ListSessionsRequest 列出扫描会话请求
type ListSessionsRequest struct {
	VolumeID   uint `json:"volumeID,omitempty" form:"volumeID"`
	MaxResults int  `json:"maxResults,omitempty" form:"maxResults"`
}

// IsValid 校验请求参数
func (r *ListSessionsRequest) IsValid() error {
	if r.MaxResults < 0 {
		return fmt.Errorf("maxResults must not be negative")
	}
	return nil
}

// ListSessionsResponse 列出扫描会话响应
type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
}
