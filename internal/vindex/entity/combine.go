package entity

import "fmt"

// GroupCount 重复分组及其成员数
type GroupCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// CombineReport 去重合并的统计结果
type CombineReport struct {
	// TotalFiles 参与合并的文件数
	TotalFiles int `json:"totalFiles"`
	// TotalOutputBytes 所有文件大小之和，大小未知的文件按 0 计
	TotalOutputBytes int64 `json:"totalOutputBytes"`
	// DuplicateFileCount 成员数不少于 2 的分组的成员总数
	DuplicateFileCount int `json:"duplicateFileCount"`
	// Groups 所有重复分组，按成员数降序
	Groups []GroupCount `json:"-"`
	// TopGroups Groups 的前 N 项
	TopGroups []GroupCount `json:"topGroups"`
}

// DescribeReportRequest 查询合并统计请求
type DescribeReportRequest struct {
	TopN int `json:"topN,omitempty" form:"topN"`
}

// IsValid 校验请求参数
func (r *DescribeReportRequest) IsValid() error {
	if r.TopN < 0 {
		return fmt.Errorf("topN must not be negative")
	}
	return nil
}

// DescribeReportResponse 查询合并统计响应
type DescribeReportResponse struct {
	Report *CombineReport `json:"report"`
}

// OutputEntry 输出映射
type OutputEntry struct {
	FileID         uint   `json:"fileID"`
	OutPath        string `json:"outPath"`
	DeviceUniqueID string `json:"deviceUniqueID"`
	MountLetter    string `json:"mountLetter"`
	SourcePath     string `json:"sourcePath"`
	Size           *int64 `json:"size,omitempty"`
}

// ListOutputRequest 列出输出映射请求
type ListOutputRequest struct {
	Prefix     string `json:"prefix,omitempty" form:"prefix"`
	MaxResults int    `json:"maxResults,omitempty" form:"maxResults"`
}

// IsValid 校验请求参数
func (r *ListOutputRequest) IsValid() error {
	if r.MaxResults < 0 {
		return fmt.Errorf("maxResults must not be negative")
	}
	return nil
}

// ListOutputResponse 列出输出映射响应
type ListOutputResponse struct {
	Entries []OutputEntry `json:"entries"`
}

// IndexStats 索引中的记录数
type IndexStats struct {
	Files       int64 `json:"files"`
	OutputFiles int64 `json:"outputFiles"`
}
