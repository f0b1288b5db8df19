package entity

// Volume 已记录在索引库中的卷
type Volume struct {
	ID                 uint   `json:"id"`
	DeviceUniqueID     string `json:"deviceUniqueID"`
	MountLetter        string `json:"mountLetter"`
	Label              string `json:"label"`
	Filesystem         string `json:"filesystem"`
	DriveName          string `json:"driveName,omitempty"`
	Directories        int64  `json:"directories"`
	IndexedDirectories int64  `json:"indexedDirectories"`
	Files              int64  `json:"files"`
}

// ListVolumesRequest 列出卷请求
type ListVolumesRequest struct{}

// ListVolumesResponse 列出卷响应
type ListVolumesResponse struct {
	Volumes []Volume `json:"volumes"`
}
