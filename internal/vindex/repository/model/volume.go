package model

// Volume 卷表
// 以设备唯一标识区分卷，盘符可能在不同机器或不同时间被重新分配
type Volume struct {
	ID             uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	DeviceUniqueID string `gorm:"type:text;not null;uniqueIndex:idx_volumes_device_unique_id;column:device_unique_id" json:"deviceUniqueID"`
	MountLetter    string `gorm:"type:text;not null;column:mount_letter" json:"mountLetter"` // Windows 下为盘符，其他平台为挂载点
	Label          string `gorm:"type:text;column:label" json:"label"`
	Filesystem     string `gorm:"type:text;column:filesystem" json:"filesystem"`
	DriveName      string `gorm:"type:text;column:drive_name" json:"driveName"` // 操作者指定的驱动器名称，用于区分可移动介质
}

// TableName 指定表名
func (Volume) TableName() string {
	return "volumes"
}
