package model

import "time"

// Directory 目录表
// IndexedAt 为空表示该目录（含所有子目录）尚未扫描完成，是断点续扫的唯一依据
type Directory struct {
	ID         uint       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	VolumeID   uint       `gorm:"not null;uniqueIndex:idx_directories_volume_path;column:volume_id" json:"volumeID"`
	Path       string     `gorm:"type:text;not null;uniqueIndex:idx_directories_volume_path;column:path" json:"path"` // 相对卷根目录，根目录为空字符串
	CreatedAt  *time.Time `gorm:"type:datetime;column:created_at;autoCreateTime:false" json:"createdAt,omitempty"`
	ModifiedAt *time.Time `gorm:"type:datetime;column:modified_at" json:"modifiedAt,omitempty"`
	IndexedAt  *time.Time `gorm:"type:datetime;index:idx_directories_indexed_at;column:indexed_at" json:"indexedAt,omitempty"`
}

// TableName 指定表名
func (Directory) TableName() string {
	return "directories"
}
