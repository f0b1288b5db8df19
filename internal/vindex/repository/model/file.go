package model

import "time"

// File 文件表
// (directory_id, name) 唯一，重复插入时忽略
type File struct {
	ID          uint       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	DirectoryID uint       `gorm:"not null;uniqueIndex:idx_files_directory_name;column:directory_id" json:"directoryID"`
	Name        string     `gorm:"type:text;not null;uniqueIndex:idx_files_directory_name;column:name" json:"name"`
	Size        *int64     `gorm:"type:integer;column:size" json:"size,omitempty"`
	CreatedAt   *time.Time `gorm:"type:datetime;column:created_at;autoCreateTime:false" json:"createdAt,omitempty"`
	ModifiedAt  *time.Time `gorm:"type:datetime;column:modified_at" json:"modifiedAt,omitempty"`
	IndexedAt   time.Time  `gorm:"type:datetime;not null;column:indexed_at" json:"indexedAt"`
}

// TableName 指定表名
func (File) TableName() string {
	return "files"
}

// FileWithPath 文件与所属目录、卷的联合查询结果
type FileWithPath struct {
	ID         uint       `gorm:"column:id"`
	VolumeID   uint       `gorm:"column:volume_id"`
	DirPath    string     `gorm:"column:dir_path"`
	Name       string     `gorm:"column:name"`
	Size       *int64     `gorm:"column:size"`
	CreatedAt  *time.Time `gorm:"column:created_at"`
	ModifiedAt *time.Time `gorm:"column:modified_at"`
}
