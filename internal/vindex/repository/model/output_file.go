package model

// OutputFile 输出映射表，每个文件一行
type OutputFile struct {
	FileID  uint   `gorm:"primaryKey;autoIncrement:false;column:file_id" json:"fileID"`
	OutPath string `gorm:"type:text;not null;index:idx_output_files_out_path;column:out_path" json:"outPath"`
}

// TableName 指定表名
func (OutputFile) TableName() string {
	return "output_files"
}

// OutputEntry 输出映射与源文件的联合查询结果
type OutputEntry struct {
	FileID         uint   `gorm:"column:file_id"`
	OutPath        string `gorm:"column:out_path"`
	DeviceUniqueID string `gorm:"column:device_unique_id"`
	MountLetter    string `gorm:"column:mount_letter"`
	DirPath        string `gorm:"column:dir_path"`
	Name           string `gorm:"column:name"`
	Size           *int64 `gorm:"column:size"`
}
