package model

import "time"

// CurrentSchemaVersion 当前 schema 版本
const CurrentSchemaVersion = 1

// SchemaVersion schema 版本表
type SchemaVersion struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false;column:version" json:"version"`
	AppliedAt time.Time `gorm:"type:datetime;not null;column:applied_at" json:"appliedAt"`
}

// TableName 指定表名
func (SchemaVersion) TableName() string {
	return "schema_version"
}
