package model

import "time"

// 扫描会话状态
const (
	ScanSessionRunning   = "running"
	ScanSessionCompleted = "completed"
	ScanSessionCancelled = "cancelled"
	ScanSessionFailed    = "failed"
)

// ScanSession 扫描会话表，每次扫描一个卷记录一行
type ScanSession struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement:false;column:id" json:"id"` // sonyflake
	VolumeID   uint       `gorm:"not null;index:idx_scan_sessions_volume_id;column:volume_id" json:"volumeID"`
	StartedAt  time.Time  `gorm:"type:datetime;not null;column:started_at" json:"startedAt"`
	FinishedAt *time.Time `gorm:"type:datetime;column:finished_at" json:"finishedAt,omitempty"`
	Files      int64      `gorm:"type:integer;not null;default:0;column:files" json:"files"`
	Bytes      int64      `gorm:"type:integer;not null;default:0;column:bytes" json:"bytes"`
	Status     string     `gorm:"type:text;not null;column:status" json:"status"`
}

// TableName 指定表名
func (ScanSession) TableName() string {
	return "scan_sessions"
}
