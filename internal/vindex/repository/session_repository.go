package repository

import (
	"context"
	"time"

	"github.com/jimyag/vindex/internal/vindex/repository/model"
	"gorm.io/gorm"
)

// SessionRepository 扫描会话仓库接口
type SessionRepository interface {
	Create(ctx context.Context, session *model.ScanSession) error
	Finish(ctx context.Context, id uint64, files, bytes int64, status string) error
	GetByID(ctx context.Context, id uint64) (*model.ScanSession, error)
	List(ctx context.Context, volumeID uint, limit int) ([]*model.ScanSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建扫描会话仓库
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create 创建扫描会话
func (r *sessionRepository) Create(ctx context.Context, session *model.ScanSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// Finish 结束扫描会话，记录处理数量和最终状态
func (r *sessionRepository) Finish(ctx context.Context, id uint64, files, bytes int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.ScanSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"finished_at": time.Now(),
			"files":       files,
			"bytes":       bytes,
			"status":      status,
		}).Error
}

// GetByID 根据 ID 获取扫描会话
func (r *sessionRepository) GetByID(ctx context.Context, id uint64) (*model.ScanSession, error) {
	var session model.ScanSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// List 列出扫描会话，最新的在前；volumeID 为 0 时列出所有卷
func (r *sessionRepository) List(ctx context.Context, volumeID uint, limit int) ([]*model.ScanSession, error) {
	var sessions []*model.ScanSession
	query := r.db.WithContext(ctx).Model(&model.ScanSession{})
	if volumeID != 0 {
		query = query.Where("volume_id = ?", volumeID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("id DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
