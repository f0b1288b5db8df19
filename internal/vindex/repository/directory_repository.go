package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jimyag/vindex/internal/vindex/repository/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DirectoryStats 某个卷的目录统计
type DirectoryStats struct {
	Total   int64
	Indexed int64
}

// DirectoryRepository 目录仓库接口
type DirectoryRepository interface {
	Ensure(ctx context.Context, dir *model.Directory) (uint, error)
	Get(ctx context.Context, volumeID uint, path string) (*model.Directory, error)
	IsIndexed(ctx context.Context, volumeID uint, path string) (bool, error)
	MarkIndexed(ctx context.Context, id uint, at time.Time) error
	List(ctx context.Context, volumeID uint) ([]*model.Directory, error)
	Stats(ctx context.Context, volumeID uint) (*DirectoryStats, error)
}

type directoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository 创建目录仓库
func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{db: db}
}

// Ensure 插入目录记录（已存在则保持不变），返回目录 ID
func (r *directoryRepository) Ensure(ctx context.Context, dir *model.Directory) (uint, error) {
	row := &model.Directory{
		VolumeID:   dir.VolumeID,
		Path:       dir.Path,
		CreatedAt:  dir.CreatedAt,
		ModifiedAt: dir.ModifiedAt,
	}
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		return 0, err
	}

	var id uint
	err := db.Model(&model.Directory{}).
		Where("volume_id = ? AND path = ?", dir.VolumeID, dir.Path).
		Select("id").
		Scan(&id).Error
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Get 根据卷和相对路径获取目录
func (r *directoryRepository) Get(ctx context.Context, volumeID uint, path string) (*model.Directory, error) {
	var dir model.Directory
	err := r.db.WithContext(ctx).
		Where("volume_id = ? AND path = ?", volumeID, path).
		First(&dir).Error
	if err != nil {
		return nil, err
	}
	return &dir, nil
}

// IsIndexed 检查目录是否已完整扫描
func (r *directoryRepository) IsIndexed(ctx context.Context, volumeID uint, path string) (bool, error) {
	dir, err := r.Get(ctx, volumeID, path)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return dir.IndexedAt != nil, nil
}

// MarkIndexed 标记目录扫描完成
func (r *directoryRepository) MarkIndexed(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Directory{}).
		Where("id = ?", id).
		Update("indexed_at", at).Error
}

// List 列出卷下的所有目录
func (r *directoryRepository) List(ctx context.Context, volumeID uint) ([]*model.Directory, error) {
	var dirs []*model.Directory
	err := r.db.WithContext(ctx).
		Where("volume_id = ?", volumeID).
		Order("id").
		Find(&dirs).Error
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// Stats 统计卷下目录总数和已完成数
func (r *directoryRepository) Stats(ctx context.Context, volumeID uint) (*DirectoryStats, error) {
	var stats DirectoryStats
	err := r.db.WithContext(ctx).
		Model(&model.Directory{}).
		Where("volume_id = ?", volumeID).
		Select("COUNT(*) AS total, COUNT(indexed_at) AS indexed").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
