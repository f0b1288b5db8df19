package repository

import (
	"context"
	"time"

	"github.com/jimyag/vindex/internal/vindex/repository/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FileRepository 文件仓库接口
type FileRepository interface {
	InsertIfAbsent(ctx context.Context, file *model.File) (bool, error)
	ListByDirectory(ctx context.Context, directoryID uint) ([]*model.File, error)
	ListWithPaths(ctx context.Context) ([]*model.FileWithPath, error)
	CountByVolume(ctx context.Context, volumeID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository 创建文件仓库
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

// InsertIfAbsent 插入文件记录，(directory_id, name) 已存在时不做任何修改
// 返回是否真正插入了新记录
func (r *fileRepository) InsertIfAbsent(ctx context.Context, file *model.File) (bool, error) {
	if file.IndexedAt.IsZero() {
		file.IndexedAt = time.Now()
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(file)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByDirectory 列出目录下的文件
func (r *fileRepository) ListByDirectory(ctx context.Context, directoryID uint) ([]*model.File, error) {
	var files []*model.File
	err := r.db.WithContext(ctx).
		Where("directory_id = ?", directoryID).
		Order("id").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ListWithPaths 联合目录表列出所有文件，按文件 ID 排序
func (r *fileRepository) ListWithPaths(ctx context.Context) ([]*model.FileWithPath, error) {
	var rows []*model.FileWithPath
	err := r.db.WithContext(ctx).
		Table("files").
		Select("files.id, directories.volume_id, directories.path AS dir_path, files.name, files.size, files.created_at, files.modified_at").
		Joins("JOIN directories ON directories.id = files.directory_id").
		Order("files.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByVolume 统计卷下的文件数
func (r *fileRepository) CountByVolume(ctx context.Context, volumeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.File{}).
		Joins("JOIN directories ON directories.id = files.directory_id").
		Where("directories.volume_id = ?", volumeID).
		Count(&count).Error
	return count, err
}

// Count 统计文件总数
func (r *fileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.File{}).Count(&count).Error
	return count, err
}
