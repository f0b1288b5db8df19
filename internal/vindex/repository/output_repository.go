package repository

import (
	"context"
	"strings"

	"github.com/jimyag/vindex/internal/vindex/repository/model"
	"gorm.io/gorm"
)

const outputBatchSize = 500

// OutputRepository 输出映射仓库接口
type OutputRepository interface {
	Replace(ctx context.Context, rows []*model.OutputFile) error
	List(ctx context.Context, prefix string, limit int) ([]*model.OutputEntry, error)
	Count(ctx context.Context) (int64, error)
}

type outputRepository struct {
	db *gorm.DB
}

// NewOutputRepository 创建输出映射仓库
func NewOutputRepository(db *gorm.DB) OutputRepository {
	return &outputRepository{db: db}
}

// Replace 清空输出映射表并写入新的映射，整个过程在一个事务中完成
func (r *outputRepository) Replace(ctx context.Context, rows []*model.OutputFile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM output_files").Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, outputBatchSize).Error
	})
}

// List 列出输出映射及其源文件，prefix 非空时只返回输出路径以 prefix 开头的记录
func (r *outputRepository) List(ctx context.Context, prefix string, limit int) ([]*model.OutputEntry, error) {
	var rows []*model.OutputEntry
	query := r.db.WithContext(ctx).
		Table("output_files").
		Select("output_files.file_id, output_files.out_path, volumes.device_unique_id, volumes.mount_letter, directories.path AS dir_path, files.name, files.size").
		Joins("JOIN files ON files.id = output_files.file_id").
		Joins("JOIN directories ON directories.id = files.directory_id").
		Joins("JOIN volumes ON volumes.id = directories.volume_id")

	if prefix != "" {
		query = query.Where("output_files.out_path LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Order("output_files.out_path").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count 统计输出映射行数
func (r *outputRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OutputFile{}).Count(&count).Error
	return count, err
}

// likeEscaper 转义 LIKE 模式中的通配符
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
