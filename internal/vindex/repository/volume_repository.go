package repository

import (
	"context"
	"errors"

	"github.com/jimyag/vindex/internal/vindex/repository/model"
	"gorm.io/gorm"
)

// VolumeRepository 卷仓库接口
type VolumeRepository interface {
	Ensure(ctx context.Context, volume *model.Volume) (*model.Volume, error)
	GetByID(ctx context.Context, id uint) (*model.Volume, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*model.Volume, error)
	GetDriveName(ctx context.Context, deviceID string) (string, error)
	List(ctx context.Context) ([]*model.Volume, error)
}

type volumeRepository struct {
	db *gorm.DB
}

// NewVolumeRepository 创建卷仓库
func NewVolumeRepository(db *gorm.DB) VolumeRepository {
	return &volumeRepository{db: db}
}

// Ensure 按设备唯一标识创建或更新卷
// 已存在的卷会刷新盘符、卷标和文件系统；驱动器名称只在原值为空时写入
func (r *volumeRepository) Ensure(ctx context.Context, volume *model.Volume) (*model.Volume, error) {
	var result model.Volume
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("device_unique_id = ?", volume.DeviceUniqueID).First(&result).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = *volume
			result.ID = 0
			return tx.Create(&result).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"mount_letter": volume.MountLetter,
			"label":        volume.Label,
			"filesystem":   volume.Filesystem,
		}
		if result.DriveName == "" && volume.DriveName != "" {
			updates["drive_name"] = volume.DriveName
		}
		if err := tx.Model(&result).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&result, result.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetByID 根据 ID 获取卷
func (r *volumeRepository) GetByID(ctx context.Context, id uint) (*model.Volume, error) {
	var volume model.Volume
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&volume).Error; err != nil {
		return nil, err
	}
	return &volume, nil
}

// GetByDeviceID 根据设备唯一标识获取卷
func (r *volumeRepository) GetByDeviceID(ctx context.Context, deviceID string) (*model.Volume, error) {
	var volume model.Volume
	if err := r.db.WithContext(ctx).Where("device_unique_id = ?", deviceID).First(&volume).Error; err != nil {
		return nil, err
	}
	return &volume, nil
}

// GetDriveName 返回卷的驱动器名称，卷不存在或未命名时返回空字符串
func (r *volumeRepository) GetDriveName(ctx context.Context, deviceID string) (string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.Volume{}).
		Where("device_unique_id = ?", deviceID).
		Limit(1).
		Pluck("drive_name", &names).Error
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

// List 列出所有卷
func (r *volumeRepository) List(ctx context.Context) ([]*model.Volume, error) {
	var volumes []*model.Volume
	if err := r.db.WithContext(ctx).Order("id").Find(&volumes).Error; err != nil {
		return nil, err
	}
	return volumes, nil
}
