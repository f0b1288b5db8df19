package service

import (
	"context"
	"fmt"

	"github.com/jimyag/vindex/internal/vindex/entity"
	"github.com/jimyag/vindex/internal/vindex/repository"
	"github.com/jimyag/vindex/pkg/volumes"
	"github.com/rs/zerolog"
)

// VolumeService 卷服务，负责从操作系统枚举卷并与索引库中的记录对应
type VolumeService struct {
	lister     volumes.Lister
	volumeRepo repository.VolumeRepository
	dirRepo    repository.DirectoryRepository
	fileRepo   repository.FileRepository
}

// NewVolumeService 创建卷服务
func NewVolumeService(lister volumes.Lister, repo *repository.Repository) *VolumeService {
	return &VolumeService{
		lister:     lister,
		volumeRepo: repository.NewVolumeRepository(repo.DB()),
		dirRepo:    repository.NewDirectoryRepository(repo.DB()),
		fileRepo:   repository.NewFileRepository(repo.DB()),
	}
}

// ListAttached 列出当前挂载的卷，没有卷时返回 ErrNoVolumes
func (s *VolumeService) ListAttached(ctx context.Context) ([]volumes.Volume, error) {
	list, err := s.lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list volumes: %w", err)
	}
	if len(list) == 0 {
		return nil, ErrNoVolumes
	}
	return list, nil
}

// Select 按盘符选择要扫描的卷，保持输入顺序并去重
func (s *VolumeService) Select(ctx context.Context, letters []string) ([]volumes.Volume, error) {
	if len(letters) == 0 {
		return nil, ErrNothingSelected
	}

	attached, err := s.ListAttached(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	selected := make([]volumes.Volume, 0, len(letters))
	for _, letter := range letters {
		vol, ok := volumes.FindByLetter(attached, letter)
		if !ok {
			return nil, fmt.Errorf("%w: letter `%s` is unknown", ErrUnknownVolume, letter)
		}
		if seen[vol.DeviceUniqueID] {
			continue
		}
		seen[vol.DeviceUniqueID] = true
		selected = append(selected, vol)
	}
	return selected, nil
}

// DriveNameResolution 驱动器名称解析结果
type DriveNameResolution struct {
	// Name 已知的驱动器名称，Known 为 false 时为空
	Name  string
	Known bool
	// Unnamed 索引库中没有驱动器名称的卷
	Unnamed []string
}

// ResolveDriveName 查询所选卷已记录的驱动器名称
// 恰好找到一个名称时直接复用，否则需要操作者输入
func (s *VolumeService) ResolveDriveName(ctx context.Context, selected []volumes.Volume) (*DriveNameResolution, error) {
	var names []string
	result := &DriveNameResolution{}
	for _, vol := range selected {
		name, err := s.volumeRepo.GetDriveName(ctx, vol.DeviceUniqueID)
		if err != nil {
			return nil, fmt.Errorf("get drive name of %s: %w", vol.MountLetter, err)
		}
		if name != "" {
			names = append(names, name)
		} else {
			result.Unnamed = append(result.Unnamed, vol.MountLetter)
		}
	}

	if len(names) == 1 {
		result.Name = names[0]
		result.Known = true
	}
	return result, nil
}

// ListIndexed 列出索引库中记录的卷及其目录、文件统计
func (s *VolumeService) ListIndexed(ctx context.Context) ([]entity.Volume, error) {
	logger := zerolog.Ctx(ctx)

	records, err := s.volumeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list volumes: %w", err)
	}

	result := make([]entity.Volume, 0, len(records))
	for _, record := range records {
		vol, err := volumeModelToEntity(record)
		if err != nil {
			logger.Warn().Err(err).Uint("volumeID", record.ID).Msg("Failed to convert volume")
			continue
		}

		stats, err := s.dirRepo.Stats(ctx, record.ID)
		if err != nil {
			return nil, fmt.Errorf("directory stats: %w", err)
		}
		files, err := s.fileRepo.CountByVolume(ctx, record.ID)
		if err != nil {
			return nil, fmt.Errorf("count files: %w", err)
		}

		vol.Directories = stats.Total
		vol.IndexedDirectories = stats.Indexed
		vol.Files = files
		result = append(result, *vol)
	}
	return result, nil
}
