// Package service 提供扫描、去重合并和卷管理的业务逻辑
package service

import (
	"path"
	"time"

	"github.com/jimyag/vindex/internal/vindex/entity"
	"github.com/jimyag/vindex/internal/vindex/repository/model"
	"github.com/jinzhu/copier"
)

// volumeModelToEntity 将 model.Volume 转换为 entity.Volume
func volumeModelToEntity(m *model.Volume) (*entity.Volume, error) {
	e := &entity.Volume{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}
	return e, nil
}

// sessionModelToEntity 将 model.ScanSession 转换为 entity.Session
func sessionModelToEntity(m *model.ScanSession) (*entity.Session, error) {
	e := &entity.Session{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	// 处理时间字段
	e.StartedAt = m.StartedAt.Format(time.RFC3339)
	if m.FinishedAt != nil {
		e.FinishedAt = m.FinishedAt.Format(time.RFC3339)
	} else {
		e.FinishedAt = ""
	}
	return e, nil
}

// outputModelToEntity 将 model.OutputEntry 转换为 entity.OutputEntry
func outputModelToEntity(m *model.OutputEntry) (*entity.OutputEntry, error) {
	e := &entity.OutputEntry{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}
	e.SourcePath = path.Join(normalizeDir(m.DirPath), m.Name)
	return e, nil
}
