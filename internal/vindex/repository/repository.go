// Package repository 提供索引库的数据持久化层实现
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jimyag/vindex/internal/vindex/repository/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 纯 Go SQLite 驱动，不需要 CGO
)

// Repository 数据库仓库
type Repository struct {
	db *gorm.DB
}

// New 创建新的 Repository 实例，打开（或创建）数据库并迁移 schema
func New(dbPath string) (*Repository, error) {
	// 确保数据库目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite 只允许一个写者，扫描过程是单线程的，保持单连接避免 SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	if err := migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// migrate 自动迁移并记录 schema 版本
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.SchemaVersion{},
		&model.Volume{},
		&model.Directory{},
		&model.File{},
		&model.OutputFile{},
		&model.ScanSession{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	version := &model.SchemaVersion{
		Version:   model.CurrentSchemaVersion,
		AppliedAt: time.Now(),
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(version).Error; err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// DB 返回 GORM 数据库实例（用于 Repository 实现）
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithContext 返回带上下文的数据库实例
func (r *Repository) WithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// SchemaVersion 返回当前数据库的 schema 版本，未记录时返回 0
func (r *Repository) SchemaVersion(ctx context.Context) (int, error) {
	var version model.SchemaVersion
	err := r.db.WithContext(ctx).Order("version DESC").Limit(1).Find(&version).Error
	if err != nil {
		return 0, err
	}
	return version.Version, nil
}

// Close 关闭数据库连接
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
