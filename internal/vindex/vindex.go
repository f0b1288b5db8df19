// Package vindex 组装索引库、服务和查询接口
package vindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimmicro/grace"
	"github.com/jimyag/vindex/internal/vindex/api"
	"github.com/jimyag/vindex/internal/vindex/config"
	"github.com/jimyag/vindex/internal/vindex/repository"
	"github.com/jimyag/vindex/internal/vindex/service"
	"github.com/jimyag/vindex/pkg/console"
	"github.com/jimyag/vindex/pkg/volumes"
	"github.com/rs/zerolog"
)

// App 一次命令执行所需的所有组件
type App struct {
	cfg    *config.Config
	logger zerolog.Logger
	repo   *repository.Repository

	Console *console.Console
	Volumes *service.VolumeService
	Scanner *service.ScanService
	Combine *service.CombineService
}

// Options 创建 App 的可选依赖
type Options struct {
	// LogOutput 日志输出，默认 os.Stderr
	LogOutput io.Writer
	// ConsoleOutput 面向操作者的输出，默认 os.Stdout
	ConsoleOutput io.Writer
	// Lister 卷枚举，默认使用当前平台的实现
	Lister volumes.Lister
}

// New 打开索引库并创建所有服务
func New(cfg *config.Config, opts Options) (*App, error) {
	opts = withDefaults(opts)

	logger, err := NewLogger(cfg.Logging, opts.LogOutput)
	if err != nil {
		return nil, err
	}
	zerolog.DefaultContextLogger = &logger

	repo, err := repository.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", cfg.Database.Path, err)
	}
	logger.Debug().Str("path", cfg.Database.Path).Msg("Index opened")

	out := console.New(opts.ConsoleOutput)
	volumeService := service.NewVolumeService(opts.Lister, repo)
	scanService := service.NewScanService(repo, volumeService, out, service.ScanOptions{
		IgnoredFolders: cfg.Scan.IgnoredFolders,
		IgnoredFiles:   cfg.Scan.IgnoredFiles,
	})
	combineService := service.NewCombineService(repo, out, service.CombineOptions{
		TopN:    cfg.Combine.TopN,
		LogPath: cfg.Combine.LogPath,
	})

	return &App{
		cfg:     cfg,
		logger:  logger,
		repo:    repo,
		Console: out,
		Volumes: volumeService,
		Scanner: scanService,
		Combine: combineService,
	}, nil
}

// Config 返回生效的配置
func (a *App) Config() *config.Config {
	return a.cfg
}

// Context 返回携带 App logger 的 context
func (a *App) Context(ctx context.Context) context.Context {
	return a.logger.WithContext(ctx)
}

// Serve 启动只读查询服务，直到收到退出信号
func (a *App) Serve(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	apiServer, err := api.New(a.cfg.Server.Address, a.logger, a.Volumes, a.Scanner, a.Combine)
	if err != nil {
		return fmt.Errorf("create query server: %w", err)
	}

	// 使用 grace.Shepherd 管理服务生命周期
	services := []grace.Grace{
		apiServer,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(a.cfg.Server.ShutdownTimeout),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(a.Context(ctx))
	return nil
}

// Close 关闭索引库
func (a *App) Close() error {
	return a.repo.Close()
}

// zerologLogger 实现 grace.Logger 接口
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	// 如果有参数，使用 Msgf 格式化消息
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

// NewLogger 按配置创建 logger
func NewLogger(cfg config.LoggingConfig, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level: %w", err)
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
