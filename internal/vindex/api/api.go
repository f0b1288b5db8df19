// Package api 提供索引库的只读 HTTP 查询接口
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/vindex/internal/vindex/service"
	"github.com/jimyag/vindex/pkg/ginx"
	"github.com/rs/zerolog"
)

type API struct {
	engine *gin.Engine
	server *http.Server

	volume *Volume
	index  *Index
}

// New 创建查询服务
func New(
	address string,
	logger zerolog.Logger,
	volumeService *service.VolumeService,
	scanService *service.ScanService,
	combineService *service.CombineService,
) (*API, error) {
	engine := gin.New()
	engine.ContextWithFallback = true
	engine.Use(gin.Recovery(), ginx.RequestLogger(logger))

	api := &API{
		engine: engine,
		volume: NewVolume(volumeService, scanService),
		index:  NewIndex(combineService),
	}

	group := engine.Group("/api")
	group.GET("/health", ginx.Adapt2(func(*gin.Context) string {
		return "ok"
	}))
	api.volume.RegisterRoutes(group)
	api.index.RegisterRoutes(group)

	api.server = &http.Server{
		Addr:    address,
		Handler: engine,
	}
	return api, nil
}

// Run 启动 HTTP 服务，Shutdown 后返回 nil
func (a *API) Run(ctx context.Context) error {
	zerolog.Ctx(ctx).Info().Str("address", a.server.Addr).Msg("Query server listening")
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭 HTTP 服务
func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Name 服务名称
func (a *API) Name() string {
	return "Query Server"
}
