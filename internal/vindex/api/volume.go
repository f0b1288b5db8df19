package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/vindex/internal/vindex/entity"
	"github.com/jimyag/vindex/pkg/apierror"
	"github.com/jimyag/vindex/pkg/ginx"
	"github.com/rs/zerolog"
)

// VolumeServiceInterface 定义卷服务的接口
type VolumeServiceInterface interface {
	ListIndexed(ctx context.Context) ([]entity.Volume, error)
}

// SessionServiceInterface 定义扫描会话查询的接口
type SessionServiceInterface interface {
	ListSessions(ctx context.Context, req *entity.ListSessionsRequest) (*entity.ListSessionsResponse, error)
}

type Volume struct {
	volumeService  VolumeServiceInterface
	sessionService SessionServiceInterface
}

func NewVolume(volumeService VolumeServiceInterface, sessionService SessionServiceInterface) *Volume {
	return &Volume{
		volumeService:  volumeService,
		sessionService: sessionService,
	}
}

func (v *Volume) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/volumes", ginx.Adapt5(v.ListVolumes))
	router.GET("/sessions", ginx.Adapt5(v.ListSessions))
}

func (v *Volume) ListVolumes(ctx *gin.Context, _ *entity.ListVolumesRequest) (*entity.ListVolumesResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msg("ListVolumes called")

	volumes, err := v.volumeService.ListIndexed(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list volumes")
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list volumes.", err)
	}

	return &entity.ListVolumesResponse{
		Volumes: volumes,
	}, nil
}

func (v *Volume) ListSessions(ctx *gin.Context, req *entity.ListSessionsRequest) (*entity.ListSessionsResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Uint("volumeID", req.VolumeID).
		Int("maxResults", req.MaxResults).
		Msg("ListSessions called")

	resp, err := v.sessionService.ListSessions(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list scan sessions")
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list scan sessions.", err)
	}
	return resp, nil
}
