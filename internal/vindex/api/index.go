package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/vindex/internal/vindex/entity"
	"github.com/jimyag/vindex/pkg/apierror"
	"github.com/jimyag/vindex/pkg/ginx"
	"github.com/rs/zerolog"
)

// CombineServiceInterface 定义去重合并查询的接口
type CombineServiceInterface interface {
	Summarize(ctx context.Context, req *entity.DescribeReportRequest) (*entity.DescribeReportResponse, error)
	ListOutput(ctx context.Context, req *entity.ListOutputRequest) (*entity.ListOutputResponse, error)
	Stats(ctx context.Context) (*entity.IndexStats, error)
}

type Index struct {
	combineService CombineServiceInterface
}

func NewIndex(combineService CombineServiceInterface) *Index {
	return &Index{
		combineService: combineService,
	}
}

func (i *Index) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/report", ginx.Adapt5(i.DescribeReport))
	router.GET("/output", ginx.Adapt5(i.ListOutput))
	router.GET("/stats", ginx.Adapt3(i.DescribeStats))
}

// DescribeReport 根据当前索引计算合并统计，不修改输出映射
func (i *Index) DescribeReport(ctx *gin.Context, req *entity.DescribeReportRequest) (*entity.DescribeReportResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("topN", req.TopN).Msg("DescribeReport called")

	resp, err := i.combineService.Summarize(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to summarize index")
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to summarize index.", err)
	}
	if resp.Report.TotalFiles == 0 {
		return nil, apierror.ErrIndexNotFound
	}

	logger.Debug().
		Int("files", resp.Report.TotalFiles).
		Int("groups", len(resp.Report.Groups)).
		Msg("Report computed")
	return resp, nil
}

func (i *Index) ListOutput(ctx *gin.Context, req *entity.ListOutputRequest) (*entity.ListOutputResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("prefix", req.Prefix).
		Int("maxResults", req.MaxResults).
		Msg("ListOutput called")

	resp, err := i.combineService.ListOutput(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list output mapping")
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list output mapping.", err)
	}
	return resp, nil
}

// DescribeStats 返回索引和输出映射的记录数
func (i *Index) DescribeStats(ctx *gin.Context) (*entity.IndexStats, error) {
	logger := zerolog.Ctx(ctx)

	stats, err := i.combineService.Stats(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count index records")
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to count index records.", err)
	}
	return stats, nil
}
