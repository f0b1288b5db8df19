package service

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jimyag/vindex/internal/vindex/entity"
	"github.com/jimyag/vindex/internal/vindex/repository"
	"github.com/jimyag/vindex/pkg/console"
	"github.com/rs/zerolog"
)

// CombineOptions 去重合并选项
type CombineOptions struct {
	// TopN 控制台摘要中显示的分组数
	TopN int
	// LogPath 完整分组报告的输出文件
	LogPath string
}

// CombineService 去重合并服务，把所有卷上的文件合并到一棵输出目录树中
type CombineService struct {
	fileRepo   repository.FileRepository
	outputRepo repository.OutputRepository
	console    *console.Console
	opts       CombineOptions
}

// NewCombineService 创建去重合并服务
func NewCombineService(repo *repository.Repository, out *console.Console, opts CombineOptions) *CombineService {
	return &CombineService{
		fileRepo:   repository.NewFileRepository(repo.DB()),
		outputRepo: repository.NewOutputRepository(repo.DB()),
		console:    out,
		opts:       opts,
	}
}

// BuildOutputMapping 重新生成输出映射表，写出分组报告并在控制台输出摘要
// 每次调用都会完整重建映射，旧的映射被整体替换
func (s *CombineService) BuildOutputMapping(ctx context.Context) (*entity.CombineReport, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.fileRepo.ListWithPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	mapping, report := buildMapping(rows, s.opts.TopN)
	if err := s.outputRepo.Replace(ctx, mapping); err != nil {
		return nil, fmt.Errorf("replace output mapping: %w", err)
	}
	logger.Info().
		Int("files", report.TotalFiles).
		Int("groups", len(report.Groups)).
		Msg("Output mapping rebuilt")

	logWritten := true
	if err := writeGroupLog(s.opts.LogPath, report.Groups); err != nil {
		logWritten = false
		logger.Warn().Err(err).Str("path", s.opts.LogPath).Msg("Failed to write group log")
	}

	s.printSummary(report, s.opts.TopN)
	if logWritten {
		s.console.WriteLine("")
		s.console.WriteLine("Log written to %s", s.opts.LogPath)
	}
	return report, nil
}

// Summarize 计算合并统计但不修改输出映射表
func (s *CombineService) Summarize(ctx context.Context, req *entity.DescribeReportRequest) (*entity.DescribeReportResponse, error) {
	if err := req.IsValid(); err != nil {
		return nil, err
	}

	rows, err := s.fileRepo.ListWithPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	topN := req.TopN
	if topN == 0 {
		topN = s.opts.TopN
	}
	_, report := buildMapping(rows, topN)
	return &entity.DescribeReportResponse{Report: report}, nil
}

// PrintSummary 在控制台输出合并摘要
func (s *CombineService) PrintSummary(report *entity.CombineReport, topN int) {
	s.printSummary(report, topN)
}

// ListOutput 列出已生成的输出映射
func (s *CombineService) ListOutput(ctx context.Context, req *entity.ListOutputRequest) (*entity.ListOutputResponse, error) {
	logger := zerolog.Ctx(ctx)

	records, err := s.outputRepo.List(ctx, req.Prefix, req.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("list output mapping: %w", err)
	}

	entries := make([]entity.OutputEntry, 0, len(records))
	for _, record := range records {
		e, err := outputModelToEntity(record)
		if err != nil {
			logger.Warn().Err(err).Uint("fileID", record.FileID).Msg("Failed to convert output entry")
			continue
		}
		entries = append(entries, *e)
	}
	return &entity.ListOutputResponse{Entries: entries}, nil
}

// Stats 返回已索引的文件数和输出映射行数
func (s *CombineService) Stats(ctx context.Context) (*entity.IndexStats, error) {
	files, err := s.fileRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	outputs, err := s.outputRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count output mapping: %w", err)
	}
	return &entity.IndexStats{Files: files, OutputFiles: outputs}, nil
}

func (s *CombineService) printSummary(report *entity.CombineReport, topN int) {
	s.console.WriteLine("Total output size: %s", humanize.IBytes(uint64(report.TotalOutputBytes)))
	s.console.WriteLine("Files with duplicates: %d", report.DuplicateFileCount)
	s.console.WriteLine("Top %d duplicated paths:", topN)
	for _, g := range report.TopGroups {
		s.console.WriteLine("  %s: %d", g.Path, g.Count)
	}
}

// writeGroupLog 把所有重复分组写入 path，每行一个分组
func writeGroupLog(path string, groups []entity.GroupCount) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    true,
		PartsOrder: []string{zerolog.MessageFieldName},
	}
	logger := zerolog.New(w)
	for _, g := range groups {
		logger.Log().Msgf("%s -> %d copies", g.Path, g.Count)
	}
	return f.Close()
}
