package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jimyag/vindex/internal/vindex/entity"
	"github.com/jimyag/vindex/internal/vindex/repository"
	"github.com/jimyag/vindex/internal/vindex/repository/model"
	"github.com/jimyag/vindex/pkg/console"
	"github.com/jimyag/vindex/pkg/filetime"
	"github.com/jimyag/vindex/pkg/idgen"
	"github.com/jimyag/vindex/pkg/volumes"
	"github.com/rs/zerolog"
)

// ScanOptions 扫描选项
type ScanOptions struct {
	// IgnoredFolders 相对卷根目录的目录路径，大小写不敏感
	IgnoredFolders []string
	// IgnoredFiles 相对卷根目录的文件路径，大小写不敏感
	IgnoredFiles []string
}

// ScanService 扫描服务，把卷上的目录和文件记录到索引库
//
// 目录只有在其所有文件和子目录都处理完成后才会被标记为已索引，
// 中断后重新扫描会跳过已索引的子树，继续处理剩余部分。
type ScanService struct {
	volumeRepo    repository.VolumeRepository
	dirRepo       repository.DirectoryRepository
	fileRepo      repository.FileRepository
	sessionRepo   repository.SessionRepository
	volumeService *VolumeService
	console       *console.Console
	idGen         *idgen.Generator

	ignoredFolders map[string]struct{}
	ignoredFiles   map[string]struct{}

	openRoot func(rootPath string) billy.Filesystem
	now      func() time.Time
}

// NewScanService 创建扫描服务
func NewScanService(
	repo *repository.Repository,
	volumeService *VolumeService,
	out *console.Console,
	opts ScanOptions,
) *ScanService {
	return &ScanService{
		volumeRepo:     repository.NewVolumeRepository(repo.DB()),
		dirRepo:        repository.NewDirectoryRepository(repo.DB()),
		fileRepo:       repository.NewFileRepository(repo.DB()),
		sessionRepo:    repository.NewSessionRepository(repo.DB()),
		volumeService:  volumeService,
		console:        out,
		idGen:          idgen.DefaultGenerator(),
		ignoredFolders: ignoreSet(opts.IgnoredFolders),
		ignoredFiles:   ignoreSet(opts.IgnoredFiles),
		openRoot: func(rootPath string) billy.Filesystem {
			return osfs.New(rootPath)
		},
		now: time.Now,
	}
}

// ScanVolumes 依次扫描选中的卷
// 选择卷失败时在任何文件系统 I/O 之前返回错误；ctx 取消时在当前文件处理完成后停止
func (s *ScanService) ScanVolumes(ctx context.Context, req *entity.ScanRequest) (*entity.ScanResult, error) {
	logger := zerolog.Ctx(ctx)

	selected, err := s.volumeService.Select(ctx, req.Letters)
	if err != nil {
		return nil, err
	}

	progress := &entity.ScanProgress{}
	result := &entity.ScanResult{}
	for _, vol := range selected {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		s.console.WriteLine("Scanning volume %s (%s)", vol.MountLetter, vol.Label)
		logger.Info().
			Str("letter", vol.MountLetter).
			Str("deviceID", vol.DeviceUniqueID).
			Str("root", vol.RootPath).
			Msg("Scanning volume")

		cancelled, err := s.ScanVolume(ctx, vol, req.DriveName, progress)
		if err != nil {
			return nil, fmt.Errorf("scan volume %s: %w", vol.MountLetter, err)
		}
		if cancelled {
			result.Cancelled = true
			break
		}
	}

	result.Progress = *progress
	if result.Cancelled {
		s.console.WriteLine("Scanning stopped by user request")
	} else {
		s.console.WriteLine("Scanning completed successfully")
	}
	logger.Info().
		Int64("files", progress.Files).
		Int64("bytes", progress.Bytes).
		Bool("cancelled", result.Cancelled).
		Msg("Scan finished")
	return result, nil
}

// ScanVolume 记录卷信息，创建扫描会话并扫描整个卷
// progress 在多个卷之间累加，会话只记录本卷的增量
func (s *ScanService) ScanVolume(
	ctx context.Context,
	vol volumes.Volume,
	driveName string,
	progress *entity.ScanProgress,
) (bool, error) {
	logger := zerolog.Ctx(ctx)
	dbCtx := context.WithoutCancel(ctx)

	record, err := s.volumeRepo.Ensure(dbCtx, &model.Volume{
		DeviceUniqueID: vol.DeviceUniqueID,
		MountLetter:    vol.MountLetter,
		Label:          vol.Label,
		Filesystem:     vol.Filesystem,
		DriveName:      driveName,
	})
	if err != nil {
		return false, fmt.Errorf("ensure volume: %w", err)
	}

	sessionID, err := s.idGen.GenerateSessionID()
	if err != nil {
		return false, fmt.Errorf("generate session id: %w", err)
	}
	session := &model.ScanSession{
		ID:        sessionID,
		VolumeID:  record.ID,
		StartedAt: s.now(),
		Status:    model.ScanSessionRunning,
	}
	if err := s.sessionRepo.Create(dbCtx, session); err != nil {
		return false, fmt.Errorf("create scan session: %w", err)
	}

	before := *progress
	cancelled, scanErr := s.Scan(ctx, record.ID, s.openRoot(vol.RootPath), progress)

	status := model.ScanSessionCompleted
	switch {
	case scanErr != nil:
		status = model.ScanSessionFailed
	case cancelled:
		status = model.ScanSessionCancelled
	}
	finishErr := s.sessionRepo.Finish(dbCtx, sessionID,
		progress.Files-before.Files, progress.Bytes-before.Bytes, status)

	if scanErr != nil {
		return false, scanErr
	}
	if finishErr != nil {
		return cancelled, fmt.Errorf("finish scan session: %w", finishErr)
	}

	logger.Info().
		Uint64("sessionID", sessionID).
		Uint("volumeID", record.ID).
		Str("status", status).
		Msg("Scan session finished")
	return cancelled, nil
}

// Scan 从 root 的根目录开始深度优先扫描
// 返回 true 表示因 ctx 取消而提前结束，已写入的记录保持有效
func (s *ScanService) Scan(
	ctx context.Context,
	volumeID uint,
	root billy.Filesystem,
	progress *entity.ScanProgress,
) (bool, error) {
	w := &walker{
		svc:      s,
		ctx:      ctx,
		dbCtx:    context.WithoutCancel(ctx),
		volumeID: volumeID,
		fs:       root,
		progress: progress,
	}
	state, err := w.walk("")
	return state == walkCancelled, err
}

// ListSessions 列出扫描会话，volumeID 为 0 时列出所有卷
func (s *ScanService) ListSessions(ctx context.Context, req *entity.ListSessionsRequest) (*entity.ListSessionsResponse, error) {
	logger := zerolog.Ctx(ctx)

	records, err := s.sessionRepo.List(ctx, req.VolumeID, req.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("list scan sessions: %w", err)
	}

	sessions := make([]entity.Session, 0, len(records))
	for _, record := range records {
		session, err := sessionModelToEntity(record)
		if err != nil {
			logger.Warn().Err(err).Uint64("sessionID", record.ID).Msg("Failed to convert scan session")
			continue
		}
		sessions = append(sessions, *session)
	}
	return &entity.ListSessionsResponse{Sessions: sessions}, nil
}

// walker 单个卷的一次扫描
type walker struct {
	svc *ScanService
	ctx context.Context
	// dbCtx 不随 ctx 取消，保证已开始的写入能够完成
	dbCtx    context.Context
	volumeID uint
	fs       billy.Filesystem
	progress *entity.ScanProgress
}

// walkState 一个目录子树的扫描结果
type walkState int

const (
	// walkComplete 子树已全部记录，目录已标记完成
	walkComplete walkState = iota
	// walkIncomplete 子树中有无法列举的目录，祖先目录都不能标记完成
	walkIncomplete
	// walkCancelled ctx 已取消
	walkCancelled
)

// child 目录下的文件
type child struct {
	name string
	info os.FileInfo
	err  error
}

// walk 扫描相对卷根目录的 rel
// 忽略的目录视为已完成，不会阻止父目录标记完成
func (w *walker) walk(rel string) (walkState, error) {
	logger := zerolog.Ctx(w.ctx)
	out := w.svc.console

	if w.svc.folderIgnored(rel) {
		out.WriteLine("Found ignored folder: %s", rel)
		logger.Debug().Str("path", rel).Msg("Skip ignored folder")
		return walkComplete, nil
	}

	indexed, err := w.svc.dirRepo.IsIndexed(w.dbCtx, w.volumeID, rel)
	if err != nil {
		return walkComplete, fmt.Errorf("check directory %q: %w", rel, err)
	}
	if indexed {
		return walkComplete, nil
	}

	entries, err := w.fs.ReadDir(fsPath(rel))
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			out.WriteLine("Permission denied: %s", w.display(rel))
		} else {
			out.WriteLine("Error listing directory %s: %v", w.display(rel), err)
		}
		logger.Warn().Err(err).Str("path", rel).Msg("Skip unreadable directory")
		return walkIncomplete, nil
	}

	files, subdirs, incomplete := w.partition(rel, entries)

	dir := &model.Directory{VolumeID: w.volumeID, Path: rel}
	if info, err := w.fs.Stat(fsPath(rel)); err == nil {
		dir.CreatedAt = filetime.Created(info)
		dir.ModifiedAt = filetime.Modified(info)
	} else {
		logger.Debug().Err(err).Str("path", rel).Msg("Failed to stat directory")
	}
	dirID, err := w.svc.dirRepo.Ensure(w.dbCtx, dir)
	if err != nil {
		return walkComplete, fmt.Errorf("ensure directory %q: %w", rel, err)
	}

	for _, f := range files {
		fileRel := joinRel(rel, f.name)
		// 命中忽略文件后，同一目录中剩余的文件都不再记录
		if w.svc.fileIgnored(fileRel) {
			out.WriteLine("Found ignored file: %s", fileRel)
			break
		}

		if f.info == nil {
			out.WriteLine("Error accessing file %s: %v", w.display(fileRel), f.err)
			logger.Warn().Err(f.err).Str("path", fileRel).Msg("Skip inaccessible file")
			continue
		}

		size := f.info.Size()
		_, err := w.svc.fileRepo.InsertIfAbsent(w.dbCtx, &model.File{
			DirectoryID: dirID,
			Name:        f.name,
			Size:        &size,
			CreatedAt:   filetime.Created(f.info),
			ModifiedAt:  filetime.Modified(f.info),
			IndexedAt:   w.svc.now(),
		})
		if err != nil {
			return walkComplete, fmt.Errorf("insert file %q: %w", fileRel, err)
		}

		w.progress.Files++
		w.progress.Bytes += size
		out.Write("\rIndexed %s files, %s",
			humanize.Comma(w.progress.Files), humanize.IBytes(uint64(w.progress.Bytes)))

		if w.ctx.Err() != nil {
			return walkCancelled, nil
		}
	}

	for _, name := range subdirs {
		state, err := w.walk(joinRel(rel, name))
		if err != nil {
			return walkComplete, err
		}
		if state == walkCancelled || w.ctx.Err() != nil {
			return walkCancelled, nil
		}
		if state == walkIncomplete {
			incomplete = true
		}
	}

	if incomplete {
		logger.Debug().Str("path", rel).Msg("Directory left incomplete for a later run")
		return walkIncomplete, nil
	}
	if err := w.svc.dirRepo.MarkIndexed(w.dbCtx, dirID, w.svc.now()); err != nil {
		return walkComplete, fmt.Errorf("mark directory %q indexed: %w", rel, err)
	}
	return walkComplete, nil
}

// partition 按实时的文件类型把目录项分为文件和子目录，保持列举顺序
// 符号链接指向的目录不会进入子目录列表；无法访问的子目录使 incomplete 为 true
func (w *walker) partition(rel string, entries []os.FileInfo) (files []child, subdirs []string, incomplete bool) {
	logger := zerolog.Ctx(w.ctx)

	for _, entry := range entries {
		name := entry.Name()
		info, err := w.fs.Stat(fsPath(joinRel(rel, name)))
		if err != nil {
			if entry.IsDir() {
				w.svc.console.WriteLine("Error accessing directory %s: %v", w.display(joinRel(rel, name)), err)
				logger.Warn().Err(err).Str("path", joinRel(rel, name)).Msg("Skip inaccessible directory")
				incomplete = true
				continue
			}
			files = append(files, child{name: name, err: err})
			continue
		}

		switch {
		case info.IsDir():
			if entry.Mode()&fs.ModeSymlink != 0 {
				logger.Debug().Str("path", joinRel(rel, name)).Msg("Skip symlinked directory")
				continue
			}
			subdirs = append(subdirs, name)
		case info.Mode().IsRegular():
			files = append(files, child{name: name, info: info})
		}
	}
	return files, subdirs, incomplete
}

// display 返回在控制台中显示的绝对路径
func (w *walker) display(rel string) string {
	return filepath.Join(w.fs.Root(), filepath.FromSlash(rel))
}

func (s *ScanService) folderIgnored(rel string) bool {
	if rel == "" {
		return false
	}
	_, ok := s.ignoredFolders[strings.ToLower(rel)]
	return ok
}

func (s *ScanService) fileIgnored(rel string) bool {
	_, ok := s.ignoredFiles[strings.ToLower(rel)]
	return ok
}

// ignoreSet 把忽略列表转换为小写的相对路径集合
func ignoreSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		p = strings.Trim(strings.ReplaceAll(p, `\`, "/"), "/")
		if p == "" {
			continue
		}
		set[strings.ToLower(p)] = struct{}{}
	}
	return set
}

// joinRel 拼接相对卷根目录的路径，根目录为空字符串
func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}

// fsPath 把相对路径转换为 billy 文件系统中的路径
func fsPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
