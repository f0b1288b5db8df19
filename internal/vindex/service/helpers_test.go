package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jimyag/vindex/internal/vindex/repository"
	"github.com/jimyag/vindex/pkg/console"
	"github.com/jimyag/vindex/pkg/volumes"
	"github.com/stretchr/testify/require"
)

// testEnv 服务层测试环境
type testEnv struct {
	repo    *repository.Repository
	lister  *volumes.MockLister
	volume  *VolumeService
	scan    *ScanService
	combine *CombineService
	out     *bytes.Buffer
}

func setupTestServices(t *testing.T, scanOpts ScanOptions) *testEnv {
	t.Helper()
	tmpDir := t.TempDir()

	repo, err := repository.New(filepath.Join(tmpDir, "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
	})

	out := &bytes.Buffer{}
	con := console.New(out)
	lister := volumes.NewMockLister()
	volumeService := NewVolumeService(lister, repo)

	return &testEnv{
		repo:    repo,
		lister:  lister,
		volume:  volumeService,
		scan:    NewScanService(repo, volumeService, con, scanOpts),
		combine: NewCombineService(repo, con, CombineOptions{TopN: 10, LogPath: filepath.Join(tmpDir, "combinator.log")}),
		out:     out,
	}
}

// writeTree 在 root 下创建文件，值为文件内容；以 "/" 结尾的键创建空目录
func writeTree(t *testing.T, root string, tree map[string]string) {
	t.Helper()
	for name, content := range tree {
		p := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// faultyFS 可以注入错误并统计调用次数的文件系统
type faultyFS struct {
	billy.Filesystem

	mu           sync.Mutex
	readDirErrs  map[string]error
	statErrs     map[string]error
	readDirCalls int
	statCalls    int
}

func newFaultyFS(root string) *faultyFS {
	return &faultyFS{
		Filesystem:  osfs.New(root),
		readDirErrs: make(map[string]error),
		statErrs:    make(map[string]error),
	}
}

func (f *faultyFS) ReadDir(path string) ([]os.FileInfo, error) {
	f.mu.Lock()
	f.readDirCalls++
	err := f.readDirErrs[path]
	f.mu.Unlock()
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return f.Filesystem.ReadDir(path)
}

func (f *faultyFS) Stat(path string) (os.FileInfo, error) {
	f.mu.Lock()
	f.statCalls++
	err := f.statErrs[path]
	f.mu.Unlock()
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return f.Filesystem.Stat(path)
}

func (f *faultyFS) calls() (readDir, stat int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readDirCalls, f.statCalls
}

func (f *faultyFS) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readDirCalls = 0
	f.statCalls = 0
}

// cancelAfterWriter 在输出第 n 条进度信息后取消 ctx
type cancelAfterWriter struct {
	bytes.Buffer
	remaining int
	cancel    context.CancelFunc
}

func (w *cancelAfterWriter) Write(p []byte) (int, error) {
	if bytes.HasPrefix(p, []byte("\rIndexed")) {
		w.remaining--
		if w.remaining == 0 {
			w.cancel()
		}
	}
	return w.Buffer.Write(p)
}
