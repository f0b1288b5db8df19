package service

import (
	"testing"
	"time"

	"github.com/jimyag/vindex/internal/vindex/entity"
	"github.com/jimyag/vindex/internal/vindex/repository/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func int64Ptr(v int64) *int64 {
	return &v
}

func outPaths(mapping []*model.OutputFile) map[uint]string {
	result := make(map[uint]string, len(mapping))
	for _, m := range mapping {
		result[m.FileID] = m.OutPath
	}
	return result
}

func TestBuildMapping_Ranking(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rows []*model.FileWithPath
		want map[uint]string
	}{
		{
			name: "newer modification wins",
			rows: []*model.FileWithPath{
				{ID: 1, DirPath: "Docs", Name: "a.txt", ModifiedAt: timePtr(t1)},
				{ID: 2, DirPath: "Docs", Name: "a.txt", ModifiedAt: timePtr(t2)},
			},
			want: map[uint]string{2: "Docs/a.txt", 1: "Docs/a.txt/1.txt"},
		},
		{
			name: "creation time breaks modification tie",
			rows: []*model.FileWithPath{
				{ID: 1, DirPath: "Docs", Name: "a.txt", ModifiedAt: timePtr(t2), CreatedAt: timePtr(t1)},
				{ID: 2, DirPath: "Docs", Name: "a.txt", ModifiedAt: timePtr(t2), CreatedAt: timePtr(t2)},
				{ID: 3, DirPath: "Docs", Name: "a.txt", ModifiedAt: timePtr(t1), CreatedAt: timePtr(t2)},
			},
			want: map[uint]string{2: "Docs/a.txt", 1: "Docs/a.txt/1.txt", 3: "Docs/a.txt/2.txt"},
		},
		{
			name: "size breaks time tie",
			rows: []*model.FileWithPath{
				{ID: 1, DirPath: "", Name: "x.bin", ModifiedAt: timePtr(t1), Size: int64Ptr(10)},
				{ID: 2, DirPath: "", Name: "x.bin", ModifiedAt: timePtr(t1), Size: int64Ptr(20)},
			},
			want: map[uint]string{2: "x.bin", 1: "x.bin/1.bin"},
		},
		{
			name: "nulls sort last",
			rows: []*model.FileWithPath{
				{ID: 1, DirPath: "d", Name: "f", Size: int64Ptr(5)},
				{ID: 2, DirPath: "d", Name: "f", ModifiedAt: timePtr(t1)},
				{ID: 3, DirPath: "d", Name: "f"},
			},
			want: map[uint]string{2: "d/f", 1: "d/f/1", 3: "d/f/2"},
		},
		{
			name: "full tie keeps enumeration order",
			rows: []*model.FileWithPath{
				{ID: 7, DirPath: "d", Name: "f.doc"},
				{ID: 8, DirPath: "d", Name: "f.doc"},
				{ID: 9, DirPath: "d", Name: "f.doc"},
			},
			want: map[uint]string{7: "d/f.doc", 8: "d/f.doc/1.doc", 9: "d/f.doc/2.doc"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapping, _ := buildMapping(tt.rows, 10)
			require.Len(t, mapping, len(tt.rows))
			assert.Equal(t, tt.want, outPaths(mapping))
		})
	}
}

func TestBuildMapping_Deterministic(t *testing.T) {
	t.Parallel()

	newest := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	older := time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)
	created := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []*model.FileWithPath{
		// C：修改时间相同，没有创建时间
		{ID: 1, VolumeID: 1, DirPath: "Photos", Name: "IMG.jpg", ModifiedAt: timePtr(older), Size: int64Ptr(1)},
		// A：最新的修改时间
		{ID: 2, VolumeID: 2, DirPath: "Photos", Name: "IMG.jpg", ModifiedAt: timePtr(newest), Size: int64Ptr(2)},
		// B：修改时间与 C 相同，有创建时间
		{ID: 3, VolumeID: 3, DirPath: "Photos", Name: "IMG.jpg", ModifiedAt: timePtr(older), CreatedAt: timePtr(created), Size: int64Ptr(3)},
	}

	for i := 0; i < 3; i++ {
		mapping, report := buildMapping(rows, 10)
		assert.Equal(t, map[uint]string{
			2: "Photos/IMG.jpg",
			3: "Photos/IMG.jpg/1.jpg",
			1: "Photos/IMG.jpg/2.jpg",
		}, outPaths(mapping))
		assert.Equal(t, 3, report.DuplicateFileCount)
		assert.Equal(t, []entity.GroupCount{{Path: "Photos/IMG.jpg", Count: 3}}, report.Groups)
	}
}

func TestBuildMapping_Grouping(t *testing.T) {
	t.Parallel()

	t.Run("case insensitive with mixed separators", func(t *testing.T) {
		t.Parallel()

		rows := []*model.FileWithPath{
			{ID: 1, VolumeID: 1, DirPath: `Docs\Work\`, Name: "Report.TXT", Size: int64Ptr(1)},
			{ID: 2, VolumeID: 2, DirPath: "docs/work", Name: "report.txt", Size: int64Ptr(2)},
		}
		mapping, report := buildMapping(rows, 10)

		// 规范路径使用排名第一的文件的原始大小写
		assert.Equal(t, map[uint]string{
			2: "docs/work/report.txt",
			1: "docs/work/report.txt/1.TXT",
		}, outPaths(mapping))
		assert.Equal(t, 2, report.DuplicateFileCount)
	})

	t.Run("singleton keeps source path", func(t *testing.T) {
		t.Parallel()

		rows := []*model.FileWithPath{
			{ID: 1, DirPath: "", Name: "boot.ini"},
			{ID: 2, DirPath: `Program Files\App`, Name: "app.exe"},
		}
		mapping, report := buildMapping(rows, 10)

		assert.Equal(t, map[uint]string{1: "boot.ini", 2: "Program Files/App/app.exe"}, outPaths(mapping))
		assert.Zero(t, report.DuplicateFileCount)
		assert.Empty(t, report.Groups)
		assert.Equal(t, 2, report.TotalFiles)
	})

	t.Run("output paths are unique", func(t *testing.T) {
		t.Parallel()

		var rows []*model.FileWithPath
		for i := 1; i <= 20; i++ {
			dir := "a"
			if i%2 == 0 {
				dir = "A"
			}
			rows = append(rows, &model.FileWithPath{ID: uint(i), DirPath: dir, Name: "f.txt"})
		}
		mapping, _ := buildMapping(rows, 10)

		seen := make(map[string]bool)
		for _, m := range mapping {
			assert.False(t, seen[m.OutPath], "duplicate output path %s", m.OutPath)
			seen[m.OutPath] = true
		}
		assert.Len(t, seen, 20)
	})
}

func TestBuildMapping_Report(t *testing.T) {
	t.Parallel()

	rows := []*model.FileWithPath{
		{ID: 1, DirPath: "b", Name: "x", Size: int64Ptr(100)},
		{ID: 2, DirPath: "b", Name: "x", Size: nil},
		{ID: 3, DirPath: "a", Name: "y", Size: int64Ptr(10)},
		{ID: 4, DirPath: "a", Name: "y", Size: int64Ptr(1)},
		{ID: 5, DirPath: "c", Name: "z", Size: int64Ptr(5)},
		{ID: 6, DirPath: "c", Name: "z", Size: int64Ptr(5)},
		{ID: 7, DirPath: "c", Name: "z", Size: int64Ptr(5)},
		{ID: 8, DirPath: "d", Name: "single", Size: int64Ptr(1000)},
	}

	_, report := buildMapping(rows, 2)
	assert.Equal(t, 8, report.TotalFiles)
	assert.Equal(t, int64(100+10+1+5+5+5+1000), report.TotalOutputBytes)
	assert.Equal(t, 7, report.DuplicateFileCount)
	assert.Equal(t, []entity.GroupCount{
		{Path: "c/z", Count: 3},
		{Path: "a/y", Count: 2},
		{Path: "b/x", Count: 2},
	}, report.Groups)
	assert.Equal(t, report.Groups[:2], report.TopGroups)

	_, report = buildMapping(nil, 2)
	assert.Zero(t, report.TotalFiles)
	assert.Zero(t, report.TotalOutputBytes)
	assert.Empty(t, report.TopGroups)
}

func TestExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"photo.jpg", ".jpg"},
		{"archive.tar.gz", ".gz"},
		{"README", ""},
		{".bashrc", ""},
		{"trailing.", ""},
		{"Mixed.JPEG", ".JPEG"},
		{"..double", ".double"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extension(tt.name))
		})
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.txt", outputPath("", "a.txt"))
	assert.Equal(t, "a.txt", outputPath(`\`, "a.txt"))
	assert.Equal(t, "Docs/a.txt", outputPath(`Docs\`, "a.txt"))
	assert.Equal(t, "x/y/a.txt", outputPath("/x/y/", "a.txt"))
}
