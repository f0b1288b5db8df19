package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jimyag/vindex/internal/vindex/entity"
	"github.com/jimyag/vindex/internal/vindex/repository/model"
)

// groupKey 重复分组的键，目录和文件名都不区分大小写
type groupKey struct {
	dir  string
	name string
}

// group 一组具有相同逻辑路径的文件
type group struct {
	key     groupKey
	members []*model.FileWithPath
}

// buildMapping 为每个文件分配输出路径并统计合并结果
//
// rows 必须按文件 ID 升序排列。每组中排名第一的文件使用组的规范路径，
// 其余文件放在以规范路径命名的目录下，文件名为排名序号加原扩展名。
func buildMapping(rows []*model.FileWithPath, topN int) ([]*model.OutputFile, *entity.CombineReport) {
	groups := groupFiles(rows)

	report := &entity.CombineReport{TotalFiles: len(rows)}
	mapping := make([]*model.OutputFile, 0, len(rows))
	for _, g := range groups {
		rank(g.members)

		canonical := outputPath(g.members[0].DirPath, g.members[0].Name)
		for idx, m := range g.members {
			out := canonical
			if idx > 0 {
				out = canonical + "/" + strconv.Itoa(idx) + extension(m.Name)
			}
			mapping = append(mapping, &model.OutputFile{FileID: m.ID, OutPath: out})

			if m.Size != nil {
				report.TotalOutputBytes += *m.Size
			}
		}

		if len(g.members) >= 2 {
			report.DuplicateFileCount += len(g.members)
			report.Groups = append(report.Groups, entity.GroupCount{
				Path:  canonical,
				Count: len(g.members),
			})
		}
	}

	// groups 已按路径排序，稳定排序后相同成员数的分组按路径升序
	sort.SliceStable(report.Groups, func(i, j int) bool {
		return report.Groups[i].Count > report.Groups[j].Count
	})
	report.TopGroups = report.Groups
	if topN > 0 && len(report.TopGroups) > topN {
		report.TopGroups = report.TopGroups[:topN]
	}
	return mapping, report
}

// groupFiles 按规范化后的目录和文件名分组，组按键排序，组内保持 rows 的顺序
func groupFiles(rows []*model.FileWithPath) []*group {
	index := make(map[groupKey]*group)
	var groups []*group
	for _, row := range rows {
		key := groupKey{
			dir:  strings.ToLower(normalizeDir(row.DirPath)),
			name: strings.ToLower(row.Name),
		}
		g, ok := index[key]
		if !ok {
			g = &group{key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, row)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].key.dir != groups[j].key.dir {
			return groups[i].key.dir < groups[j].key.dir
		}
		return groups[i].key.name < groups[j].key.name
	})
	return groups
}

// rank 按修改时间、创建时间、大小降序排列组内文件，未知值排在最后
// 全部相同时保持原有顺序
func rank(members []*model.FileWithPath) {
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if c := compareTimeDesc(a.ModifiedAt, b.ModifiedAt); c != 0 {
			return c < 0
		}
		if c := compareTimeDesc(a.CreatedAt, b.CreatedAt); c != 0 {
			return c < 0
		}
		return compareInt64Desc(a.Size, b.Size) < 0
	})
}

func compareTimeDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.After(*b):
		return -1
	case b.After(*a):
		return 1
	}
	return 0
}

func compareInt64Desc(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	}
	return 0
}

// normalizeDir 统一使用 "/" 作为分隔符并去掉末尾的分隔符
func normalizeDir(dir string) string {
	return strings.TrimRight(strings.ReplaceAll(dir, `\`, "/"), "/")
}

// outputPath 返回目录和文件名组成的输出路径，不以 "/" 开头
func outputPath(dir, name string) string {
	return strings.TrimLeft(normalizeDir(dir)+"/"+name, "/")
}

// extension 返回文件名最后一个 "." 开始的扩展名
// 以 "." 开头或结尾的文件名没有扩展名
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}
