package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/decker502/shadowpuppet/pkg/config"
	"golang.org/x/sync/errgroup"
)

// PreflightResult 一个动作片段的检查结果
type PreflightResult struct {
	Action string
	Path   string
	Frames int
	Err    error
}

// ParseFunc 解析一个片段文件
type ParseFunc func(path string) (*clip.File, error)

// Preflight 并发解析动作表中的所有片段
//
// 单个片段失败不会中断其他片段的检查，所有结果按动作表顺序返回。
//
// 参数：
//   - table: 动作表
//   - clipDir: 片段目录
//   - parse: 解析函数，通常为 clip.ParseClipFile
//   - workers: 最大并发数
func Preflight(ctx context.Context, table *config.ActionTable, clipDir string, parse ParseFunc, workers int) ([]PreflightResult, error) {
	results := make([]PreflightResult, len(table.Actions))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, a := range table.Actions {
		results[i] = PreflightResult{Action: a.Name}
		if a.Clip == "" {
			results[i].Err = fmt.Errorf("动作 %s 没有配置片段", a.Name)
			continue
		}
		path := filepath.ToSlash(filepath.Join(clipDir, a.Clip+".json"))
		results[i].Path = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := parse(path)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Frames = len(f.Frames)
			return nil
		})
	}

	// 只有 ctx 被取消时才会返回错误
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// PrintPreflight 输出检查结果，返回失败数
func PrintPreflight(w io.Writer, results []PreflightResult) int {
	failed := 0
	sorted := make([]PreflightResult, len(results))
	copy(sorted, results)
	// 失败的排在后面，便于查看
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Err == nil && sorted[j].Err != nil
	})

	for _, r := range sorted {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "  ✗ %-8s %s: %v\n", r.Action, r.Path, r.Err)
			continue
		}
		fmt.Fprintf(w, "  ✓ %-8s %s: %d 帧\n", r.Action, r.Path, r.Frames)
	}
	fmt.Fprintf(w, "共 %d 个动作，%d 个失败\n", len(results), failed)
	return failed
}
