// cmd/clip_inspect/main.go
// 动作片段检查工具
//
// 用法：
//
//	# 拼接若干动作并输出连续性报告（动作名或片段路径）
//	go run ./cmd/clip_inspect 拱手礼 跳舞 actions/back.json
//
//	# 检查动作表中的所有片段能否解析
//	go run ./cmd/clip_inspect -preflight
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/decker502/shadowpuppet/pkg/config"
	"github.com/decker502/shadowpuppet/pkg/embedded"
	"github.com/decker502/shadowpuppet/pkg/motion"
	"github.com/decker502/shadowpuppet/pkg/player"
)

var (
	stagePath   = flag.String("config", "", "舞台配置文件路径（读取 clip_dir、action_table 和关节修正）")
	clipDir     = flag.String("clip-dir", "", "覆盖片段目录")
	preflight   = flag.Bool("preflight", false, "并发解析动作表中的所有片段")
	workers     = flag.Int("workers", runtime.NumCPU(), "preflight 并发数")
	noCorrect   = flag.Bool("raw", false, "不应用关节修正")
	verboseFlag = flag.Bool("verbose", false, "详细日志")
)

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	// 默认表从当前目录的 data/ 读取
	embedded.Init(os.DirFS("."))

	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer) error {
	stage, err := config.LoadStageConfig(*stagePath)
	if err != nil {
		return err
	}
	table, err := config.LoadActionTable(stage.ActionTable)
	if err != nil {
		return err
	}

	dir := table.ClipDir
	if stage.ClipDir != "" {
		dir = stage.ClipDir
	}
	if *clipDir != "" {
		dir = *clipDir
	}

	if *preflight {
		results, err := Preflight(context.Background(), table, dir, clip.ParseClipFile, *workers)
		if err != nil {
			return err
		}
		if failed := PrintPreflight(w, results); failed > 0 {
			return fmt.Errorf("%d 个片段检查失败", failed)
		}
		return nil
	}

	if flag.NArg() == 0 {
		flag.Usage()
		return fmt.Errorf("需要至少一个动作名或片段路径")
	}

	resolver := player.NewResolver(dir, table.Map())
	var paths []string
	for _, name := range flag.Args() {
		// 逐个解析，工具不受一次最多 3 个动作的限制
		resolved := resolver.Resolve([]string{name})
		if len(resolved) == 0 {
			fmt.Fprintf(w, "⚠️  无法解析: %s\n", name)
			continue
		}
		paths = append(paths, resolved...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("没有可加载的片段")
	}

	corrections := stage.Corrections
	if *noCorrect {
		corrections = motion.Corrections{}
	}
	seq := motion.NewLoader(corrections).Load(paths)
	if seq.Empty() {
		return fmt.Errorf("拼接结果为空: %v", paths)
	}
	BuildReport(seq).Print(w)
	return nil
}
