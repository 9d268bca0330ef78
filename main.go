package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decker502/shadowpuppet/pkg/app"
	"github.com/decker502/shadowpuppet/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	configPath = flag.String("config", "", "舞台配置文件路径（如 data/stage.yaml），为空时使用默认值和 SHADOW_* 环境变量")
	verbose    = flag.Bool("verbose", false, "详细日志")
)

func main() {
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		ConfigPath: *configPath,
		Verbose:    *verbose,
	})
	if err != nil {
		// 非 verbose 模式下 log 输出已被丢弃
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer gameApp.Close()

	stage := gameApp.Stage()
	w, h := gameApp.Size()
	ebiten.SetTPS(stage.FPS)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(stage.Window.Title)

	// 窗口关闭时 RunGame 返回
	if err := ebiten.RunGame(gameApp); err != nil {
		fmt.Fprintf(os.Stderr, "运行失败: %v\n", err)
		gameApp.Close()
		os.Exit(1)
	}
}
