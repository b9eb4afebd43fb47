package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ko2345-cloud/eat-party/pkg/app"
	"github.com/ko2345-cloud/eat-party/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	seed := flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
	observe := flag.String("observe", "", "事件观察者监听地址，例如 127.0.0.1:8787")
	duration := flag.Duration("duration", 0, "单局时长，例如 90s（0 表示使用设置中的值）")
	flag.Parse()

	// 初始化嵌入数据
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:      *verbose,
		Seed:         *seed,
		ObserverAddr: *observe,
		GameDuration: *duration,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("游戏初始化失败: %v", err)
	}
	defer gameApp.Shutdown()

	width, height := gameApp.WindowSize()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Eat Party - 吃水果")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	// Start the game loop
	// This will call Update() and Draw() repeatedly until the window is closed
	if err := ebiten.RunGame(gameApp); err != nil {
		log.Printf("[Main] Game loop ended with error: %v", err)
	}
}
