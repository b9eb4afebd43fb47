// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来：加载嵌入的配置、读取玩家设置、
// 创建模拟和场景管理器，并按需启动事件观察者服务。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/ko2345-cloud/eat-party/pkg/embedded"
	"github.com/ko2345-cloud/eat-party/pkg/game"
	"github.com/ko2345-cloud/eat-party/pkg/observer"
	"github.com/ko2345-cloud/eat-party/pkg/scenes"
)

// gdataAppName 设置存储使用的应用名
const gdataAppName = "eat-party"

// SceneGame 游戏画面的场景名
const SceneGame = "game"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
	// ObserverAddr 事件观察者监听地址，非空时覆盖设置中的地址
	ObserverAddr string
	// GameDuration 单局时长，非 0 时覆盖设置
	GameDuration time.Duration
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	sim          *game.Simulation

	width, height int
	verbose       bool

	cancelObserver context.CancelFunc

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入数据。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	cfgs, err := embedded.LoadConfigs()
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	log.Printf("[Config] Loaded %d fruit types, %d path presets", len(cfgs.Fruits.Fruits), len(cfgs.Paths.Presets))

	settings := openSettings()
	s := settings.GetSettings()
	s.ApplyTo(cfgs.Tuning)
	if cfg.GameDuration > 0 {
		cfgs.Tuning.Game.DurationSec = cfg.GameDuration.Seconds()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("[App] Random seed: %d", seed)

	sim, err := game.NewSimulation(game.SimulationConfig{
		Fruits: cfgs.Fruits,
		Paths:  cfgs.Paths,
		Tuning: cfgs.Tuning,
		Rand:   rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return nil, fmt.Errorf("模拟初始化失败: %w", err)
	}

	a := &App{
		settings: settings,
		sim:      sim,
		width:    int(cfgs.Tuning.Field.Width),
		height:   int(cfgs.Tuning.Field.Height),
		verbose:  cfg.Verbose,
	}

	addr := s.ObserverAddr
	if cfg.ObserverAddr != "" {
		addr = cfg.ObserverAddr
	}
	if addr != "" {
		a.startObserver(addr)
	}

	// 创建场景管理器
	a.sceneManager = game.NewSceneManager()
	a.sceneManager.SetSceneFactory(func(name string) game.Scene {
		if name != SceneGame {
			return nil
		}
		return scenes.NewGameScene(sim, settings, a.width, a.height)
	})
	if !a.sceneManager.Load(SceneGame) {
		return nil, fmt.Errorf("无法创建场景 %q", SceneGame)
	}

	if s.Fullscreen {
		ebiten.SetFullscreen(true)
	}
	return a, nil
}

// openSettings 打开 gdata 存储并加载设置，存储不可用时退化为仅内存设置
func openSettings() *game.SettingsManager {
	gdataManager, err := gdata.Open(gdata.Config{AppName: gdataAppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		gdataManager = nil
	}
	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("[App] Warning: failed to load settings, using defaults: %v", err)
	}
	return settings
}

// startObserver 在后台启动事件广播服务
func (a *App) startObserver(addr string) {
	hub := observer.NewHub(0)
	a.sim.Subscribe(hub)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelObserver = cancel
	go func() {
		if err := observer.Serve(ctx, addr, hub); err != nil {
			log.Printf("[App] Warning: observer stopped: %v", err)
		}
	}()
	log.Printf("[App] Observer listening on ws://%s/events", addr)
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.width, a.height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		if !fullscreen {
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		}
		a.settings.SetFullscreen(fullscreen)
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸（即场地尺寸）
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// WindowSize 返回逻辑屏幕尺寸
func (a *App) WindowSize() (int, int) {
	return a.width, a.height
}

// Shutdown 保存当前场景状态并停止观察者服务
func (a *App) Shutdown() {
	if saveable, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !saveable.SaveOnExit() {
			log.Printf("[App] Warning: scene state was not saved")
		}
	}
	if a.cancelObserver != nil {
		a.cancelObserver()
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
