package scenes

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/game"
	"github.com/ko2345-cloud/eat-party/pkg/systems"
	"github.com/ko2345-cloud/eat-party/pkg/types"
)

// 浮动得分文字持续的帧数
const popupLifeTicks = 45

// scorePopup 咬中或烧焦时在水果位置显示的得分文字
type scorePopup struct {
	x, y  float64
	text  string
	ticks int
}

// GameScene 吃水果游戏画面
//
// 把鼠标和键盘输入转换成交互信号交给 Simulation，每帧推进一次模拟并绘制结果：
//   - 鼠标位置：嘴部位置（交互点），移动方向作为面部朝向
//   - 左键按住/松开：张嘴/闭嘴，松开时咬合
//   - 空格：直接咬合
//   - 右键拖动：切割指针
//   - R：重新开始；F3：调试显示
type GameScene struct {
	sim      *game.Simulation
	settings *game.SettingsManager // 可为 nil

	width, height int
	showDebug     bool

	lastCursorX, lastCursorY int
	hasCursor                bool

	popups     []scorePopup
	finalScore int
	hasResult  bool

	renderSystem      *systems.RenderSystem
	fireRenderSystem  *systems.FireRenderSystem
	mouthRenderSystem *systems.MouthRenderSystem
}

// NewGameScene 创建游戏画面并订阅模拟事件
//
// 参数:
//   - sim: 已创建的模拟
//   - settings: 设置管理器，可为 nil（调试开关不持久化）
//   - width, height: 逻辑屏幕尺寸
func NewGameScene(sim *game.Simulation, settings *game.SettingsManager, width, height int) *GameScene {
	s := &GameScene{
		sim:      sim,
		settings: settings,
		width:    width,
		height:   height,
	}
	if settings != nil {
		s.showDebug = settings.GetSettings().ShowDebug
	}

	em := sim.EntityManager()
	s.renderSystem = systems.NewRenderSystem(em)
	s.renderSystem.SetShowDebug(s.showDebug)
	s.fireRenderSystem = systems.NewFireRenderSystem(em)
	s.mouthRenderSystem = systems.NewMouthRenderSystem(sim)
	sim.SetFieldSize(float64(width), float64(height))
	sim.Subscribe(s)
	return s
}

// HandleEvent 收集需要在画面上显示的事件
func (s *GameScene) HandleEvent(ev events.Event) {
	switch ev.Type {
	case events.EventBite:
		if ev.Points > 0 {
			s.addPopup(ev.X, ev.Y, fmt.Sprintf("+%d", ev.Points))
		}
	case events.EventBurned:
		s.addPopup(ev.X, ev.Y, fmt.Sprintf("+%d", ev.Points))
	case events.EventSliced:
		s.addPopup(ev.X, ev.Y, "SLICE!")
	case events.EventAbility:
		if ev.Active {
			log.Printf("[GameScene] Ability %s activated", ev.Ability)
		}
	case events.EventGameOver:
		s.finalScore = ev.Score
		s.hasResult = true
		s.popups = s.popups[:0]
	}
}

// EventTypes 返回画面关心的事件类型
func (s *GameScene) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventBite,
		events.EventBurned,
		events.EventSliced,
		events.EventAbility,
		events.EventGameOver,
	}
}

func (s *GameScene) addPopup(x, y float64, text string) {
	s.popups = append(s.popups, scorePopup{x: x, y: y, text: text, ticks: popupLifeTicks})
}

// tickPopups 推进浮动文字，移除到期的条目
func (s *GameScene) tickPopups() {
	kept := s.popups[:0]
	for _, p := range s.popups {
		p.ticks--
		p.y -= 1
		if p.ticks > 0 {
			kept = append(kept, p)
		}
	}
	s.popups = kept
}

// Update 处理输入并推进一帧模拟
func (s *GameScene) Update(deltaTime float64) {
	s.handleInput()
	s.sim.Step()
	s.tickPopups()
}

func (s *GameScene) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.hasResult = false
		s.popups = s.popups[:0]
		s.sim.Restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		s.showDebug = !s.showDebug
		s.renderSystem.SetShowDebug(s.showDebug)
		if s.settings != nil {
			s.settings.SetShowDebug(s.showDebug)
		}
	}

	cx, cy := ebiten.CursorPosition()
	inside := cx >= 0 && cy >= 0 && cx < s.width && cy < s.height
	if !inside {
		s.sim.ClearInteractionPoint()
		s.sim.ClearSlicePointer()
		s.hasCursor = false
		return
	}

	if s.hasCursor && (cx != s.lastCursorX || cy != s.lastCursorY) {
		s.sim.SetFacing(float64(cx-s.lastCursorX), float64(cy-s.lastCursorY))
	}
	s.lastCursorX, s.lastCursorY = cx, cy
	s.hasCursor = true

	s.sim.SetInteractionPoint(float64(cx), float64(cy))
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.sim.UpdateMouth(1)
	} else {
		s.sim.UpdateMouth(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.sim.TriggerBite()
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		s.sim.SetSlicePointer(float64(cx), float64(cy))
	} else {
		s.sim.ClearSlicePointer()
	}
}

// Draw 绘制场地、水果、特效和 HUD
// 渲染顺序（从底到顶）：底色 → 水果和种子 → 喷火 → 嘴部 → 浮动文字 → HUD
func (s *GameScene) Draw(screen *ebiten.Image) {
	if screen == nil {
		return
	}
	screen.Fill(systems.BackgroundColor)

	s.renderSystem.Draw(screen)
	s.fireRenderSystem.Draw(screen)
	s.mouthRenderSystem.Draw(screen)

	for _, p := range s.popups {
		ebitenutil.DebugPrintAt(screen, p.text, int(p.x), int(p.y))
	}
	s.drawHUD(screen)
}

func (s *GameScene) drawHUD(screen *ebiten.Image) {
	now := s.sim.Now()
	state := s.sim.State()

	hud := fmt.Sprintf("SCORE %d   TIME %s", state.Score(), formatClock(state.Remaining(now)))
	if d := s.sim.AbilityRemaining(types.AbilityFireBreath); d > 0 {
		hud += fmt.Sprintf("   FIRE %.1fs", d.Seconds())
	}
	if d := s.sim.AbilityRemaining(types.AbilitySeedShot); d > 0 {
		hud += fmt.Sprintf("   SEEDS %.1fs", d.Seconds())
	}
	ebitenutil.DebugPrintAt(screen, hud, 10, 10)

	cx, cy := s.width/2-40, s.height/2
	switch state.Phase() {
	case game.PhaseCountdown:
		secs := int(math.Ceil(state.CountdownRemaining(now).Seconds()))
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("READY... %d", secs), cx, cy)
	case game.PhaseOver:
		if s.hasResult {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("GAME OVER  SCORE %d", s.finalScore), cx-30, cy)
		}
		ebitenutil.DebugPrintAt(screen, "Press R to play again", cx-20, cy+20)
	}

	if s.showDebug {
		round := s.sim.Round()
		info := fmt.Sprintf("FPS %.1f  entities %d  frame %d\nround %s %d/%d heavy@%d",
			ebiten.ActualFPS(), s.sim.EntityManager().EntityCount(), s.sim.Frame(),
			round.Mode, round.SpawnedCount, round.RoundSize, round.HeavySlot)
		ebitenutil.DebugPrintAt(screen, info, 10, 30)
	}
}

// formatClock 把剩余时间格式化为 m:ss
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(math.Ceil(d.Seconds()))
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// SaveOnExit 退出时保存设置
func (s *GameScene) SaveOnExit() bool {
	if s.settings == nil {
		return true
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[GameScene] Warning: failed to save settings: %v", err)
		return false
	}
	return true
}
