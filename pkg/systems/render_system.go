package systems

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
)

// 无碰撞组件时的默认绘制半径
const defaultFruitRadius = 40.0

// seedRadius 种子弹丸的绘制半径
const seedRadius = 5.0

var (
	// BackgroundColor 场地底色（旋转指示线也用它，看起来像果皮上的切口）
	BackgroundColor = color.RGBA{R: 24, G: 28, B: 36, A: 255}

	burnedColor = color.RGBA{R: 60, G: 40, B: 30, A: 255}
	seedColor   = color.RGBA{R: 70, G: 50, B: 20, A: 255}
	sliceColor  = color.RGBA{R: 240, G: 240, B: 240, A: 200}
	debugColor  = color.RGBA{R: 0, G: 255, B: 120, A: 160}

	// splashColors 按果汁标识选择水果颜色
	splashColors = map[string]color.RGBA{
		"red":        {R: 220, G: 40, B: 50, A: 255},
		"yellow":     {R: 245, G: 220, B: 60, A: 255},
		"orange":     {R: 250, G: 150, B: 30, A: 255},
		"green":      {R: 90, G: 160, B: 60, A: 255},
		"orange-red": {R: 255, G: 80, B: 20, A: 255},
	}
	fallbackFruitColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// RenderSystem 绘制场地上的水果和种子弹丸
//
// 渲染顺序（从底到顶）：水果 → 种子。喷火粒子和嘴部由 FireRenderSystem、
// MouthRenderSystem 单独绘制，场景按需要的层次依次调用。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	showDebug     bool
}

// NewRenderSystem 创建一个新的渲染系统
func NewRenderSystem(em *ecs.EntityManager) *RenderSystem {
	return &RenderSystem{entityManager: em}
}

// SetShowDebug 开关调试绘制（咬合半径、实体编号和血量）
func (s *RenderSystem) SetShowDebug(show bool) {
	s.showDebug = show
}

// Draw 绘制所有水果和种子
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	if screen == nil {
		return
	}
	s.DrawFruits(screen)
	s.DrawSeeds(screen)
}

// DrawFruits 绘制所有拥有水果和位置组件的实体
//
// 水果画成实心圆，半径取 FruitRadius；旋转角用一条从圆心出发的短线表示，
// 切开的半块额外画一圈内环。
func (s *RenderSystem) DrawFruits(screen *ebiten.Image) {
	em := s.entityManager
	for _, id := range ecs.GetEntitiesWith2[*components.FruitComponent, *components.PositionComponent](em) {
		fruit, _ := ecs.GetComponent[*components.FruitComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)

		radius := defaultFruitRadius * fruit.VisualScale
		biteRadius := 0.0
		if col, ok := ecs.GetComponent[*components.CollisionComponent](em, id); ok {
			radius = col.FruitRadius
			biteRadius = col.BiteRadius
		}
		x, y := float32(pos.X), float32(pos.Y)
		vector.DrawFilledCircle(screen, x, y, float32(radius), FruitColor(fruit), true)

		if spin, ok := ecs.GetComponent[*components.SpinComponent](em, id); ok {
			ex := pos.X + math.Cos(spin.Rotation)*radius
			ey := pos.Y + math.Sin(spin.Rotation)*radius
			vector.StrokeLine(screen, x, y, float32(ex), float32(ey), 2, BackgroundColor, true)
		}
		if fruit.Sliced {
			vector.StrokeCircle(screen, x, y, float32(radius*0.6), 2, sliceColor, true)
		}

		if s.showDebug {
			if biteRadius > 0 {
				vector.StrokeCircle(screen, x, y, float32(biteRadius), 1, debugColor, true)
			}
			label := fmt.Sprintf("#%d %s %d/%d", id, fruit.StageKey, fruit.HP, fruit.MaxHP)
			ebitenutil.DebugPrintAt(screen, label, int(pos.X-radius), int(pos.Y+radius))
		}
	}
}

// DrawSeeds 绘制种子弹丸
func (s *RenderSystem) DrawSeeds(screen *ebiten.Image) {
	em := s.entityManager
	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](em) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), seedRadius, seedColor, true)
	}
}

// FruitColor 按状态和类型选择颜色，烧焦的水果统一为焦黑色
func FruitColor(fruit *components.FruitComponent) color.RGBA {
	if fruit.Burned {
		return burnedColor
	}
	if fruit.Def == nil {
		return fallbackFruitColor
	}
	c, ok := splashColors[fruit.Def.Splash]
	if !ok {
		return fallbackFruitColor
	}
	return c
}
