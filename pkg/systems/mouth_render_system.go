package systems

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ko2345-cloud/eat-party/pkg/types"
)

const (
	openMouthRadius   = 24.0
	closedMouthRadius = 6.0
)

var mouthColor = color.RGBA{R: 240, G: 240, B: 240, A: 200}

// MouthSource 提供嘴部位置和开合状态（InteractionSystem 和 Simulation 都满足）
type MouthSource interface {
	InteractionPoint() (types.Point, bool)
	MouthOpen() bool
}

// MouthRenderSystem 在交互点绘制嘴部：张嘴画圆环，闭嘴画实心点
type MouthRenderSystem struct {
	source MouthSource
}

// NewMouthRenderSystem 创建嘴部渲染系统
func NewMouthRenderSystem(source MouthSource) *MouthRenderSystem {
	return &MouthRenderSystem{source: source}
}

// Draw 绘制嘴部，交互点丢失时不绘制
//
// 返回:
//   - bool: 是否绘制了嘴部
func (s *MouthRenderSystem) Draw(screen *ebiten.Image) bool {
	if screen == nil {
		return false
	}
	p, ok := s.source.InteractionPoint()
	if !ok {
		return false
	}
	x, y := float32(p.X), float32(p.Y)
	if s.source.MouthOpen() {
		vector.StrokeCircle(screen, x, y, openMouthRadius, 3, mouthColor, true)
	} else {
		vector.DrawFilledCircle(screen, x, y, closedMouthRadius, mouthColor, true)
	}
	return true
}
