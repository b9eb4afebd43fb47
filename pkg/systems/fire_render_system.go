package systems

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
)

// maxFireVertices 单次 DrawTriangles 的顶点上限（uint16 索引）
const maxFireVertices = 65532

// fireBlend 加法混合，重叠的火焰粒子越叠越亮
var fireBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// FireRenderSystem 批量绘制喷火粒子
//
// 每个粒子是一个以位置为中心、边长 2*Radius 的方块，颜色随剩余寿命变暗，
// 所有粒子拼进同一组顶点，一次 DrawTriangles 画完。
type FireRenderSystem struct {
	entityManager *ecs.EntityManager

	vertices []ebiten.Vertex // 复用，避免每帧分配
	indices  []uint16
	white    *ebiten.Image
}

// NewFireRenderSystem 创建喷火粒子渲染系统
func NewFireRenderSystem(em *ecs.EntityManager) *FireRenderSystem {
	return &FireRenderSystem{
		entityManager: em,
		vertices:      make([]ebiten.Vertex, 0, 4*256),
		indices:       make([]uint16, 0, 6*256),
	}
}

// Draw 绘制所有喷火粒子
//
// 返回:
//   - int: 本次绘制的粒子数
func (s *FireRenderSystem) Draw(screen *ebiten.Image) int {
	if screen == nil {
		return 0
	}

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	count := 0
	for _, id := range ecs.GetEntitiesWith2[*components.FireParticleComponent, *components.PositionComponent](s.entityManager) {
		if len(s.vertices)+4 > maxFireVertices {
			break
		}
		p, _ := ecs.GetComponent[*components.FireParticleComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		base := uint16(len(s.vertices))
		s.vertices = appendFireQuad(s.vertices, pos.X, pos.Y, p.Radius, FireColor(p))
		s.indices = append(s.indices,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
		count++
	}
	if count == 0 {
		return 0
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	op.Blend = fireBlend
	screen.DrawTriangles(s.vertices, s.indices, s.whitePixel(), op)
	return count
}

// whitePixel 返回 1x1 的白色子图（取 3x3 图的中心，避免采样到边缘）
func (s *FireRenderSystem) whitePixel() *ebiten.Image {
	if s.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		s.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return s.white
}

// appendFireQuad 追加一个方块的四个顶点：左上、右上、左下、右下
func appendFireQuad(vs []ebiten.Vertex, x, y, radius float64, clr color.RGBA) []ebiten.Vertex {
	r := float32(clr.R) / 255
	g := float32(clr.G) / 255
	b := float32(clr.B) / 255
	a := float32(clr.A) / 255

	x0, y0 := float32(x-radius), float32(y-radius)
	x1, y1 := float32(x+radius), float32(y+radius)
	for _, corner := range [4][2]float32{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		vs = append(vs, ebiten.Vertex{
			DstX: corner[0], DstY: corner[1],
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	return vs
}

// FireColor 粒子颜色：寿命越短越透明，绿色分量随寿命抖动出橙黄层次
func FireColor(p *components.FireParticleComponent) color.RGBA {
	alpha := uint8(255)
	if p.MaxLife > 0 {
		life := p.Life
		if life < 0 {
			life = 0
		}
		if life > p.MaxLife {
			life = p.MaxLife
		}
		alpha = uint8(255 * life / p.MaxLife)
	}
	green := 120
	if p.Life > 0 {
		green += p.Life % 80
	}
	return color.RGBA{R: 255, G: uint8(green), B: 20, A: alpha}
}
