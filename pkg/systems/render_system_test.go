package systems

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/entities"
	"github.com/ko2345-cloud/eat-party/pkg/types"
)

func TestRenderSystemDraw(t *testing.T) {
	w := newTestWorld(t)
	system := NewRenderSystem(w.em)

	w.spawnPathFruit("apple", 100, 100)
	sliced := w.spawnPathFruit("watermelon", 300, 200)
	if _, ok := w.fruits.Slice(sliced); !ok {
		t.Fatal("Slice failed")
	}
	burned := w.spawnPathFruit("lemon", 500, 300)
	w.fruits.BurnFruit(burned)
	entities.NewSeedProjectile(w.em, 50, 50, 4, 0)

	screen := ebiten.NewImage(800, 600)
	// Draw 应该不会崩溃
	system.Draw(screen)
	system.SetShowDebug(true)
	system.Draw(screen)
}

func TestRenderSystemWithNilScreen(t *testing.T) {
	w := newTestWorld(t)
	w.spawnPathFruit("apple", 100, 100)

	NewRenderSystem(w.em).Draw(nil)
	if n := NewFireRenderSystem(w.em).Draw(nil); n != 0 {
		t.Errorf("nil screen drew %d particles", n)
	}
}

func TestRenderSystemEmptyScene(t *testing.T) {
	w := newTestWorld(t)
	screen := ebiten.NewImage(800, 600)
	NewRenderSystem(w.em).Draw(screen)
	if n := NewFireRenderSystem(w.em).Draw(screen); n != 0 {
		t.Errorf("empty scene drew %d particles", n)
	}
}

func TestFruitColor(t *testing.T) {
	fruits, err := config.LoadFruitConfig("../../data/fruits.yaml")
	if err != nil {
		t.Fatalf("failed to load fruit config: %v", err)
	}

	tests := []struct {
		name  string
		fruit *components.FruitComponent
		want  uint8 // 红色分量
	}{
		{"苹果", &components.FruitComponent{Def: fruits.Fruits["apple"]}, splashColors["red"].R},
		{"柠檬", &components.FruitComponent{Def: fruits.Fruits["lemon"]}, splashColors["yellow"].R},
		{"烧焦", &components.FruitComponent{Def: fruits.Fruits["apple"], Burned: true}, burnedColor.R},
		{"无定义", &components.FruitComponent{}, fallbackFruitColor.R},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FruitColor(tt.fruit); got.R != tt.want {
				t.Errorf("FruitColor().R = %d, want %d", got.R, tt.want)
			}
		})
	}
}

func TestFireRenderSystemBatchesParticles(t *testing.T) {
	w := newTestWorld(t)
	system := NewFireRenderSystem(w.em)

	for i := 0; i < 5; i++ {
		entities.NewFireParticle(w.em, float64(100+i*10), 100, 3, 0, 30, 8)
	}
	// 没有位置组件的粒子不绘制
	orphan := w.em.CreateEntity()
	w.em.AddComponent(orphan, &components.FireParticleComponent{Life: 10, MaxLife: 10, Radius: 4})

	screen := ebiten.NewImage(800, 600)
	if n := system.Draw(screen); n != 5 {
		t.Errorf("Draw() = %d particles, want 5", n)
	}
	if len(system.vertices) != 20 || len(system.indices) != 30 {
		t.Errorf("vertices=%d indices=%d, want 20/30", len(system.vertices), len(system.indices))
	}

	// 第二帧复用缓冲区
	if n := system.Draw(screen); n != 5 || len(system.vertices) != 20 {
		t.Errorf("second Draw() = %d particles, %d vertices", n, len(system.vertices))
	}
}

func TestFireColor(t *testing.T) {
	tests := []struct {
		name      string
		p         components.FireParticleComponent
		wantAlpha uint8
	}{
		{"满寿命", components.FireParticleComponent{Life: 30, MaxLife: 30}, 255},
		{"半寿命", components.FireParticleComponent{Life: 15, MaxLife: 30}, 127},
		{"耗尽", components.FireParticleComponent{Life: 0, MaxLife: 30}, 0},
		{"负寿命", components.FireParticleComponent{Life: -3, MaxLife: 30}, 0},
		{"无上限", components.FireParticleComponent{Life: 5}, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FireColor(&tt.p); got.A != tt.wantAlpha {
				t.Errorf("FireColor().A = %d, want %d", got.A, tt.wantAlpha)
			}
		})
	}
}

type fakeMouth struct {
	point types.Point
	has   bool
	open  bool
}

func (m *fakeMouth) InteractionPoint() (types.Point, bool) { return m.point, m.has }
func (m *fakeMouth) MouthOpen() bool                       { return m.open }

func TestMouthRenderSystem(t *testing.T) {
	screen := ebiten.NewImage(200, 200)

	tests := []struct {
		name  string
		mouth fakeMouth
		want  bool
	}{
		{"无交互点", fakeMouth{}, false},
		{"闭嘴", fakeMouth{point: types.Point{X: 50, Y: 50}, has: true}, true},
		{"张嘴", fakeMouth{point: types.Point{X: 50, Y: 50}, has: true, open: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewMouthRenderSystem(&tt.mouth).Draw(screen); got != tt.want {
				t.Errorf("Draw() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMouthRenderSystemFollowsInteraction(t *testing.T) {
	w := newTestWorld(t)
	abilities := NewAbilityState(w.queue, w.tuning.Game)
	interaction := NewInteractionSystem(w.em, w.fruits, abilities, w.removal, w.clock, w.tuning)
	system := NewMouthRenderSystem(interaction)
	screen := ebiten.NewImage(200, 200)

	if system.Draw(screen) {
		t.Error("交互点未设置时不应绘制")
	}
	interaction.SetInteractionPoint(100, 100)
	if !system.Draw(screen) {
		t.Error("设置交互点后应绘制嘴部")
	}
}
