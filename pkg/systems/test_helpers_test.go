package systems

import (
	"math/rand"
	"testing"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/entities"
	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// testStart 测试使用的固定起始时间
var testStart = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// testWorld 测试用的最小模拟环境（实体管理器 + 水果状态机）
type testWorld struct {
	em      *ecs.EntityManager
	clock   *utils.MockTimeProvider
	queue   *events.EventQueue
	removal *RemovalQueue
	tuning  *config.TuningConfig
	factory *entities.FruitFactory
	fruits  *FruitSystem
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	fruitCfg, err := config.LoadFruitConfig("../../data/fruits.yaml")
	if err != nil {
		t.Fatalf("failed to load fruit config: %v", err)
	}

	w := &testWorld{
		em:     ecs.NewEntityManager(),
		clock:  utils.NewMockTimeProvider(testStart),
		queue:  events.NewEventQueue(),
		tuning: config.DefaultTuningConfig(),
	}
	w.removal = NewRemovalQueue(w.em, w.queue, w.clock)
	w.factory = entities.NewFruitFactory(fruitCfg, w.tuning, w.clock, rand.New(rand.NewSource(7)))
	w.fruits = NewFruitSystem(w.em, w.factory, w.removal, w.queue, w.clock, w.tuning)
	return w
}

// loadTestCatalog 读取随仓库发布的轨迹库
func loadTestCatalog(t *testing.T) *config.PathCatalogConfig {
	t.Helper()
	cfg, err := config.LoadPathCatalogConfig("../../data/paths.yaml")
	if err != nil {
		t.Fatalf("failed to load path catalog: %v", err)
	}
	return cfg
}

// stationaryPath 停在 (x, y) 的轨迹（起点、控制点、终点重合）
func stationaryPath(x, y float64, d time.Duration) types.PathDescriptor {
	p := types.Point{X: x, Y: y}
	return types.PathDescriptor{
		Type:     types.PathArc,
		Start:    p,
		Control:  p,
		End:      p,
		Duration: d,
		Easing:   utils.EasingLinear,
	}
}

// spawnPathFruit 在 (x, y) 创建一个轨迹模式水果（长时长，位置不动）
func (w *testWorld) spawnPathFruit(fruitType string, x, y float64) ecs.EntityID {
	return w.factory.NewFruitEntity(w.em, types.SpawnDescriptor{
		X:          x,
		Y:          y,
		Trajectory: stationaryPath(x, y, time.Minute),
		FruitType:  fruitType,
	})
}

// spawnBounceFruit 在 (x, y) 创建一个反弹模式水果
func (w *testWorld) spawnBounceFruit(fruitType string, x, y, vx, vy float64) ecs.EntityID {
	return w.factory.NewFruitEntity(w.em, types.SpawnDescriptor{
		X:             x,
		Y:             y,
		Trajectory:    entities.BounceDescriptor(x, y, vx, vy),
		FruitType:     fruitType,
		RotationSpeed: 0.03,
	})
}

func (w *testWorld) fruit(t *testing.T, id ecs.EntityID) *components.FruitComponent {
	t.Helper()
	f, ok := ecs.GetComponent[*components.FruitComponent](w.em, id)
	if !ok {
		t.Fatalf("entity %d has no FruitComponent", id)
	}
	return f
}

func (w *testWorld) collision(t *testing.T, id ecs.EntityID) *components.CollisionComponent {
	t.Helper()
	c, ok := ecs.GetComponent[*components.CollisionComponent](w.em, id)
	if !ok {
		t.Fatalf("entity %d has no CollisionComponent", id)
	}
	return c
}

func (w *testWorld) position(t *testing.T, id ecs.EntityID) *components.PositionComponent {
	t.Helper()
	p, ok := ecs.GetComponent[*components.PositionComponent](w.em, id)
	if !ok {
		t.Fatalf("entity %d has no PositionComponent", id)
	}
	return p
}

// tickCooldown 推进 n 帧咬击冷却
func (w *testWorld) tickCooldown(n int) {
	for i := 0; i < n; i++ {
		w.fruits.Update()
	}
}

// eventsOfType 取出队列中的全部事件并筛选指定类型
func eventsOfType(q *events.EventQueue, typ events.EventType) []events.Event {
	var out []events.Event
	for _, ev := range q.Consume() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

// assertStageInvariant 检查 0 <= hp <= maxHP 以及阶段与生命值的对应关系
func assertStageInvariant(t *testing.T, f *components.FruitComponent) {
	t.Helper()
	if f.HP < 0 || f.HP > f.MaxHP {
		t.Errorf("hp out of range: %d/%d", f.HP, f.MaxHP)
	}
	idx := f.MaxHP - f.HP
	if idx < 0 {
		idx = 0
	}
	if idx > len(f.Def.Stages)-1 {
		idx = len(f.Def.Stages) - 1
	}
	if f.StageKey != f.Def.Stages[idx] {
		t.Errorf("stage key = %q, want %q (hp %d/%d)", f.StageKey, f.Def.Stages[idx], f.HP, f.MaxHP)
	}
}
