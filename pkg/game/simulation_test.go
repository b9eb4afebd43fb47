package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

var simStart = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// belowFieldCatalog 只有一条贴着场地下方经过的弧线，生成的水果不会靠近测试中的交互点
func belowFieldCatalog() *config.PathCatalogConfig {
	return &config.PathCatalogConfig{
		Presets: []config.PathPreset{{
			Name:         "below",
			Type:         types.PathArc,
			Start:        config.PercentPoint{X: -0.3, Y: 1.4},
			Control:      config.PercentPoint{X: 0.5, Y: 1.4},
			End:          config.PercentPoint{X: 1.3, Y: 1.4},
			DurationBase: 60000,
		}},
		SpeedProfiles: []config.SpeedProfile{{Name: "normal", DurationScale: 1, Easing: utils.EasingLinear}},
	}
}

func newTestSimulation(t *testing.T) (*Simulation, *utils.MockTimeProvider) {
	t.Helper()
	fruits, err := config.LoadFruitConfig("../../data/fruits.yaml")
	if err != nil {
		t.Fatalf("failed to load fruit config: %v", err)
	}
	clock := utils.NewMockTimeProvider(simStart)
	sim, err := NewSimulation(SimulationConfig{
		Fruits: fruits,
		Paths:  belowFieldCatalog(),
		Tuning: config.DefaultTuningConfig(),
		Clock:  clock,
		Rand:   rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("NewSimulation() error: %v", err)
	}
	return sim, clock
}

// startPlaying 跳过开局倒计时，返回进入游戏那一帧的事件
func startPlaying(t *testing.T, sim *Simulation, clock *utils.MockTimeProvider) []events.Event {
	t.Helper()
	clock.Advance(3 * time.Second)
	evs := sim.Step()
	if sim.State().Phase() != PhasePlaying {
		t.Fatalf("倒计时后应进入游戏, got %s", sim.State().Phase())
	}
	return evs
}

// placeFruit 在 (x, y) 放一个静止的水果
func placeFruit(sim *Simulation, fruitType string, x, y float64) ecs.EntityID {
	p := types.Point{X: x, Y: y}
	return sim.factory.NewFruitEntity(sim.em, types.SpawnDescriptor{
		X: x,
		Y: y,
		Trajectory: types.PathDescriptor{
			Type: types.PathArc, Start: p, Control: p, End: p,
			Duration: time.Hour, Easing: utils.EasingLinear,
		},
		FruitType: fruitType,
	})
}

func filterEvents(evs []events.Event, typ events.EventType) []events.Event {
	var out []events.Event
	for _, ev := range evs {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestNewSimulationRequiresConfig(t *testing.T) {
	if _, err := NewSimulation(SimulationConfig{}); err == nil {
		t.Error("缺少水果配置时应返回错误")
	}
	fruits, err := config.LoadFruitConfig("../../data/fruits.yaml")
	if err != nil {
		t.Fatalf("failed to load fruit config: %v", err)
	}
	if _, err := NewSimulation(SimulationConfig{Fruits: fruits}); err == nil {
		t.Error("缺少轨迹库时应返回错误")
	}
}

// TestSimulation_CountdownThenSpawn 倒计时内不生成，开始后第一帧立即生成
func TestSimulation_CountdownThenSpawn(t *testing.T) {
	sim, clock := newTestSimulation(t)

	for i := 0; i < 3; i++ {
		if evs := sim.Step(); len(evs) != 0 {
			t.Fatalf("倒计时中不应有事件, got %+v", evs)
		}
		clock.Advance(500 * time.Millisecond)
	}

	evs := startPlaying(t, sim, clock)
	spawned := filterEvents(evs, events.EventSpawned)
	if len(spawned) != 1 {
		t.Fatalf("期望 1 个 spawned 事件, got %d", len(spawned))
	}
	ev := spawned[0]
	if ev.Spawn == nil || ev.Spawn.FruitType != ev.FruitType {
		t.Fatalf("spawned 事件应携带生成描述: %+v", ev)
	}
	if !sim.EntityManager().IsAlive(ev.EntityID) {
		t.Error("生成的实体应存活")
	}
	if sim.Round().SpawnedCount != 1 {
		t.Errorf("round spawned = %d, want 1", sim.Round().SpawnedCount)
	}

	// 间隔内不再生成
	clock.Advance(time.Second)
	if n := len(filterEvents(sim.Step(), events.EventSpawned)); n != 0 {
		t.Errorf("间隔内不应生成, got %d", n)
	}
	clock.Advance(1501 * time.Millisecond)
	if n := len(filterEvents(sim.Step(), events.EventSpawned)); n != 1 {
		t.Errorf("间隔过后应生成 1 个, got %d", n)
	}
}

// TestSimulation_BiteScores 闭嘴咬中水果，得分通过事件累计
func TestSimulation_BiteScores(t *testing.T) {
	sim, clock := newTestSimulation(t)
	startPlaying(t, sim, clock)

	apple := placeFruit(sim, "apple", 640, 200)
	sim.SetInteractionPoint(640, 200)
	sim.UpdateMouth(0.2)
	clock.Advance(16 * time.Millisecond)
	sim.Step()
	sim.UpdateMouth(0.0)
	clock.Advance(16 * time.Millisecond)
	evs := sim.Step()

	bites := filterEvents(evs, events.EventBite)
	if len(bites) != 1 || bites[0].EntityID != apple || bites[0].Points != 10 {
		t.Fatalf("期望咬到苹果得 10 分, got %+v", bites)
	}
	if sim.State().Score() != 10 {
		t.Errorf("score = %d, want 10", sim.State().Score())
	}
}

// TestSimulation_FinishRemovesInSameStep 最后一口在同一帧内清扫并发出 removed 事件
func TestSimulation_FinishRemovesInSameStep(t *testing.T) {
	sim, clock := newTestSimulation(t)
	startPlaying(t, sim, clock)

	apple := placeFruit(sim, "apple", 640, 200)
	fruit, _ := ecs.GetComponent[*components.FruitComponent](sim.em, apple)
	fruit.HP = 1

	sim.SetInteractionPoint(640, 200)
	sim.TriggerBite()
	clock.Advance(16 * time.Millisecond)
	evs := sim.Step()

	bites := filterEvents(evs, events.EventBite)
	if len(bites) != 1 || bites[0].Result != types.BiteFinish {
		t.Fatalf("期望 finish, got %+v", bites)
	}
	removed := filterEvents(evs, events.EventRemoved)
	if len(removed) != 1 || removed[0].Reason != events.ReasonEaten {
		t.Fatalf("期望 eaten 移除事件, got %+v", removed)
	}
	if sim.EntityManager().IsAlive(apple) {
		t.Error("吃完的水果应在本帧被删除")
	}
}

// TestSimulation_BurnedFruitRemovedAfterDelay 烧焦的水果按模拟时间延迟移除
func TestSimulation_BurnedFruitRemovedAfterDelay(t *testing.T) {
	sim, clock := newTestSimulation(t)
	startPlaying(t, sim, clock)

	apple := placeFruit(sim, "apple", 300, 300)
	if !sim.fruits.BurnFruit(apple) {
		t.Fatal("BurnFruit failed")
	}

	var removedAt time.Duration
	burnedAt := clock.Now()
	for i := 0; i < 40 && removedAt == 0; i++ {
		clock.Advance(100 * time.Millisecond)
		for _, ev := range filterEvents(sim.Step(), events.EventRemoved) {
			if ev.EntityID == apple && ev.Reason == events.ReasonBurned {
				removedAt = clock.Now().Sub(burnedAt)
			}
		}
	}
	if removedAt < 2*time.Second || removedAt > 2200*time.Millisecond {
		t.Errorf("烧焦后应约 2 秒移除, got %v", removedAt)
	}
	if sim.State().Score() != 10 {
		t.Errorf("烧焦应得 10 分, got %d", sim.State().Score())
	}
}

// TestSimulation_BurnDelayIndependentOfFrameRate 低帧率（每帧 250ms）下烧焦延迟仍按时钟计算
func TestSimulation_BurnDelayIndependentOfFrameRate(t *testing.T) {
	tests := []struct {
		name string
		step time.Duration
	}{
		{"60fps", time.Second / 60},
		{"4fps", 250 * time.Millisecond},
		{"1fps", time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, clock := newTestSimulation(t)
			startPlaying(t, sim, clock)

			apple := placeFruit(sim, "apple", 300, 300)
			if !sim.fruits.BurnFruit(apple) {
				t.Fatal("BurnFruit failed")
			}

			var removedAt time.Duration
			burnedAt := clock.Now()
			for i := 0; i < 400 && removedAt == 0; i++ {
				clock.Advance(tt.step)
				for _, ev := range filterEvents(sim.Step(), events.EventRemoved) {
					if ev.EntityID == apple {
						removedAt = clock.Now().Sub(burnedAt)
					}
				}
			}
			if removedAt < 2*time.Second || removedAt > 2*time.Second+tt.step {
				t.Errorf("step %v: removed after %v, want within one step of 2s", tt.step, removedAt)
			}
		})
	}
}

// TestSimulation_GameOverClearsWorld 时间耗尽：清空存活集合并发出 game_over
func TestSimulation_GameOverClearsWorld(t *testing.T) {
	sim, clock := newTestSimulation(t)
	startPlaying(t, sim, clock)

	apple := placeFruit(sim, "apple", 300, 300)
	sim.fruits.BurnFruit(apple)
	sim.Step()
	score := sim.State().Score()

	clock.Advance(120 * time.Second)
	evs := sim.Step()

	over := filterEvents(evs, events.EventGameOver)
	if len(over) != 1 || over[0].Score != score {
		t.Fatalf("期望 game_over(score=%d), got %+v", score, over)
	}
	if len(evs) != 1 {
		t.Errorf("game over 帧只应有 game_over 事件, got %+v", evs)
	}
	if sim.EntityManager().EntityCount() != 0 {
		t.Errorf("游戏结束后实体数 = %d, want 0", sim.EntityManager().EntityCount())
	}

	// 结束后不再生成，烧焦计时器也不会作用到已丢弃的实体
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		if evs := sim.Step(); len(evs) != 0 {
			t.Fatalf("结束后不应有事件, got %+v", evs)
		}
	}
}

// TestSimulation_Restart 重新开始：得分清零，重新倒计时，轮次从 path 模式开始
func TestSimulation_Restart(t *testing.T) {
	sim, clock := newTestSimulation(t)
	startPlaying(t, sim, clock)

	apple := placeFruit(sim, "apple", 300, 300)
	sim.fruits.BurnFruit(apple)
	sim.Step()
	if sim.State().Score() == 0 {
		t.Fatal("准备阶段应有得分")
	}

	sim.Restart()
	if sim.State().Score() != 0 || sim.State().Phase() != PhaseCountdown {
		t.Errorf("重新开始后 score=%d phase=%s", sim.State().Score(), sim.State().Phase())
	}
	if sim.EntityManager().EntityCount() != 0 {
		t.Error("重新开始应清空实体")
	}
	if r := sim.Round(); r.Mode != types.RoundPath || r.SpawnedCount != 0 {
		t.Errorf("轮次状态未重置: %+v", r)
	}

	evs := startPlaying(t, sim, clock)
	if len(filterEvents(evs, events.EventSpawned)) != 1 {
		t.Error("新一局开始时应立即生成")
	}
}

func TestSimulation_SetFieldSize(t *testing.T) {
	sim, _ := newTestSimulation(t)

	sim.SetFieldSize(1920, 1080)
	if w, h := sim.FieldSize(); w != 1920 || h != 1080 {
		t.Errorf("FieldSize = %vx%v, want 1920x1080", w, h)
	}
	sim.SetFieldSize(0, 1080)
	if w, _ := sim.FieldSize(); w != 1920 {
		t.Error("非法尺寸应被忽略")
	}
}

// subscriber 记录收到的事件
type subscriber struct {
	got []events.Event
}

func (s *subscriber) HandleEvent(ev events.Event) { s.got = append(s.got, ev) }
func (s *subscriber) EventTypes() []events.EventType { return events.AllEventTypes }

func TestSimulation_Subscribe(t *testing.T) {
	sim, clock := newTestSimulation(t)
	sub := &subscriber{}
	sim.Subscribe(sub)

	startPlaying(t, sim, clock)
	if len(sub.got) != 1 || sub.got[0].Type != events.EventSpawned {
		t.Errorf("订阅者应收到 spawned 事件, got %+v", sub.got)
	}
}
