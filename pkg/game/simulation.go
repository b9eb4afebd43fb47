package game

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/entities"
	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/systems"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// SimulationConfig 创建 Simulation 所需的数据和依赖
type SimulationConfig struct {
	Fruits *config.FruitConfig
	Paths  *config.PathCatalogConfig
	Tuning *config.TuningConfig

	// Clock 为 nil 时使用系统时间
	Clock utils.Clock
	// Rand 为 nil 时使用以当前时间为种子的 math/rand
	Rand utils.RandomSource
}

// Simulation 一局游戏的全部模拟状态
//
// 由宿主循环唯一持有：每帧调用一次 Step，交互信号通过 SetXxx 方法在两次 Step 之间输入，
// 在下一次 Step 的移除清扫之前生效。游戏结束时整个存活集合一次性丢弃。
type Simulation struct {
	tuning *config.TuningConfig
	clock  utils.Clock

	em      *ecs.EntityManager
	queue   *events.EventQueue
	router  *events.Router
	factory *entities.FruitFactory
	removal *systems.RemovalQueue

	catalog     *systems.PathCatalog
	spawner     *systems.SpawnSystem
	fruits      *systems.FruitSystem
	movement    *systems.MovementSystem
	collision   *systems.CollisionSystem
	lifetime    *systems.LifetimeSystem
	abilities   *systems.AbilityState
	interaction *systems.InteractionSystem
	fire        *systems.FireSystem
	projectiles *systems.ProjectileSystem

	state    *GameState
	lastStep time.Time
	hasStep  bool
	frame    int
}

// NewSimulation 创建模拟并开始第一局
//
// 参数:
//   - cfg: 水果定义、轨迹库、可调参数以及可选的时间源和随机源
//
// 返回:
//   - *Simulation: 已进入开局倒计时的模拟
//   - error: 缺少必需的配置时返回错误
func NewSimulation(cfg SimulationConfig) (*Simulation, error) {
	if cfg.Fruits == nil {
		return nil, fmt.Errorf("fruit config is required")
	}
	if cfg.Paths == nil {
		return nil, fmt.Errorf("path catalog config is required")
	}
	tuning := cfg.Tuning
	if tuning == nil {
		tuning = config.DefaultTuningConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = utils.NewTimeProvider()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	now := clock.Now()
	s := &Simulation{
		tuning: tuning,
		clock:  clock,
		em:     ecs.NewEntityManager(),
		queue:  events.NewEventQueue(),
		state:  NewGameState(tuning.Game),
	}
	s.router = events.NewRouter(s.queue)
	s.factory = entities.NewFruitFactory(cfg.Fruits, tuning, clock, rng)
	s.removal = systems.NewRemovalQueue(s.em, s.queue, clock)

	s.catalog = systems.NewPathCatalog(cfg.Paths, tuning, rng)
	s.spawner = systems.NewSpawnSystem(s.catalog, tuning, rng, now)
	s.fruits = systems.NewFruitSystem(s.em, s.factory, s.removal, s.queue, clock, tuning)
	s.movement = systems.NewMovementSystem(s.em, s.removal, tuning)
	s.collision = systems.NewCollisionSystem(s.em, tuning)
	s.lifetime = systems.NewLifetimeSystem(s.em, s.removal, clock)
	s.abilities = systems.NewAbilityState(s.queue, tuning.Game)
	s.interaction = systems.NewInteractionSystem(s.em, s.fruits, s.abilities, s.removal, clock, tuning)
	s.fire = systems.NewFireSystem(s.em, s.fruits, s.abilities, s.interaction, rng, tuning)
	s.projectiles = systems.NewProjectileSystem(s.em, s.fruits, s.abilities, s.interaction, rng, tuning)

	s.router.Register(s.state)
	s.Restart()
	return s, nil
}

// Subscribe 注册事件处理器（渲染、音效、观察者）
func (s *Simulation) Subscribe(handler events.Handler) {
	s.router.Register(handler)
}

// Step 推进一帧并返回本帧分发的事件
//
// 顺序：生成 → 冷却 → 运动 → 碰撞 → 越界清理 → 交互 → 喷火 → 种子 → 能力到期 → 延迟移除 → 清扫 → 分发。
func (s *Simulation) Step() []events.Event {
	now := s.clock.Now()
	dt := 0.0
	if s.hasStep {
		dt = now.Sub(s.lastStep).Seconds()
		if dt < 0 {
			dt = 0
		}
	}
	s.lastStep = now
	s.hasStep = true
	s.frame++

	phase, changed := s.state.Update(now)
	switch phase {
	case PhaseCountdown:
		return s.router.DispatchAll()
	case PhaseOver:
		if changed {
			s.gameOver(now)
		}
		return s.router.DispatchAll()
	}
	if changed {
		// 倒计时结束：生成节奏和危险品计时从正式开始时刻算起
		s.spawner.Reset(now)
		log.Printf("[Simulation] Game started, duration %v", s.state.Duration())
	}

	if s.spawner.ShouldSpawn(now) {
		s.spawn(now)
	}

	s.fruits.Update()
	s.movement.Update(now)
	s.collision.Update()
	s.collision.SweepOutOfBounds(s.removal)
	s.interaction.Update()
	s.fire.Update(now)
	s.projectiles.Update(now)
	s.abilities.Expire(now)
	s.lifetime.Update(dt)
	s.removal.Sweep()

	return s.router.DispatchAll()
}

// spawn 按调度器给出的描述创建水果并发出 spawned 事件
func (s *Simulation) spawn(now time.Time) ecs.EntityID {
	desc := s.spawner.Spawn(now)
	id := s.factory.NewFruitEntity(s.em, desc)
	s.queue.Push(events.Event{
		Type:      events.EventSpawned,
		Time:      now,
		EntityID:  id,
		FruitType: desc.FruitType,
		X:         desc.X,
		Y:         desc.Y,
		Spawn:     &desc,
	})
	return id
}

// gameOver 丢弃整个存活集合并重置调度器；延迟移除计时器随实体一起丢弃
func (s *Simulation) gameOver(now time.Time) {
	s.resetWorld(now)
	s.queue.Push(events.Event{
		Type:  events.EventGameOver,
		Time:  now,
		Score: s.state.Score(),
	})
	bites, finishes, burns := s.state.Stats()
	log.Printf("[Simulation] Game over: score=%d bites=%d finishes=%d burns=%d", s.state.Score(), bites, finishes, burns)
}

// resetWorld 清空实体和所有跨帧状态
func (s *Simulation) resetWorld(now time.Time) {
	s.queue.Clear()
	s.em.Clear()
	s.removal.Reset()
	s.spawner.Reset(now)
	s.abilities.Reset()
	s.interaction.Reset()
	s.fire.Clear()
	s.projectiles.Clear()
}

// Restart 开始新的一局（进入开局倒计时）
func (s *Simulation) Restart() {
	now := s.clock.Now()
	s.resetWorld(now)
	s.state.Start(now)
	log.Printf("[Simulation] New session: countdown %v, duration %v", s.state.CountdownRemaining(now), s.state.Duration())
}

// SetFieldSize 更新场地尺寸（视口变化时调用）
func (s *Simulation) SetFieldSize(width, height float64) {
	if width <= 0 || height <= 0 {
		log.Printf("[Simulation] Warning: ignoring invalid field size %vx%v", width, height)
		return
	}
	s.catalog.SetFieldSize(width, height)
	s.movement.SetFieldSize(width, height)
	s.collision.SetFieldSize(width, height)
	s.fire.SetFieldSize(width, height)
	s.projectiles.SetFieldSize(width, height)
}

// FieldSize 返回当前场地尺寸
func (s *Simulation) FieldSize() (float64, float64) {
	return s.catalog.FieldSize()
}

// SetSpawnInterval 调整生成间隔（毫秒）
func (s *Simulation) SetSpawnInterval(ms float64) {
	s.spawner.SetSpawnInterval(ms)
}

// SetGameDuration 调整单局时长，下一局生效
func (s *Simulation) SetGameDuration(d time.Duration) {
	s.state.SetDuration(d)
}

// SetInteractionPoint 设置交互点（嘴部位置）
func (s *Simulation) SetInteractionPoint(x, y float64) {
	s.interaction.SetInteractionPoint(x, y)
}

// ClearInteractionPoint 交互点丢失
func (s *Simulation) ClearInteractionPoint() {
	s.interaction.ClearInteractionPoint()
}

// SetFacing 设置面部朝向
func (s *Simulation) SetFacing(dx, dy float64) {
	s.interaction.SetFacing(dx, dy)
}

// UpdateMouth 输入嘴部开合度
func (s *Simulation) UpdateMouth(openness float64) {
	s.interaction.UpdateMouth(openness)
}

// TriggerBite 直接请求一次咬合
func (s *Simulation) TriggerBite() {
	s.interaction.TriggerBite()
}

// SetSlicePointer 设置切割指针位置
func (s *Simulation) SetSlicePointer(x, y float64) {
	s.interaction.SetSlicePointer(x, y)
}

// ClearSlicePointer 切割指针丢失
func (s *Simulation) ClearSlicePointer() {
	s.interaction.ClearSlicePointer()
}

// EntityManager 返回实体管理器（渲染层只读访问）
func (s *Simulation) EntityManager() *ecs.EntityManager {
	return s.em
}

// State 返回本局游戏状态
func (s *Simulation) State() *GameState {
	return s.state
}

// Now 返回模拟时间
func (s *Simulation) Now() time.Time {
	return s.clock.Now()
}

// AbilityRemaining 返回能力剩余时间（未激活时为 0）
func (s *Simulation) AbilityRemaining(ability types.Ability) time.Duration {
	return s.abilities.Remaining(ability, s.clock.Now())
}

// MouthOpen 当前是否张嘴
func (s *Simulation) MouthOpen() bool {
	return s.interaction.MouthOpen()
}

// InteractionPoint 返回当前交互点
func (s *Simulation) InteractionPoint() (types.Point, bool) {
	return s.interaction.InteractionPoint()
}

// Round 返回调度器当前的轮次状态
func (s *Simulation) Round() systems.SpawnRoundState {
	return s.spawner.Round()
}

// Frame 返回已推进的帧数
func (s *Simulation) Frame() int {
	return s.frame
}
