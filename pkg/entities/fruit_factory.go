package entities

import (
	"log"
	"math"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// FruitOptions 创建水果时的可选覆盖项
type FruitOptions struct {
	// HP 初始生命值覆盖（0 表示使用类型配置）
	HP int
	// Sliced 以"已切开"状态创建（切开产生的另一半）
	Sliced bool
	// MaxBounces 反弹上限覆盖（0 表示使用类型或全局配置）
	MaxBounces int
}

// FruitFactory 水果实体工厂
type FruitFactory struct {
	fruits *config.FruitConfig
	tuning *config.TuningConfig
	clock  utils.Clock
	rng    utils.RandomSource
}

// NewFruitFactory 创建水果工厂
//
// 参数:
//   - fruits: 水果类型配置
//   - tuning: 可调参数（碰撞半径、反弹上限、自旋范围）
//   - clock: 时间源（轨迹模式的起始时间）
//   - rng: 随机源（双轴自旋速度）
func NewFruitFactory(fruits *config.FruitConfig, tuning *config.TuningConfig, clock utils.Clock, rng utils.RandomSource) *FruitFactory {
	return &FruitFactory{
		fruits: fruits,
		tuning: tuning,
		clock:  clock,
		rng:    rng,
	}
}

// Fruits 返回水果类型配置
func (f *FruitFactory) Fruits() *config.FruitConfig {
	return f.fruits
}

// NewFruitEntity 根据生成描述创建水果实体
func (f *FruitFactory) NewFruitEntity(em *ecs.EntityManager, desc types.SpawnDescriptor) ecs.EntityID {
	return f.NewFruitWithOptions(em, desc, FruitOptions{})
}

// NewFruitWithOptions 根据生成描述和覆盖项创建水果实体
//
// 轨迹是 arc/loop 时实体处于轨迹模式，是 bounce 时处于反弹模式，二者只取其一。
// 未知类型回退到默认类型（由 FruitConfig.Lookup 记录警告）。
func (f *FruitFactory) NewFruitWithOptions(em *ecs.EntityManager, desc types.SpawnDescriptor, opts FruitOptions) ecs.EntityID {
	def := f.fruits.Lookup(desc.FruitType)
	behavior := BehaviorFor(def.Role)

	id := em.CreateEntity()

	em.AddComponent(id, &components.PositionComponent{X: desc.X, Y: desc.Y})

	hp := def.HP
	if opts.HP > 0 {
		hp = opts.HP
	}
	maxHP := def.HP
	if hp > maxHP {
		maxHP = hp
	}

	sliceable, edible := behavior.InitialFlags()
	if opts.Sliced {
		sliceable, edible = false, true
	}

	fruit := &components.FruitComponent{
		TypeID:    def.ID,
		Def:       def,
		HP:        hp,
		MaxHP:     maxHP,
		Scale:     def.Scale,
		Sliceable: sliceable,
		Sliced:    opts.Sliced,
		Edible:    edible,
	}
	collision := &components.CollisionComponent{}
	ApplyStage(fruit, collision, f.tuning.Physics)

	em.AddComponent(id, fruit)
	em.AddComponent(id, collision)
	em.AddComponent(id, &components.SliceTrackComponent{})
	em.AddComponent(id, &components.SpinComponent{
		RotationSpeed: desc.RotationSpeed,
		RotSpeedX:     utils.RandCentered(f.rng, f.tuning.Spawn.SpinRange),
		RotSpeedY:     utils.RandCentered(f.rng, f.tuning.Spawn.SpinRange),
	})

	if desc.Trajectory.IsBounce() {
		maxBounces := f.MaxBouncesFor(def)
		if opts.MaxBounces > 0 {
			maxBounces = opts.MaxBounces
		}
		em.AddComponent(id, &components.BounceMotionComponent{
			VX:         desc.Trajectory.VX,
			VY:         desc.Trajectory.VY,
			MaxBounces: maxBounces,
		})
	} else {
		em.AddComponent(id, &components.PathMotionComponent{
			Path:      desc.Trajectory,
			StartTime: f.clock.Now(),
		})
	}

	log.Printf("[FruitFactory] Created %s (entity %d) mode=%s hp=%d/%d stage=%s",
		def.ID, id, desc.Trajectory.Type, hp, maxHP, fruit.StageKey)

	return id
}

// MaxBouncesFor 返回类型的反弹上限（类型未配置时使用全局值）
func (f *FruitFactory) MaxBouncesFor(def *config.FruitTypeDefinition) int {
	if def.MaxBounces > 0 {
		return def.MaxBounces
	}
	return f.tuning.Bounce.MaxBounces
}

// ApplyStage 根据当前生命值刷新阶段标识和几何尺寸
//
// 可食用半径 = unit * scale * collisionScale * stageScale，
// 水果间碰撞半径 = 可食用半径 * FruitCollisionRatio（始终不大于可食用半径）。
func ApplyStage(fruit *components.FruitComponent, collision *components.CollisionComponent, physics config.PhysicsConfig) {
	behavior := BehaviorFor(fruit.Def.Role)

	fruit.StageKey = behavior.StageKey(fruit.Def, fruit.HP, fruit.MaxHP)
	stageScale := fruit.Def.StageScale(fruit.StageKey)
	fruit.VisualScale = fruit.Def.EffectiveVisualScale() * stageScale

	collision.BiteRadius = behavior.BiteRadius(fruit.Def, fruit.StageKey, physics.BiteRadiusUnit)
	collision.FruitRadius = collision.BiteRadius * math.Min(physics.FruitCollisionRatio, 1)
}

// BounceDescriptor 构造反弹轨迹描述
func BounceDescriptor(x, y, vx, vy float64) types.PathDescriptor {
	return types.PathDescriptor{
		Type:   types.PathBounce,
		StartX: x,
		StartY: y,
		VX:     vx,
		VY:     vy,
		Speed:  math.Hypot(vx, vy),
	}
}
