package systems

import (
	"log"
	"math"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/entities"
	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// FruitSystem 水果生命周期状态机
//
// 状态由 (运动模式, hp, sliced, burned) 决定，外部交互通过 TakeBite / Slice /
// BurnFruit 触发转换。类型差异全部委托给 entities.FruitBehavior。
// 对不存在或已标记移除的实体调用任何操作都是无效操作，返回零值。
type FruitSystem struct {
	em      *ecs.EntityManager
	factory *entities.FruitFactory
	removal *RemovalQueue
	queue   *events.EventQueue
	clock   utils.Clock

	physics config.PhysicsConfig
	rules   config.FruitRulesConfig
	game    config.GameConfig
}

// NewFruitSystem 创建水果状态机系统
//
// 参数:
//   - em: 实体管理器
//   - factory: 水果工厂（切开时创建另一半）
//   - removal: 移除队列
//   - queue: 事件队列（bite / sliced / burned）
//   - clock: 时间源（事件时间戳）
//   - tuning: 可调参数
func NewFruitSystem(em *ecs.EntityManager, factory *entities.FruitFactory, removal *RemovalQueue,
	queue *events.EventQueue, clock utils.Clock, tuning *config.TuningConfig) *FruitSystem {
	return &FruitSystem{
		em:      em,
		factory: factory,
		removal: removal,
		queue:   queue,
		clock:   clock,
		physics: tuning.Physics,
		rules:   tuning.FruitRules,
		game:    tuning.Game,
	}
}

// Update 每帧递减咬击冷却
func (s *FruitSystem) Update() {
	ids := ecs.GetEntitiesWith1[*components.FruitComponent](s.em)
	for _, id := range ids {
		fruit, _ := ecs.GetComponent[*components.FruitComponent](s.em, id)
		if fruit.BiteCooldown > 0 {
			fruit.BiteCooldown--
		}
	}
}

// live 返回存活且未标记移除的水果组件
func (s *FruitSystem) live(id ecs.EntityID) (*components.FruitComponent, bool) {
	if !s.em.IsAlive(id) || s.em.IsPendingDestroy(id) {
		return nil, false
	}
	return ecs.GetComponent[*components.FruitComponent](s.em, id)
}

// CheckCollision 交互点 (x, y) 是否能吃到该水果
// 条件：可食用、hp > 0、与中心的距离小于可食用半径
func (s *FruitSystem) CheckCollision(id ecs.EntityID, x, y float64) bool {
	fruit, ok := s.live(id)
	if !ok || !fruit.Edible || fruit.HP <= 0 {
		return false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
	if !ok {
		return false
	}
	collision, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id)
	if !ok {
		return false
	}
	return utils.Distance(x, y, pos.X, pos.Y) < collision.BiteRadius
}

// TakeBite 咬一口
//
// 冷却中、已烧焦或不可食用时返回 BiteNone；否则 hp 减一并进入冷却，
// 刷新阶段和碰撞半径。hp 归零时标记移除并返回 BiteFinish。
func (s *FruitSystem) TakeBite(id ecs.EntityID) types.BiteResult {
	fruit, ok := s.live(id)
	// Edible 为 false 的只有整颗的大型水果（heavyBehavior.InitialFlags），切开后才可食用。
	// 嘴部咬合和 ProjectileSystem.onHit 都经过这里，所以整颗时种子只让它转、不扣血。
	// 危险品（辣椒）在 InteractionSystem 里按 Ability 直接吃掉，不走 TakeBite。
	if !ok || fruit.BiteCooldown > 0 || fruit.Burned || !fruit.Edible || fruit.HP <= 0 {
		return types.BiteNone
	}

	fruit.HP--
	fruit.BiteCooldown = s.rules.BiteCooldownTicks
	if collision, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id); ok {
		entities.ApplyStage(fruit, collision, s.physics)
	}

	result := types.BiteBite
	if fruit.HP <= 0 {
		fruit.HP = 0
		result = types.BiteFinish
	}

	ev := events.Event{
		Type:      events.EventBite,
		Time:      s.clock.Now(),
		EntityID:  id,
		FruitType: fruit.TypeID,
		Result:    result,
		Points:    fruit.Def.Points,
	}
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id); ok {
		ev.X, ev.Y = pos.X, pos.Y
	}
	s.queue.Push(ev)

	if result == types.BiteFinish {
		s.removal.Mark(id, events.ReasonEaten)
	}
	return result
}

// Slice 切开大型水果
//
// 只对 sliceable && !sliced 的实体有效。原实体变为已切开的一半（可食用、hp 重置），
// 并在同一位置创建另一半：自旋相反，速度沿原航向的反方向推开。
// 轨迹模式的实体切开后两半都转为反弹模式，从当前位置自由飞行。
//
// 返回:
//   - ecs.EntityID: 新创建的另一半
//   - bool: 是否切开成功
func (s *FruitSystem) Slice(id ecs.EntityID) (ecs.EntityID, bool) {
	fruit, ok := s.live(id)
	if !ok || !entities.BehaviorFor(fruit.Def.Role).CanSlice(fruit) {
		return 0, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
	if !ok {
		return 0, false
	}
	collision, _ := ecs.GetComponent[*components.CollisionComponent](s.em, id)
	spin, _ := ecs.GetComponent[*components.SpinComponent](s.em, id)

	fruit.Sliced = true
	fruit.Sliceable = false
	fruit.Edible = true
	fruit.HP = s.rules.SliceHP
	if fruit.HP > fruit.MaxHP {
		fruit.HP = fruit.MaxHP
	}
	if collision != nil {
		entities.ApplyStage(fruit, collision, s.physics)
	}

	motion := s.ensureBounceMotion(id, collision)
	origVX, origVY := motion.VX, motion.VY
	impulse := s.rules.SliceImpulse

	motion.VX = -math.Abs(origVX) - impulse
	motion.VY = origVY + impulse

	desc := types.SpawnDescriptor{
		X:          pos.X,
		Y:          pos.Y,
		Trajectory: entities.BounceDescriptor(pos.X, pos.Y, math.Abs(origVX)+impulse, origVY+impulse),
		FruitType:  fruit.TypeID,
	}
	if spin != nil {
		desc.RotationSpeed = -spin.RotationSpeed
	}

	siblingID := s.factory.NewFruitWithOptions(s.em, desc, entities.FruitOptions{
		HP:         fruit.HP,
		Sliced:     true,
		MaxBounces: motion.MaxBounces,
	})
	if spin != nil {
		if siblingSpin, ok := ecs.GetComponent[*components.SpinComponent](s.em, siblingID); ok {
			siblingSpin.Rotation = spin.Rotation
			siblingSpin.RotX = spin.RotX
			siblingSpin.RotY = spin.RotY
			siblingSpin.RotSpeedX = -spin.RotSpeedX
			siblingSpin.RotSpeedY = -spin.RotSpeedY
		}
	}

	log.Printf("[FruitSystem] Sliced %s (entity %d) -> sibling %d", fruit.TypeID, id, siblingID)

	s.queue.Push(events.Event{
		Type:      events.EventSliced,
		Time:      s.clock.Now(),
		EntityID:  id,
		SiblingID: siblingID,
		FruitType: fruit.TypeID,
		X:         pos.X,
		Y:         pos.Y,
	})
	return siblingID, true
}

// ensureBounceMotion 返回实体的反弹运动组件；轨迹模式实体转为静止的反弹模式
func (s *FruitSystem) ensureBounceMotion(id ecs.EntityID, collision *components.CollisionComponent) *components.BounceMotionComponent {
	if motion, ok := ecs.GetComponent[*components.BounceMotionComponent](s.em, id); ok {
		return motion
	}

	ecs.RemoveComponent[*components.PathMotionComponent](s.em, id)
	if collision != nil {
		// 偏移已经体现在当前位置上
		collision.OffsetX, collision.OffsetY = 0, 0
	}

	fruit, _ := ecs.GetComponent[*components.FruitComponent](s.em, id)
	maxBounces := s.factory.MaxBouncesFor(fruit.Def)
	motion := &components.BounceMotionComponent{MaxBounces: maxBounces}
	ecs.AddComponent(s.em, id, motion)
	return motion
}

// BurnFruit 烧焦水果
//
// 已烧焦或免疫火焰（整颗大型水果、危险品）时返回 false。
// 烧焦后 hp 归零，焦黑的模型保留 BurnRemoveDelayMs 后由 LifetimeSystem 移除。
func (s *FruitSystem) BurnFruit(id ecs.EntityID) bool {
	fruit, ok := s.live(id)
	if !ok || fruit.Burned {
		return false
	}
	if entities.BehaviorFor(fruit.Def.Role).IsImmuneTo(fruit, types.HazardFire) {
		return false
	}

	fruit.Burned = true
	fruit.HP = 0
	if collision, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id); ok {
		entities.ApplyStage(fruit, collision, s.physics)
	}

	ecs.AddComponent(s.em, id, &components.LifetimeComponent{
		MaxLifetime: s.rules.BurnRemoveDelayMs / 1000,
		ExpiresAt:   s.clock.Now().Add(utils.Millis(s.rules.BurnRemoveDelayMs)),
		Reason:      events.ReasonBurned,
	})

	ev := events.Event{
		Type:      events.EventBurned,
		Time:      s.clock.Now(),
		EntityID:  id,
		FruitType: fruit.TypeID,
		Points:    s.game.PointsPerBurn,
	}
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id); ok {
		ev.X, ev.Y = pos.X, pos.Y
	}
	s.queue.Push(ev)

	log.Printf("[FruitSystem] Burned %s (entity %d)", fruit.TypeID, id)
	return true
}
