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

// facingDeadZone 朝向分量都小于该值时视为没有朝向
const facingDeadZone = 0.1

// MouthTracker 张嘴检测（带迟滞）
//
// 闭合状态下开合度超过 OpenThreshold 才算张开，张开状态下低于 CloseThreshold 才算闭合，
// 两个阈值之间保持原状态，避免抖动反复触发。
type MouthTracker struct {
	openThreshold  float64
	closeThreshold float64
	open           bool
}

// NewMouthTracker 创建张嘴检测器
func NewMouthTracker(cfg config.MouthConfig) *MouthTracker {
	return &MouthTracker{
		openThreshold:  cfg.OpenThreshold,
		closeThreshold: cfg.CloseThreshold,
	}
}

// Update 输入本帧开合度
//
// 返回:
//   - bool: 本帧是否从张开变为闭合（咬合触发沿）
func (m *MouthTracker) Update(openness float64) bool {
	wasOpen := m.open
	if !m.open && openness > m.openThreshold {
		m.open = true
	} else if m.open && openness < m.closeThreshold {
		m.open = false
	}
	return wasOpen && !m.open
}

// IsOpen 当前是否张嘴
func (m *MouthTracker) IsOpen() bool {
	return m.open
}

// Reset 恢复闭合状态
func (m *MouthTracker) Reset() {
	m.open = false
}

// InteractionSystem 把外部交互信号转换为水果状态机调用
//
// 信号由宿主层（追踪输入）在帧内设置：交互点（嘴巴位置）、开合度、朝向、切割指针。
// Update 在运动和碰撞之后、移除清扫之前执行，保证不会作用到已清扫的实体上。
type InteractionSystem struct {
	em        *ecs.EntityManager
	fruits    *FruitSystem
	abilities *AbilityState
	removal   *RemovalQueue
	clock     utils.Clock
	rules     config.FruitRulesConfig

	mouth *MouthTracker

	point    types.Point
	hasPoint bool

	facingX, facingY float64

	slicePointer    types.Point
	hasSlicePointer bool

	biteRequested bool
}

// NewInteractionSystem 创建交互系统
func NewInteractionSystem(em *ecs.EntityManager, fruits *FruitSystem, abilities *AbilityState,
	removal *RemovalQueue, clock utils.Clock, tuning *config.TuningConfig) *InteractionSystem {
	return &InteractionSystem{
		em:        em,
		fruits:    fruits,
		abilities: abilities,
		removal:   removal,
		clock:     clock,
		rules:     tuning.FruitRules,
		mouth:     NewMouthTracker(tuning.Mouth),
	}
}

// SetInteractionPoint 设置交互点（嘴巴中心）
func (s *InteractionSystem) SetInteractionPoint(x, y float64) {
	s.point = types.Point{X: x, Y: y}
	s.hasPoint = true
}

// ClearInteractionPoint 交互点丢失（追踪不到人脸）
func (s *InteractionSystem) ClearInteractionPoint() {
	s.hasPoint = false
}

// InteractionPoint 返回交互点
func (s *InteractionSystem) InteractionPoint() (types.Point, bool) {
	return s.point, s.hasPoint
}

// SetFacing 设置面部朝向向量（不要求归一化）
func (s *InteractionSystem) SetFacing(dx, dy float64) {
	s.facingX, s.facingY = dx, dy
}

// Facing 返回归一化后的朝向；两个分量都在死区内时 ok=false
func (s *InteractionSystem) Facing() (dx, dy float64, ok bool) {
	if math.Abs(s.facingX) <= facingDeadZone && math.Abs(s.facingY) <= facingDeadZone {
		return 0, 0, false
	}
	nx, ny, _, ok := utils.Normalize(s.facingX, s.facingY, 0)
	return nx, ny, ok
}

// UpdateMouth 输入本帧开合度，闭合沿会在 Update 中触发一次咬合
func (s *InteractionSystem) UpdateMouth(openness float64) {
	if s.mouth.Update(openness) {
		s.biteRequested = true
	}
}

// TriggerBite 直接请求一次咬合（不经过开合度检测，例如鼠标点击）
func (s *InteractionSystem) TriggerBite() {
	s.biteRequested = true
}

// MouthOpen 当前是否张嘴
func (s *InteractionSystem) MouthOpen() bool {
	return s.mouth.IsOpen()
}

// SetSlicePointer 设置切割指针（手指）位置
func (s *InteractionSystem) SetSlicePointer(x, y float64) {
	s.slicePointer = types.Point{X: x, Y: y}
	s.hasSlicePointer = true
}

// ClearSlicePointer 切割指针丢失，所有进行中的划动作废
func (s *InteractionSystem) ClearSlicePointer() {
	s.hasSlicePointer = false
	ids := ecs.GetEntitiesWith1[*components.SliceTrackComponent](s.em)
	for _, id := range ids {
		track, _ := ecs.GetComponent[*components.SliceTrackComponent](s.em, id)
		track.Inside = false
	}
}

// Update 处理本帧的咬合请求和切割手势
func (s *InteractionSystem) Update() {
	if s.biteRequested {
		s.biteRequested = false
		if s.hasPoint {
			s.BiteAt(s.point.X, s.point.Y)
		}
	}
	if s.hasSlicePointer {
		s.trackSlices(s.slicePointer.X, s.slicePointer.Y)
	}
}

// BiteAt 在 (x, y) 处咬一口：所有能吃到的水果都被咬
//
// 危险品不扣血，而是整颗消失并授予能力；计入连击的水果咬中后累加连击，
// 达到次数时激活种子射击。
//
// 返回:
//   - int: 生效的咬击数量
func (s *InteractionSystem) BiteAt(x, y float64) int {
	now := s.clock.Now()
	bitten := 0

	ids := ecs.GetEntitiesWith2[*components.FruitComponent, *components.PositionComponent](s.em)
	for _, id := range ids {
		fruit, _ := ecs.GetComponent[*components.FruitComponent](s.em, id)
		if fruit.Burned || !s.fruits.CheckCollision(id, x, y) {
			continue
		}

		behavior := entities.BehaviorFor(fruit.Def.Role)
		if ability := behavior.Ability(); ability != types.AbilityNone {
			if s.removal.Mark(id, events.ReasonEaten) {
				log.Printf("[InteractionSystem] Ate %s (entity %d), granting %s", fruit.TypeID, id, ability)
				s.abilities.Activate(ability, now)
				bitten++
			}
			continue
		}

		result := s.fruits.TakeBite(id)
		if result == types.BiteNone {
			continue
		}
		bitten++

		if behavior.CountsTowardCombo() && s.abilities.RegisterComboBite(now) {
			log.Printf("[InteractionSystem] Combo reached on %s", fruit.TypeID)
			s.abilities.Activate(types.AbilitySeedShot, now)
		}
	}
	return bitten
}

// trackSlices 记录指针进出可切开水果的检测圆，离开时划过距离足够长即切开
func (s *InteractionSystem) trackSlices(px, py float64) {
	ids := ecs.GetEntitiesWith3[*components.FruitComponent, *components.SliceTrackComponent, *components.PositionComponent](s.em)
	for _, id := range ids {
		if s.em.IsPendingDestroy(id) {
			continue
		}
		fruit, _ := ecs.GetComponent[*components.FruitComponent](s.em, id)
		if !entities.BehaviorFor(fruit.Def.Role).CanSlice(fruit) {
			continue
		}
		track, _ := ecs.GetComponent[*components.SliceTrackComponent](s.em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
		collision, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id)
		if !ok {
			continue
		}

		inside := utils.Distance(px, py, pos.X, pos.Y) < collision.BiteRadius*s.rules.SliceDetectFactor

		switch {
		case inside && !track.Inside:
			track.Inside = true
			track.EntryX, track.EntryY = px, py
		case !inside && track.Inside:
			track.Inside = false
			cut := utils.Distance(track.EntryX, track.EntryY, px, py)
			required := math.Min(collision.BiteRadius*s.rules.SliceMinCutFactor, s.rules.SliceMinCutCap)
			if cut > required {
				s.fruits.Slice(id)
			} else {
				log.Printf("[InteractionSystem] Cut too short on entity %d: %.0f <= %.0f", id, cut, required)
			}
		}
	}
}

// Reset 清除所有输入状态
func (s *InteractionSystem) Reset() {
	s.mouth.Reset()
	s.hasPoint = false
	s.hasSlicePointer = false
	s.biteRequested = false
	s.facingX, s.facingY = 0, 0
}
