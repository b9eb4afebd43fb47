package systems

import (
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/events"
)

// MovementSystem 每帧推进所有水果的位置和旋转
//
// 轨迹模式：按注入时钟计算线性进度，缓动后求位置再叠加碰撞偏移，
// 线性进度到达 1 时移除（与缓动无关，保证按时长准时离场）。
// 反弹模式：按速度积分并处理碰壁，反弹耗尽且飞出场地后移除。
type MovementSystem struct {
	em      *ecs.EntityManager
	removal *RemovalQueue
	field   config.FieldConfig
	bounce  config.BounceConfig
}

// NewMovementSystem 创建运动系统
func NewMovementSystem(em *ecs.EntityManager, removal *RemovalQueue, tuning *config.TuningConfig) *MovementSystem {
	return &MovementSystem{
		em:      em,
		removal: removal,
		field:   tuning.Field,
		bounce:  tuning.Bounce,
	}
}

// SetFieldSize 更新场地尺寸
func (s *MovementSystem) SetFieldSize(width, height float64) {
	s.field.Width = width
	s.field.Height = height
}

// Update 推进一帧
func (s *MovementSystem) Update(now time.Time) {
	s.updatePathMotion(now)
	s.updateBounceMotion()
	s.updateSpin()
}

func (s *MovementSystem) updatePathMotion(now time.Time) {
	ids := ecs.GetEntitiesWith2[*components.PositionComponent, *components.PathMotionComponent](s.em)
	for _, id := range ids {
		if s.em.IsPendingDestroy(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
		motion, _ := ecs.GetComponent[*components.PathMotionComponent](s.em, id)

		raw, eased := PathProgress(motion.Path, motion.StartTime, now)
		motion.Progress = raw

		p := PositionOnPath(motion.Path, eased)
		if collision, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id); ok {
			p.X += collision.OffsetX
			p.Y += collision.OffsetY
		}
		pos.X, pos.Y = p.X, p.Y
		if !motion.Entered && pos.X >= 0 && pos.X <= s.field.Width && pos.Y >= 0 && pos.Y <= s.field.Height {
			motion.Entered = true
		}

		if raw >= 1 {
			s.removal.Mark(id, events.ReasonPathComplete)
		}
	}
}

func (s *MovementSystem) updateBounceMotion() {
	ids := ecs.GetEntitiesWith2[*components.PositionComponent, *components.BounceMotionComponent](s.em)
	for _, id := range ids {
		if s.em.IsPendingDestroy(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
		motion, _ := ecs.GetComponent[*components.BounceMotionComponent](s.em, id)

		StepBounce(pos, motion, s.field.Width, s.field.Height, s.bounce.Margin)

		if motion.Exhausted() && HasExitedField(pos.X, pos.Y, s.field.Width, s.field.Height, s.bounce.ExitMargin) {
			s.removal.Mark(id, events.ReasonOutOfBounds)
		}
	}
}

// updateSpin 旋转对两种模式都无条件生效
func (s *MovementSystem) updateSpin() {
	ids := ecs.GetEntitiesWith1[*components.SpinComponent](s.em)
	for _, id := range ids {
		spin, _ := ecs.GetComponent[*components.SpinComponent](s.em, id)
		spin.Rotation += spin.RotationSpeed
		spin.RotX += spin.RotSpeedX
		spin.RotY += spin.RotSpeedY
	}
}
