package systems

import (
	"log"
	"math"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// LogOutputFrameInterval 日志输出间隔（每N帧输出一次）
const LogOutputFrameInterval = 100

// collisionBody 参与水果间碰撞的一个实体
type collisionBody struct {
	id        ecs.EntityID
	pos       *components.PositionComponent
	collision *components.CollisionComponent
	bounce    *components.BounceMotionComponent // nil 表示轨迹模式
}

// CollisionSystem 处理水果之间的相互碰撞
//
// 对每一对存活且未标记移除的水果做圆-圆重叠检测：
//   - 任一方处于反弹模式：双方沿法线各分开一半重叠量（反弹方直接改位置，
//     轨迹方改偏移），然后对正朝对方运动的反弹方做速度反射。
//   - 双方都在轨迹模式：按 重叠量 * Push * 0.5 对称推开偏移。
//
// 所有配对处理完后，偏移按 Damping 衰减，低于 MinOffset 的分量直接归零，
// 让被撞开的水果平滑回到原轨迹上。
type CollisionSystem struct {
	em      *ecs.EntityManager
	physics config.PhysicsConfig
	field   config.FieldConfig

	logFrameCounter int
}

// NewCollisionSystem 创建碰撞系统
//
// 参数:
//   - em: 实体管理器，用于查询和修改水果组件
//   - tuning: 可调参数（推力、阻尼、归零阈值、越界边距）
//
// 返回:
//   - *CollisionSystem: 碰撞系统实例
func NewCollisionSystem(em *ecs.EntityManager, tuning *config.TuningConfig) *CollisionSystem {
	return &CollisionSystem{
		em:      em,
		physics: tuning.Physics,
		field:   tuning.Field,
	}
}

// Update 解决本帧所有重叠并衰减偏移
func (cs *CollisionSystem) Update() {
	resolved := cs.ResolvePairs()
	cs.DampOffsets()

	// 只在有重叠时计数，每N帧打印一次
	if resolved > 0 {
		cs.logFrameCounter++
		if cs.logFrameCounter%LogOutputFrameInterval == 1 {
			log.Printf("[CollisionSystem] Resolved %d overlapping pairs", resolved)
		}
	}
}

// ResolvePairs 检测并响应所有重叠的水果对（i < j，按实体ID顺序）
//
// 返回:
//   - int: 本帧处理的重叠对数量
func (cs *CollisionSystem) ResolvePairs() int {
	bodies := cs.collectBodies()
	resolved := 0

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if cs.resolvePair(&bodies[i], &bodies[j]) {
				resolved++
			}
		}
	}
	return resolved
}

// DampOffsets 衰减所有实体的碰撞偏移，小于阈值的分量归零
func (cs *CollisionSystem) DampOffsets() {
	ids := ecs.GetEntitiesWith1[*components.CollisionComponent](cs.em)
	for _, id := range ids {
		collision, _ := ecs.GetComponent[*components.CollisionComponent](cs.em, id)

		collision.OffsetX *= cs.physics.Damping
		collision.OffsetY *= cs.physics.Damping

		if math.Abs(collision.OffsetX) < cs.physics.MinOffset {
			collision.OffsetX = 0
		}
		if math.Abs(collision.OffsetY) < cs.physics.MinOffset {
			collision.OffsetY = 0
		}
	}
}

// IsOutOfBounds 检查实体是否越界（顶部不设限）
func (cs *CollisionSystem) IsOutOfBounds(id ecs.EntityID) bool {
	pos, ok := ecs.GetComponent[*components.PositionComponent](cs.em, id)
	if !ok {
		return false
	}
	return IsOutOfBounds(pos.X, pos.Y, cs.field.Width, cs.field.Height, cs.field.OutOfBoundsMargin)
}

// SweepOutOfBounds 把进入过场地、又被推出越界范围的轨迹模式水果交给移除队列
//
// 轨迹起点本身可能在越界范围外（从画面外飞入），所以只检查 Entered 的水果。
// 反弹模式的离场由 MovementSystem 按反弹次数处理。
//
// 返回:
//   - int: 本次标记移除的水果数
func (cs *CollisionSystem) SweepOutOfBounds(removal *RemovalQueue) int {
	swept := 0
	for _, id := range ecs.GetEntitiesWith2[*components.PositionComponent, *components.PathMotionComponent](cs.em) {
		if cs.em.IsPendingDestroy(id) {
			continue
		}
		motion, _ := ecs.GetComponent[*components.PathMotionComponent](cs.em, id)
		if !motion.Entered || !cs.IsOutOfBounds(id) {
			continue
		}
		if removal.Mark(id, events.ReasonOutOfBounds) {
			swept++
		}
	}
	return swept
}

// SetFieldSize 更新场地尺寸
func (cs *CollisionSystem) SetFieldSize(width, height float64) {
	cs.field.Width = width
	cs.field.Height = height
}

func (cs *CollisionSystem) collectBodies() []collisionBody {
	ids := ecs.GetEntitiesWith3[*components.PositionComponent, *components.CollisionComponent, *components.FruitComponent](cs.em)
	bodies := make([]collisionBody, 0, len(ids))
	for _, id := range ids {
		if cs.em.IsPendingDestroy(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](cs.em, id)
		collision, _ := ecs.GetComponent[*components.CollisionComponent](cs.em, id)
		bounce, _ := ecs.GetComponent[*components.BounceMotionComponent](cs.em, id)
		bodies = append(bodies, collisionBody{id: id, pos: pos, collision: collision, bounce: bounce})
	}
	return bodies
}

// resolvePair 处理一对水果，返回是否发生重叠
func (cs *CollisionSystem) resolvePair(a, b *collisionBody) bool {
	// 任一方在本帧早些时候被移除（例如被咬完）则跳过
	if cs.em.IsPendingDestroy(a.id) || cs.em.IsPendingDestroy(b.id) {
		return false
	}

	minDist := a.collision.FruitRadius + b.collision.FruitRadius
	nx, ny, dist, ok := utils.Normalize(b.pos.X-a.pos.X, b.pos.Y-a.pos.Y, cs.physics.Epsilon)
	if !ok || dist >= minDist {
		return false
	}
	overlap := minDist - dist

	if a.bounce != nil || b.bounce != nil {
		half := overlap / 2
		cs.separate(a, -nx*half, -ny*half)
		cs.separate(b, nx*half, ny*half)

		// 单向反射：只反射正朝对方运动的一方
		if a.bounce != nil {
			if dot := a.bounce.VX*nx + a.bounce.VY*ny; dot > 0 {
				a.bounce.VX -= 2 * dot * nx
				a.bounce.VY -= 2 * dot * ny
			}
		}
		if b.bounce != nil {
			if dot := b.bounce.VX*nx + b.bounce.VY*ny; dot < 0 {
				b.bounce.VX -= 2 * dot * nx
				b.bounce.VY -= 2 * dot * ny
			}
		}
		return true
	}

	push := overlap * cs.physics.Push * 0.5
	a.collision.OffsetX -= nx * push
	a.collision.OffsetY -= ny * push
	b.collision.OffsetX += nx * push
	b.collision.OffsetY += ny * push
	return true
}

// separate 反弹方直接移动位置，轨迹方累加偏移
func (cs *CollisionSystem) separate(body *collisionBody, dx, dy float64) {
	if body.bounce != nil {
		body.pos.X += dx
		body.pos.Y += dy
		return
	}
	body.collision.OffsetX += dx
	body.collision.OffsetY += dy
}
