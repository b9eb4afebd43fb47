package systems

import (
	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

type pendingRemoval struct {
	id        ecs.EntityID
	reason    string
	fruitType string
	x, y      float64
}

// RemovalQueue 水果移除的唯一入口
//
// Mark 立即把实体加入 EntityManager 的待删除集合（之后的碰撞、咬、切、烧都会跳过它），
// 并记录类型和位置；Sweep 在帧末真正删除实体并为每个水果发出 removed 事件。
// 同一实体多次标记只保留第一次的原因。
type RemovalQueue struct {
	em      *ecs.EntityManager
	queue   *events.EventQueue
	clock   utils.Clock
	pending []pendingRemoval
}

// NewRemovalQueue 创建移除队列
func NewRemovalQueue(em *ecs.EntityManager, queue *events.EventQueue, clock utils.Clock) *RemovalQueue {
	return &RemovalQueue{
		em:    em,
		queue: queue,
		clock: clock,
	}
}

// Mark 标记实体待移除
//
// 返回:
//   - bool: 本次调用是否生效（实体不存在或已被标记时返回 false）
func (q *RemovalQueue) Mark(id ecs.EntityID, reason string) bool {
	if !q.em.IsAlive(id) || q.em.IsPendingDestroy(id) {
		return false
	}

	p := pendingRemoval{id: id, reason: reason}
	if fruit, ok := ecs.GetComponent[*components.FruitComponent](q.em, id); ok {
		p.fruitType = fruit.TypeID
	}
	if pos, ok := ecs.GetComponent[*components.PositionComponent](q.em, id); ok {
		p.x, p.y = pos.X, pos.Y
	}

	q.em.DestroyEntity(id)
	q.pending = append(q.pending, p)
	return true
}

// PendingCount 返回本帧已标记、尚未清扫的数量
func (q *RemovalQueue) PendingCount() int {
	return len(q.pending)
}

// Sweep 删除所有已标记实体，为水果发出 removed 事件
//
// 返回:
//   - []ecs.EntityID: 本次真正删除的实体（包括直接调用 DestroyEntity 的粒子/弹丸）
func (q *RemovalQueue) Sweep() []ecs.EntityID {
	now := q.clock.Now()
	for _, p := range q.pending {
		if p.fruitType == "" {
			continue
		}
		q.queue.Push(events.Event{
			Type:      events.EventRemoved,
			Time:      now,
			EntityID:  p.id,
			FruitType: p.fruitType,
			X:         p.x,
			Y:         p.y,
			Reason:    p.reason,
		})
	}
	q.pending = q.pending[:0]
	return q.em.RemoveMarkedEntities()
}

// Reset 丢弃所有待清扫记录（游戏结束时与 EntityManager.Clear 一起调用）
func (q *RemovalQueue) Reset() {
	q.pending = q.pending[:0]
}
