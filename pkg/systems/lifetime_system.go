package systems

import (
	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// LifetimeSystem 管理延迟移除（烧焦的水果在焦黑状态下保留一段时间）
//
// 计时器就是实体上的 LifetimeComponent，游戏结束时随 EntityManager.Clear 一起丢弃，
// 不会在新一局里作用到已经不存在的实体上。
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
	removal       *RemovalQueue
	clock         utils.Clock
}

// NewLifetimeSystem 创建一个新的生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager, removal *RemovalQueue, clock utils.Clock) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
		removal:       removal,
		clock:         clock,
	}
}

// Update 按经过的秒数推进所有延迟移除计时器，到期的实体交给移除队列
// 设置了 ExpiresAt 的计时器按时钟判定，deltaTime 只计入 CurrentLifetime 供显示
//
// 返回:
//   - int: 本次到期并标记移除的实体数
func (s *LifetimeSystem) Update(deltaTime float64) int {
	if deltaTime < 0 {
		deltaTime = 0
	}

	expired := 0
	for _, id := range ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager) {
		if s.entityManager.IsPendingDestroy(id) {
			continue
		}
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)

		lifetime.CurrentLifetime += deltaTime
		if lifetime.ExpiresAt.IsZero() {
			lifetime.IsExpired = lifetime.IsExpired || lifetime.CurrentLifetime >= lifetime.MaxLifetime
		} else {
			lifetime.IsExpired = lifetime.IsExpired || !s.clock.Now().Before(lifetime.ExpiresAt)
		}
		if !lifetime.IsExpired {
			continue
		}

		reason := lifetime.Reason
		if reason == "" {
			reason = events.ReasonExpired
		}
		if s.removal.Mark(id, reason) {
			expired++
		}
	}
	return expired
}
