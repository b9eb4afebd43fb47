package entities

import (
	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
)

// NewSeedProjectile 创建种子弹丸实体
// 弹丸从交互点（嘴巴）射出，以恒定速度直线飞行
//
// 参数:
//   - em: 实体管理器
//   - startX, startY: 起始位置
//   - vx, vy: 速度（像素/帧）
func NewSeedProjectile(em *ecs.EntityManager, startX, startY, vx, vy float64) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: startX, Y: startY})
	em.AddComponent(id, &components.ProjectileComponent{VX: vx, VY: vy})
	em.AddComponent(id, &components.SpinComponent{RotationSpeed: 0.2})
	return id
}

// NewFireParticle 创建喷火粒子实体
func NewFireParticle(em *ecs.EntityManager, startX, startY, vx, vy float64, life int, radius float64) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: startX, Y: startY})
	em.AddComponent(id, &components.FireParticleComponent{
		VX:      vx,
		VY:      vy,
		Life:    life,
		MaxLife: life,
		Radius:  radius,
	})
	return id
}
