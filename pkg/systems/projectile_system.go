package systems

import (
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/entities"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// ProjectileSystem 种子射击能力
//
// 能力生效期间按固定间隔从交互点沿朝向（默认向下）射出种子；
// 种子命中水果后消失，水果高速自旋并累计命中次数，每 HitsPerBite 次咬一口。
// 一颗种子只命中一个水果。
type ProjectileSystem struct {
	em          *ecs.EntityManager
	fruits      *FruitSystem
	abilities   *AbilityState
	interaction *InteractionSystem
	rng         utils.RandomSource

	seed  config.SeedConfig
	field config.FieldConfig

	lastShot time.Time
	hasShot  bool
}

// NewProjectileSystem 创建种子射击系统
func NewProjectileSystem(em *ecs.EntityManager, fruits *FruitSystem, abilities *AbilityState,
	interaction *InteractionSystem, rng utils.RandomSource, tuning *config.TuningConfig) *ProjectileSystem {
	return &ProjectileSystem{
		em:          em,
		fruits:      fruits,
		abilities:   abilities,
		interaction: interaction,
		rng:         rng,
		seed:        tuning.Seed,
		field:       tuning.Field,
	}
}

// SetFieldSize 更新场地尺寸
func (s *ProjectileSystem) SetFieldSize(width, height float64) {
	s.field.Width = width
	s.field.Height = height
}

// Update 发射并推进种子
func (s *ProjectileSystem) Update(now time.Time) {
	if s.abilities.IsActive(types.AbilitySeedShot, now) {
		s.tryFire(now)
	}
	s.updateProjectiles()
}

func (s *ProjectileSystem) tryFire(now time.Time) {
	point, ok := s.interaction.InteractionPoint()
	if !ok {
		return
	}
	if s.hasShot && now.Sub(s.lastShot) <= utils.Millis(s.seed.FireIntervalMs) {
		return
	}
	s.lastShot = now
	s.hasShot = true

	dirX, dirY, ok := s.interaction.Facing()
	if !ok {
		dirX, dirY = 0, 1
	}
	jitter := s.seed.Spread * s.seed.Speed
	vx := dirX*s.seed.Speed + utils.RandCentered(s.rng, jitter)
	vy := dirY*s.seed.Speed + utils.RandCentered(s.rng, jitter)

	entities.NewSeedProjectile(s.em, point.X, point.Y, vx, vy)
}

func (s *ProjectileSystem) updateProjectiles() {
	projectiles := ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](s.em)
	if len(projectiles) == 0 {
		return
	}
	fruits := ecs.GetEntitiesWith3[*components.FruitComponent, *components.PositionComponent, *components.CollisionComponent](s.em)
	margin := s.seed.ExitMargin

	for _, pid := range projectiles {
		if s.em.IsPendingDestroy(pid) {
			continue
		}
		projectile, _ := ecs.GetComponent[*components.ProjectileComponent](s.em, pid)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, pid)

		pos.X += projectile.VX
		pos.Y += projectile.VY

		if HasExitedField(pos.X, pos.Y, s.field.Width, s.field.Height, margin) {
			s.em.DestroyEntity(pid)
			continue
		}

		for _, fid := range fruits {
			if s.em.IsPendingDestroy(fid) {
				continue
			}
			fpos, _ := ecs.GetComponent[*components.PositionComponent](s.em, fid)
			collision, _ := ecs.GetComponent[*components.CollisionComponent](s.em, fid)
			if utils.Distance(pos.X, pos.Y, fpos.X, fpos.Y) >= collision.BiteRadius {
				continue
			}

			s.em.DestroyEntity(pid)
			s.onHit(fid)
			break
		}
	}
}

// onHit 处理种子命中
func (s *ProjectileSystem) onHit(fid ecs.EntityID) {
	if spin, ok := ecs.GetComponent[*components.SpinComponent](s.em, fid); ok {
		spin.RotationSpeed = s.seed.HitSpin
	}
	fruit, _ := ecs.GetComponent[*components.FruitComponent](s.em, fid)
	fruit.SeedHits++
	if s.seed.HitsPerBite > 0 && fruit.SeedHits%s.seed.HitsPerBite == 0 {
		s.fruits.TakeBite(fid)
	}
}

// Clear 移除所有种子并重置射击节奏
func (s *ProjectileSystem) Clear() {
	for _, id := range ecs.GetEntitiesWith1[*components.ProjectileComponent](s.em) {
		s.em.DestroyEntity(id)
	}
	s.hasShot = false
}
