package systems

import (
	"math"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/entities"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// FireSystem 喷火能力
//
// 能力生效且张嘴时，每帧从交互点沿朝向喷出若干火焰粒子；粒子中心进入水果
// BiteRadius*BurnContactFactor 范围即烧焦该水果。能力结束时清除所有粒子。
type FireSystem struct {
	em          *ecs.EntityManager
	fruits      *FruitSystem
	abilities   *AbilityState
	interaction *InteractionSystem
	rng         utils.RandomSource

	fire       config.FireConfig
	rules      config.FruitRulesConfig
	fieldWidth float64
}

// NewFireSystem 创建喷火系统
func NewFireSystem(em *ecs.EntityManager, fruits *FruitSystem, abilities *AbilityState,
	interaction *InteractionSystem, rng utils.RandomSource, tuning *config.TuningConfig) *FireSystem {
	return &FireSystem{
		em:          em,
		fruits:      fruits,
		abilities:   abilities,
		interaction: interaction,
		rng:         rng,
		fire:        tuning.Fire,
		rules:       tuning.FruitRules,
		fieldWidth:  tuning.Field.Width,
	}
}

// SetFieldSize 更新场地尺寸（没有朝向时按交互点在哪半边决定喷射方向）
func (s *FireSystem) SetFieldSize(width, _ float64) {
	s.fieldWidth = width
}

// Update 发射并推进火焰粒子
func (s *FireSystem) Update(now time.Time) {
	if !s.abilities.IsActive(types.AbilityFireBreath, now) {
		s.Clear()
		return
	}

	if point, ok := s.interaction.InteractionPoint(); ok && s.interaction.MouthOpen() {
		s.emit(point)
	}
	s.updateParticles()
}

// emit 从交互点喷出一组粒子，方向在基准方向 ±Spread 弧度内随机
func (s *FireSystem) emit(origin types.Point) {
	baseX, baseY, ok := s.interaction.Facing()
	if !ok {
		// 没有朝向时朝场地另一侧水平喷射
		baseX, baseY = -1, 0
		if origin.X < s.fieldWidth/2 {
			baseX = 1
		}
	}

	count := utils.RandIntInclusive(s.rng, s.fire.ParticlesMin, s.fire.ParticlesMax)
	for i := 0; i < count; i++ {
		angle := utils.RandCentered(s.rng, 2*s.fire.Spread)
		cos, sin := math.Cos(angle), math.Sin(angle)
		dirX := baseX*cos - baseY*sin
		dirY := baseX*sin + baseY*cos

		speed := utils.RandRange(s.rng, s.fire.SpeedMin, s.fire.SpeedMax)
		life := utils.RandIntInclusive(s.rng, s.fire.LifeMinTicks, s.fire.LifeMaxTicks)
		radius := utils.RandRange(s.rng, s.fire.RadiusMin, s.fire.RadiusMax)

		entities.NewFireParticle(s.em, origin.X, origin.Y, dirX*speed, dirY*speed, life, radius)
	}
}

func (s *FireSystem) updateParticles() {
	particles := ecs.GetEntitiesWith2[*components.FireParticleComponent, *components.PositionComponent](s.em)
	if len(particles) == 0 {
		return
	}
	fruits := ecs.GetEntitiesWith3[*components.FruitComponent, *components.PositionComponent, *components.CollisionComponent](s.em)

	for _, pid := range particles {
		if s.em.IsPendingDestroy(pid) {
			continue
		}
		particle, _ := ecs.GetComponent[*components.FireParticleComponent](s.em, pid)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, pid)

		pos.X += particle.VX
		pos.Y += particle.VY
		particle.Life--
		if particle.Life <= 0 {
			s.em.DestroyEntity(pid)
			continue
		}

		for _, fid := range fruits {
			if s.em.IsPendingDestroy(fid) {
				continue
			}
			fruit, _ := ecs.GetComponent[*components.FruitComponent](s.em, fid)
			if fruit.Burned {
				continue
			}
			fpos, _ := ecs.GetComponent[*components.PositionComponent](s.em, fid)
			collision, _ := ecs.GetComponent[*components.CollisionComponent](s.em, fid)
			if utils.Distance(pos.X, pos.Y, fpos.X, fpos.Y) < collision.BiteRadius*s.rules.BurnContactFactor {
				s.fruits.BurnFruit(fid)
			}
		}
	}
}

// Clear 立即移除所有火焰粒子
func (s *FireSystem) Clear() {
	for _, id := range ecs.GetEntitiesWith1[*components.FireParticleComponent](s.em) {
		s.em.DestroyEntity(id)
	}
}
