package entities

import (
	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/types"
)

// FruitBehavior 按水果角色区分的行为表
//
// 状态机本身是通用的，所有类型差异（能否切开、免疫哪些伤害、咬下后触发什么）
// 都通过这里查询，而不是在状态机里判断类型名。
type FruitBehavior interface {
	// InitialFlags 返回新建实体的 sliceable / edible
	InitialFlags() (sliceable, edible bool)

	// StageKey 根据生命值返回阶段标识
	StageKey(def *config.FruitTypeDefinition, hp, maxHP int) string

	// BiteRadius 返回指定阶段的可食用半径
	BiteRadius(def *config.FruitTypeDefinition, stageKey string, unit float64) float64

	// CanSlice 当前状态能否被切开
	CanSlice(f *components.FruitComponent) bool

	// IsImmuneTo 当前状态是否免疫指定伤害
	IsImmuneTo(f *components.FruitComponent, hazard types.Hazard) bool

	// Ability 被嘴巴咬到时授予的能力；AbilityNone 表示按普通方式咬一口
	Ability() types.Ability

	// CountsTowardCombo 咬这种水果是否计入种子连击
	CountsTowardCombo() bool
}

// BehaviorFor 返回角色对应的行为
func BehaviorFor(role types.FruitRole) FruitBehavior {
	switch role {
	case types.RoleHeavy:
		return heavyBehavior{}
	case types.RoleHazard:
		return hazardBehavior{}
	default:
		return normalBehavior{}
	}
}

// normalBehavior 普通水果：一开始就能吃，不能切，不免疫任何伤害
type normalBehavior struct{}

func (normalBehavior) InitialFlags() (bool, bool) { return false, true }

func (normalBehavior) StageKey(def *config.FruitTypeDefinition, hp, maxHP int) string {
	return def.StageKey(hp, maxHP)
}

func (normalBehavior) BiteRadius(def *config.FruitTypeDefinition, stageKey string, unit float64) float64 {
	return unit * def.Scale * def.EffectiveCollisionScale() * def.StageScale(stageKey)
}

func (normalBehavior) CanSlice(*components.FruitComponent) bool { return false }

func (normalBehavior) IsImmuneTo(*components.FruitComponent, types.Hazard) bool { return false }

func (normalBehavior) Ability() types.Ability { return types.AbilityNone }

func (normalBehavior) CountsTowardCombo() bool { return false }

// heavyBehavior 大型水果：整颗时不能吃且免疫火焰，切开后两半按普通水果处理
type heavyBehavior struct {
	normalBehavior
}

func (heavyBehavior) InitialFlags() (bool, bool) { return true, false }

func (heavyBehavior) CanSlice(f *components.FruitComponent) bool {
	return f.Sliceable && !f.Sliced
}

func (heavyBehavior) IsImmuneTo(f *components.FruitComponent, hazard types.Hazard) bool {
	return hazard == types.HazardFire && !f.Sliced
}

func (heavyBehavior) CountsTowardCombo() bool { return true }

// hazardBehavior 危险品：咬到后整颗消失并授予喷火能力，自身不怕火
type hazardBehavior struct {
	normalBehavior
}

func (hazardBehavior) IsImmuneTo(_ *components.FruitComponent, hazard types.Hazard) bool {
	return hazard == types.HazardFire
}

func (hazardBehavior) Ability() types.Ability { return types.AbilityFireBreath }
