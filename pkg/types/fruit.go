package types

// FruitRole 水果类型的特殊角色，决定使用哪一套行为
type FruitRole string

const (
	RoleNormal FruitRole = ""       // 普通水果
	RoleHeavy  FruitRole = "heavy"  // 大型水果：需先切开才能吃，整颗时免疫火焰
	RoleHazard FruitRole = "hazard" // 危险品：吃下后触发特殊能力
)

// BiteResult 咬一口的结果
type BiteResult int

const (
	BiteNone   BiteResult = iota // 未生效（冷却中/已烧焦/不可食用）
	BiteBite                     // 咬掉一口
	BiteFinish                   // 最后一口，实体被吃完
)

// String 返回线上格式的结果名
func (r BiteResult) String() string {
	switch r {
	case BiteBite:
		return "bite"
	case BiteFinish:
		return "finish"
	default:
		return "none"
	}
}

// MarshalText 以名称输出
func (r BiteResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Hazard 作用于水果的外部伤害类型
type Hazard int

const (
	HazardFire Hazard = iota // 喷火烧焦
	HazardSeed               // 种子射击
)

// Ability 吃下特殊水果后获得的玩家能力
type Ability int

const (
	AbilityNone       Ability = iota
	AbilityFireBreath         // 喷火
	AbilitySeedShot           // 种子机关枪
)

// String 返回能力名
func (a Ability) String() string {
	switch a {
	case AbilityFireBreath:
		return "fire_breath"
	case AbilitySeedShot:
		return "seed_shot"
	default:
		return "none"
	}
}

// MarshalText 以名称输出
func (a Ability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
