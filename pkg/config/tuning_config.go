package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TuningConfig 模拟可调参数
//
// 所有数值都可以在 data/tuning.yaml 中覆盖；文件中省略的字段保持 DefaultTuningConfig 的值。
// 速度类参数以"像素/帧"为单位（60 TPS），时间类参数以毫秒或帧为单位（字段名标明）。
type TuningConfig struct {
	Field      FieldConfig      `yaml:"field"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Bounce     BounceConfig     `yaml:"bounce"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	FruitRules FruitRulesConfig `yaml:"fruitRules"`
	Game       GameConfig       `yaml:"game"`
	Mouth      MouthConfig      `yaml:"mouth"`
	Fire       FireConfig       `yaml:"fire"`
	Seed       SeedConfig       `yaml:"seed"`
}

// FieldConfig 场地尺寸
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// OutOfBoundsMargin 越界判定边距（顶部不设限）
	OutOfBoundsMargin float64 `yaml:"outOfBoundsMargin"`
}

// PhysicsConfig 碰撞与偏移参数
type PhysicsConfig struct {
	Gravity   float64 `yaml:"gravity"`   // 物理词汇表的一部分，轨迹运动不直接使用
	Push      float64 `yaml:"push"`      // 轨迹模式软推力强度
	Damping   float64 `yaml:"damping"`   // 偏移每帧衰减倍率 (<1)
	MinOffset float64 `yaml:"minOffset"` // 偏移归零阈值
	Epsilon   float64 `yaml:"epsilon"`   // 距离/归一化的退化保护

	// BiteRadiusUnit 可食用半径基数：biteRadius = unit * scale * collisionScale * stageScale
	BiteRadiusUnit float64 `yaml:"biteRadiusUnit"`
	// FruitCollisionRatio 水果间碰撞半径相对可食用半径的比例 (<=1)
	FruitCollisionRatio float64 `yaml:"fruitCollisionRatio"`
}

// BounceConfig 反弹模式参数
type BounceConfig struct {
	SpeedMin    float64 `yaml:"speedMin"`
	SpeedMax    float64 `yaml:"speedMax"`
	MaxBounces  int     `yaml:"maxBounces"`
	Margin      float64 `yaml:"margin"`      // 碰壁判定边距
	SpawnMargin float64 `yaml:"spawnMargin"` // 出生点在场地外的距离
	ExitMargin  float64 `yaml:"exitMargin"`  // 反弹耗尽后飞出多远才移除
}

// SpawnConfig 生成调度参数
type SpawnConfig struct {
	IntervalMs        float64 `yaml:"intervalMs"`
	RoundSizeMin      int     `yaml:"roundSizeMin"`
	RoundSizeMax      int     `yaml:"roundSizeMax"`
	HazardIntervalMin float64 `yaml:"hazardIntervalMinMs"`
	HazardIntervalMax float64 `yaml:"hazardIntervalMaxMs"`

	// BaseTypes 普通类型及权重（权重相等即均匀选择）
	BaseTypes  []WeightedType `yaml:"baseTypes"`
	HeavyType  string         `yaml:"heavyType"`
	HazardType string         `yaml:"hazardType"`

	// RotationSpeedRange 平面旋转速度范围：(rand-0.5) * range
	RotationSpeedRange float64 `yaml:"rotationSpeedRange"`
	// SpinRange 双轴自旋速度范围：(rand-0.5) * range
	SpinRange float64 `yaml:"spinRange"`
}

// WeightedType 带权重的水果类型
type WeightedType struct {
	Type   string  `yaml:"type"`
	Weight float64 `yaml:"weight"`
}

// FruitRulesConfig 水果状态机参数
type FruitRulesConfig struct {
	BiteCooldownTicks int     `yaml:"biteCooldownTicks"`
	BurnRemoveDelayMs float64 `yaml:"burnRemoveDelayMs"`
	SliceHP           int     `yaml:"sliceHp"`      // 切开后两半各自的生命值
	SliceImpulse      float64 `yaml:"sliceImpulse"` // 切开时向外的冲量

	SliceDetectFactor float64 `yaml:"sliceDetectFactor"` // 切割检测半径 = biteRadius * factor
	SliceMinCutFactor float64 `yaml:"sliceMinCutFactor"` // 最短划过距离 = min(biteRadius * factor, cap)
	SliceMinCutCap    float64 `yaml:"sliceMinCutCap"`
	BurnContactFactor float64 `yaml:"burnContactFactor"` // 火焰粒子接触距离 = biteRadius * factor
}

// GameConfig 游戏会话参数
type GameConfig struct {
	DurationSec       float64 `yaml:"durationSec"`
	CountdownSec      float64 `yaml:"countdownSec"`
	PointsPerBurn     int     `yaml:"pointsPerBurn"`
	AbilityDurationMs float64 `yaml:"abilityDurationMs"`
	ComboBites        int     `yaml:"comboBites"`    // 触发种子射击所需的大型水果咬击次数
	ComboWindowMs     float64 `yaml:"comboWindowMs"` // 连击时间窗
}

// MouthConfig 张嘴检测阈值（带迟滞）
type MouthConfig struct {
	OpenThreshold  float64 `yaml:"openThreshold"`
	CloseThreshold float64 `yaml:"closeThreshold"`
}

// FireConfig 喷火粒子参数
type FireConfig struct {
	SpeedMin     float64 `yaml:"speedMin"`
	SpeedMax     float64 `yaml:"speedMax"`
	LifeMinTicks int     `yaml:"lifeMinTicks"`
	LifeMaxTicks int     `yaml:"lifeMaxTicks"`
	RadiusMin    float64 `yaml:"radiusMin"`
	RadiusMax    float64 `yaml:"radiusMax"`
	Spread       float64 `yaml:"spread"` // 发射角随机范围（±spread 弧度）
	ParticlesMin int     `yaml:"particlesMin"`
	ParticlesMax int     `yaml:"particlesMax"`
}

// SeedConfig 种子射击参数
type SeedConfig struct {
	FireIntervalMs float64 `yaml:"fireIntervalMs"`
	Speed          float64 `yaml:"speed"`
	Spread         float64 `yaml:"spread"`
	HitSpin        float64 `yaml:"hitSpin"`     // 命中后水果的自旋速度
	HitsPerBite    int     `yaml:"hitsPerBite"` // 每 N 次命中咬一口
	ExitMargin     float64 `yaml:"exitMargin"`
}

// DefaultTuningConfig 返回默认参数
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		Field: FieldConfig{
			Width:             1280,
			Height:            720,
			OutOfBoundsMargin: 400,
		},
		Physics: PhysicsConfig{
			Gravity:             0.5,
			Push:                0.4,
			Damping:             0.92,
			MinOffset:           0.5,
			Epsilon:             0.01,
			BiteRadiusUnit:      150,
			FruitCollisionRatio: 0.6,
		},
		Bounce: BounceConfig{
			SpeedMin:    3,
			SpeedMax:    5.5,
			MaxBounces:  5,
			Margin:      50,
			SpawnMargin: 80,
			ExitMargin:  200,
		},
		Spawn: SpawnConfig{
			IntervalMs:        2500,
			RoundSizeMin:      6,
			RoundSizeMax:      12,
			HazardIntervalMin: 25000,
			HazardIntervalMax: 40000,
			BaseTypes: []WeightedType{
				{Type: "apple", Weight: 25},
				{Type: "lemon", Weight: 25},
				{Type: "orange", Weight: 25},
				{Type: "avocado", Weight: 25},
			},
			HeavyType:          "watermelon",
			HazardType:         "chili",
			RotationSpeedRange: 0.08,
			SpinRange:          0.05,
		},
		FruitRules: FruitRulesConfig{
			BiteCooldownTicks: 30,
			BurnRemoveDelayMs: 2000,
			SliceHP:           3,
			SliceImpulse:      2,
			SliceDetectFactor: 1.1,
			SliceMinCutFactor: 0.5,
			SliceMinCutCap:    150,
			BurnContactFactor: 0.8,
		},
		Game: GameConfig{
			DurationSec:       120,
			CountdownSec:      3,
			PointsPerBurn:     10,
			AbilityDurationMs: 8000,
			ComboBites:        3,
			ComboWindowMs:     5000,
		},
		Mouth: MouthConfig{
			OpenThreshold:  0.05,
			CloseThreshold: 0.02,
		},
		Fire: FireConfig{
			SpeedMin:     8,
			SpeedMax:     18,
			LifeMinTicks: 30,
			LifeMaxTicks: 50,
			RadiusMin:    15,
			RadiusMax:    35,
			Spread:       1.5,
			ParticlesMin: 3,
			ParticlesMax: 5,
		},
		Seed: SeedConfig{
			FireIntervalMs: 100,
			Speed:          15,
			Spread:         0.1,
			HitSpin:        0.5,
			HitsPerBite:    3,
			ExitMargin:     100,
		},
	}
}

// LoadTuningConfig 从 YAML 文件加载可调参数
//
// 参数:
//   - path: 配置文件路径（如 "data/tuning.yaml"）
//
// 返回:
//   - *TuningConfig: 默认值之上覆盖文件内容后的配置
//   - error: 读取、解析或验证失败
func LoadTuningConfig(path string) (*TuningConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning config: %w", err)
	}
	return ParseTuningConfig(data)
}

// ParseTuningConfig 从 YAML 数据解析可调参数
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	config := DefaultTuningConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse tuning config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning config: %w", err)
	}

	return config, nil
}

// Validate 验证参数有效性
func (c *TuningConfig) Validate() error {
	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		return fmt.Errorf("field size must be > 0, got %fx%f", c.Field.Width, c.Field.Height)
	}
	if c.Field.OutOfBoundsMargin < 0 {
		return fmt.Errorf("field.outOfBoundsMargin cannot be negative")
	}

	p := c.Physics
	if p.Push < 0 {
		return fmt.Errorf("physics.push cannot be negative, got %f", p.Push)
	}
	if p.Damping <= 0 || p.Damping >= 1 {
		return fmt.Errorf("physics.damping must be in (0, 1), got %f", p.Damping)
	}
	if p.MinOffset <= 0 {
		return fmt.Errorf("physics.minOffset must be > 0, got %f", p.MinOffset)
	}
	if p.Epsilon <= 0 {
		return fmt.Errorf("physics.epsilon must be > 0, got %f", p.Epsilon)
	}
	if p.BiteRadiusUnit <= 0 {
		return fmt.Errorf("physics.biteRadiusUnit must be > 0, got %f", p.BiteRadiusUnit)
	}
	if p.FruitCollisionRatio <= 0 || p.FruitCollisionRatio > 1 {
		return fmt.Errorf("physics.fruitCollisionRatio must be in (0, 1], got %f", p.FruitCollisionRatio)
	}

	b := c.Bounce
	if b.SpeedMin <= 0 || b.SpeedMax < b.SpeedMin {
		return fmt.Errorf("bounce speed range invalid: [%f, %f]", b.SpeedMin, b.SpeedMax)
	}
	if b.MaxBounces < 0 {
		return fmt.Errorf("bounce.maxBounces cannot be negative, got %d", b.MaxBounces)
	}
	if b.Margin < 0 || b.SpawnMargin < 0 || b.ExitMargin < 0 {
		return fmt.Errorf("bounce margins cannot be negative")
	}

	s := c.Spawn
	if s.IntervalMs <= 0 {
		return fmt.Errorf("spawn.intervalMs must be > 0, got %f", s.IntervalMs)
	}
	if s.RoundSizeMin < 1 || s.RoundSizeMax < s.RoundSizeMin {
		return fmt.Errorf("spawn round size range invalid: [%d, %d]", s.RoundSizeMin, s.RoundSizeMax)
	}
	if s.HazardIntervalMin <= 0 || s.HazardIntervalMax < s.HazardIntervalMin {
		return fmt.Errorf("spawn hazard interval range invalid: [%f, %f]", s.HazardIntervalMin, s.HazardIntervalMax)
	}
	if len(s.BaseTypes) == 0 {
		return fmt.Errorf("spawn.baseTypes cannot be empty")
	}
	totalWeight := 0.0
	for i, wt := range s.BaseTypes {
		if wt.Type == "" {
			return fmt.Errorf("spawn.baseTypes[%d]: type cannot be empty", i)
		}
		if wt.Weight < 0 {
			return fmt.Errorf("spawn.baseTypes[%d] (%s): weight cannot be negative", i, wt.Type)
		}
		totalWeight += wt.Weight
	}
	if totalWeight <= 0 {
		return fmt.Errorf("spawn.baseTypes total weight must be > 0")
	}
	if s.HeavyType == "" || s.HazardType == "" {
		return fmt.Errorf("spawn.heavyType and spawn.hazardType are required")
	}

	r := c.FruitRules
	if r.BiteCooldownTicks < 0 {
		return fmt.Errorf("fruitRules.biteCooldownTicks cannot be negative")
	}
	if r.BurnRemoveDelayMs < 0 {
		return fmt.Errorf("fruitRules.burnRemoveDelayMs cannot be negative")
	}
	if r.SliceHP < 1 {
		return fmt.Errorf("fruitRules.sliceHp must be >= 1, got %d", r.SliceHP)
	}

	g := c.Game
	if g.DurationSec <= 0 {
		return fmt.Errorf("game.durationSec must be > 0, got %f", g.DurationSec)
	}
	if g.CountdownSec < 0 {
		return fmt.Errorf("game.countdownSec cannot be negative")
	}
	if g.ComboBites < 1 {
		return fmt.Errorf("game.comboBites must be >= 1, got %d", g.ComboBites)
	}

	if c.Mouth.CloseThreshold >= c.Mouth.OpenThreshold {
		return fmt.Errorf("mouth.closeThreshold (%f) must be below openThreshold (%f)",
			c.Mouth.CloseThreshold, c.Mouth.OpenThreshold)
	}

	f := c.Fire
	if f.ParticlesMin < 0 || f.ParticlesMax < f.ParticlesMin {
		return fmt.Errorf("fire particle count range invalid: [%d, %d]", f.ParticlesMin, f.ParticlesMax)
	}
	if f.LifeMinTicks < 1 || f.LifeMaxTicks < f.LifeMinTicks {
		return fmt.Errorf("fire particle life range invalid: [%d, %d]", f.LifeMinTicks, f.LifeMaxTicks)
	}

	if c.Seed.FireIntervalMs <= 0 {
		return fmt.Errorf("seed.fireIntervalMs must be > 0, got %f", c.Seed.FireIntervalMs)
	}
	if c.Seed.HitsPerBite < 1 {
		return fmt.Errorf("seed.hitsPerBite must be >= 1, got %d", c.Seed.HitsPerBite)
	}

	return nil
}
