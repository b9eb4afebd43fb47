package config

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ko2345-cloud/eat-party/pkg/types"
)

// FruitTypeDefinition 水果类型定义
//
// 启动时加载一次，之后只读。
// 配置文件位置: data/fruits.yaml
type FruitTypeDefinition struct {
	// ID 类型ID（即 fruits 映射表的键），加载时填充
	ID string `yaml:"-"`

	Name   string   `yaml:"name"`   // 显示名
	Stages []string `yaml:"stages"` // 阶段标识，按已损失生命值排序
	HP     int      `yaml:"hp"`     // 初始生命值（咬几口吃完）
	Scale  float64  `yaml:"scale"`  // 基础缩放

	// CollisionScale 可食用范围倍率（0 表示 1.0）
	CollisionScale float64 `yaml:"collisionScale"`
	// VisualScale 仅影响渲染的缩放倍率（0 表示 1.0）
	VisualScale float64 `yaml:"visualScale"`
	// StageScales 特定阶段的几何缩放（模型和碰撞半径同时缩小）
	StageScales map[string]float64 `yaml:"stageScales"`

	Points int             `yaml:"points"` // 每口得分
	Splash string          `yaml:"splash"` // 果汁/污渍标识
	Role   types.FruitRole `yaml:"role"`   // 特殊角色

	// MaxBounces 反弹上限覆盖值（0 表示使用全局配置）
	MaxBounces int `yaml:"maxBounces"`
}

// EffectiveCollisionScale 返回可食用范围倍率
func (d *FruitTypeDefinition) EffectiveCollisionScale() float64 {
	if d.CollisionScale <= 0 {
		return 1.0
	}
	return d.CollisionScale
}

// EffectiveVisualScale 返回渲染缩放
func (d *FruitTypeDefinition) EffectiveVisualScale() float64 {
	if d.VisualScale <= 0 {
		return d.Scale
	}
	return d.Scale * d.VisualScale
}

// StageScale 返回阶段的几何缩放，未配置的阶段为 1.0
func (d *FruitTypeDefinition) StageScale(stageKey string) float64 {
	if s, ok := d.StageScales[stageKey]; ok && s > 0 {
		return s
	}
	return 1.0
}

// StageIndex 根据生命值计算阶段索引
// 公式: clamp(maxHP - hp, 0, len(stages)-1)
func (d *FruitTypeDefinition) StageIndex(hp, maxHP int) int {
	index := maxHP - hp
	if index < 0 {
		index = 0
	}
	if index > len(d.Stages)-1 {
		index = len(d.Stages) - 1
	}
	return index
}

// StageKey 根据生命值返回阶段标识
func (d *FruitTypeDefinition) StageKey(hp, maxHP int) string {
	if len(d.Stages) == 0 {
		return d.ID
	}
	return d.Stages[d.StageIndex(hp, maxHP)]
}

// FruitConfig 水果类型配置表
type FruitConfig struct {
	// DefaultType 未知类型ID时回退使用的类型
	DefaultType string `yaml:"defaultType"`
	// Fruits 类型ID -> 定义
	Fruits map[string]*FruitTypeDefinition `yaml:"fruits"`
}

// LoadFruitConfig 从 YAML 文件加载水果配置
//
// 参数:
//   - path: 配置文件路径（如 "data/fruits.yaml"）
//
// 返回:
//   - *FruitConfig: 加载并验证后的配置
//   - error: 读取、解析或验证失败
func LoadFruitConfig(path string) (*FruitConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fruit config: %w", err)
	}
	return ParseFruitConfig(data)
}

// ParseFruitConfig 从 YAML 数据解析水果配置
func ParseFruitConfig(data []byte) (*FruitConfig, error) {
	var config FruitConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse fruit config YAML: %w", err)
	}

	for id, def := range config.Fruits {
		if def != nil {
			def.ID = id
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fruit config: %w", err)
	}

	return &config, nil
}

// Validate 验证配置有效性
func (c *FruitConfig) Validate() error {
	if len(c.Fruits) == 0 {
		return fmt.Errorf("fruits cannot be empty")
	}

	if _, ok := c.Fruits[c.DefaultType]; !ok {
		return fmt.Errorf("defaultType %q is not defined in fruits", c.DefaultType)
	}

	for id, def := range c.Fruits {
		if def == nil {
			return fmt.Errorf("fruit %q has no definition", id)
		}
		if len(def.Stages) == 0 {
			return fmt.Errorf("fruit %q must have at least one stage", id)
		}
		if def.HP < 1 {
			return fmt.Errorf("fruit %q hp must be >= 1, got %d", id, def.HP)
		}
		if def.Scale <= 0 {
			return fmt.Errorf("fruit %q scale must be > 0, got %f", id, def.Scale)
		}
		if def.CollisionScale < 0 || def.VisualScale < 0 {
			return fmt.Errorf("fruit %q scales cannot be negative", id)
		}
		if def.Points < 0 {
			return fmt.Errorf("fruit %q points cannot be negative, got %d", id, def.Points)
		}
		for stage, s := range def.StageScales {
			if s <= 0 || s > 1 {
				return fmt.Errorf("fruit %q stageScales[%s] must be in (0, 1], got %f", id, stage, s)
			}
		}
		switch def.Role {
		case types.RoleNormal, types.RoleHeavy, types.RoleHazard:
		default:
			return fmt.Errorf("fruit %q has unknown role %q", id, def.Role)
		}
		if def.MaxBounces < 0 {
			return fmt.Errorf("fruit %q maxBounces cannot be negative, got %d", id, def.MaxBounces)
		}
	}

	return nil
}

// Get 返回类型定义，不存在时 ok=false
func (c *FruitConfig) Get(typeID string) (*FruitTypeDefinition, bool) {
	def, ok := c.Fruits[typeID]
	return def, ok
}

// Lookup 返回类型定义，未知类型回退到默认类型并记录警告
// 生成描述由模拟内部产生，查找失败绝不能中断游戏循环
func (c *FruitConfig) Lookup(typeID string) *FruitTypeDefinition {
	if def, ok := c.Fruits[typeID]; ok {
		return def
	}
	log.Printf("[FruitConfig] Warning: unknown fruit type %q, falling back to %q", typeID, c.DefaultType)
	return c.Fruits[c.DefaultType]
}

// TypeIDs 返回所有类型ID（排序后）
func (c *FruitConfig) TypeIDs() []string {
	ids := make([]string, 0, len(c.Fruits))
	for id := range c.Fruits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
