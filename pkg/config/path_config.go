package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// PathCatalogConfig 预设轨迹库
//
// 坐标使用视口百分比 (0~1)，运行时乘以场地宽高换算为像素。
// 弧线起点和终点都在画面外足够远处（x < -0.30 或 x > 1.30），
// 保证水果连同碰撞圆完全离开画面后才被移除。
//
// 配置文件位置: data/paths.yaml
type PathCatalogConfig struct {
	Presets       []PathPreset   `yaml:"presets"`
	SpeedProfiles []SpeedProfile `yaml:"speedProfiles"`
}

// PercentPoint 百分比坐标
type PercentPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PathPreset 单条预设轨迹
type PathPreset struct {
	Name string         `yaml:"name"`
	Type types.PathType `yaml:"type"`

	// arc: 二次贝塞尔控制点
	Start   PercentPoint `yaml:"start"`
	Control PercentPoint `yaml:"control"`
	End     PercentPoint `yaml:"end"`

	// loop: 椭圆参数（半径按宽/高的百分比）
	Center  PercentPoint `yaml:"center"`
	RadiusX float64      `yaml:"radiusX"`
	RadiusY float64      `yaml:"radiusY"`

	DurationBase   float64 `yaml:"durationBase"`   // 基准时长（毫秒）
	DurationRandom float64 `yaml:"durationRandom"` // 随机附加时长上限（毫秒）
}

// SpeedProfile 速度档案：时长倍率 + 缓动函数
type SpeedProfile struct {
	Name          string  `yaml:"name"`
	DurationScale float64 `yaml:"durationScale"`
	Easing        string  `yaml:"easing"`
}

// LoadPathCatalogConfig 从 YAML 文件加载轨迹库
func LoadPathCatalogConfig(path string) (*PathCatalogConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read path catalog: %w", err)
	}
	return ParsePathCatalogConfig(data)
}

// ParsePathCatalogConfig 从 YAML 数据解析轨迹库
func ParsePathCatalogConfig(data []byte) (*PathCatalogConfig, error) {
	var config PathCatalogConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse path catalog YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid path catalog: %w", err)
	}

	return &config, nil
}

// Validate 验证轨迹库
func (c *PathCatalogConfig) Validate() error {
	if len(c.Presets) == 0 {
		return fmt.Errorf("presets cannot be empty")
	}
	if len(c.SpeedProfiles) == 0 {
		return fmt.Errorf("speedProfiles cannot be empty")
	}

	for i, p := range c.Presets {
		switch p.Type {
		case types.PathArc:
		case types.PathLoop:
			if p.RadiusX <= 0 || p.RadiusY <= 0 {
				return fmt.Errorf("preset %d (%s): loop radii must be > 0", i, p.Name)
			}
		default:
			return fmt.Errorf("preset %d (%s): unsupported type %q", i, p.Name, p.Type)
		}
		if p.DurationBase <= 0 {
			return fmt.Errorf("preset %d (%s): durationBase must be > 0, got %f", i, p.Name, p.DurationBase)
		}
		if p.DurationRandom < 0 {
			return fmt.Errorf("preset %d (%s): durationRandom cannot be negative", i, p.Name)
		}
	}

	for i, sp := range c.SpeedProfiles {
		if sp.DurationScale <= 0 {
			return fmt.Errorf("speed profile %d (%s): durationScale must be > 0", i, sp.Name)
		}
		if !utils.IsKnownEasing(sp.Easing) {
			return fmt.Errorf("speed profile %d (%s): unknown easing %q", i, sp.Name, sp.Easing)
		}
	}

	return nil
}
