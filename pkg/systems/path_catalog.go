package systems

import (
	"log"
	"math"

	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// 场地边缘编号（反弹模式出生边）
const (
	edgeTop = iota
	edgeBottom
	edgeLeft
	edgeRight
	edgeCount
)

// bounceConeWidth 反弹发射锥角宽度（120°）
const bounceConeWidth = 2 * math.Pi / 3

// PathCatalog 轨迹选择器
//
// 持有预设轨迹库和速度档案，按当前场地尺寸把百分比坐标换算为像素，
// 生成完整的 PathDescriptor。只读数据 + 随机选择，不持有实体状态。
type PathCatalog struct {
	presets  []config.PathPreset
	profiles []config.SpeedProfile
	bounce   config.BounceConfig
	rng      utils.RandomSource

	fieldWidth  float64
	fieldHeight float64
}

// NewPathCatalog 创建轨迹选择器
//
// 参数:
//   - cfg: 已验证的轨迹库配置
//   - tuning: 可调参数（场地尺寸、反弹速度范围、出生边距）
//   - rng: 随机源
func NewPathCatalog(cfg *config.PathCatalogConfig, tuning *config.TuningConfig, rng utils.RandomSource) *PathCatalog {
	log.Printf("[PathCatalog] Loaded %d presets, %d speed profiles", len(cfg.Presets), len(cfg.SpeedProfiles))
	return &PathCatalog{
		presets:     cfg.Presets,
		profiles:    cfg.SpeedProfiles,
		bounce:      tuning.Bounce,
		rng:         rng,
		fieldWidth:  tuning.Field.Width,
		fieldHeight: tuning.Field.Height,
	}
}

// SetFieldSize 更新场地尺寸（窗口缩放时调用），之后生成的轨迹使用新尺寸
func (c *PathCatalog) SetFieldSize(width, height float64) {
	c.fieldWidth = width
	c.fieldHeight = height
}

// FieldSize 返回当前场地尺寸
func (c *PathCatalog) FieldSize() (width, height float64) {
	return c.fieldWidth, c.fieldHeight
}

// PresetCount 返回预设数量
func (c *PathCatalog) PresetCount() int {
	return len(c.presets)
}

// SelectPath 随机选择一条预设轨迹
//
// 预设多于一条时不会与上一次（lastIndex）重复；lastIndex 为 -1 表示没有上一次。
// 时长 = (durationBase + rand * durationRandom) * 速度档案倍率，
// 速度档案独立均匀选择，其缓动函数附加到结果上。
//
// 返回:
//   - types.PathDescriptor: 已换算为像素坐标的轨迹
//   - int: 本次选中的预设下标（供下一次调用传入）
func (c *PathCatalog) SelectPath(lastIndex int) (types.PathDescriptor, int) {
	n := len(c.presets)
	index := c.rng.Intn(n)
	for n > 1 && index == lastIndex {
		index = c.rng.Intn(n)
	}
	preset := c.presets[index]
	profile := c.profiles[c.rng.Intn(len(c.profiles))]

	durationMs := (preset.DurationBase + c.rng.Float64()*preset.DurationRandom) * profile.DurationScale

	desc := types.PathDescriptor{
		Type:      preset.Type,
		Name:      preset.Name,
		Duration:  utils.Millis(durationMs),
		Easing:    profile.Easing,
		SpeedName: profile.Name,
	}

	switch preset.Type {
	case types.PathLoop:
		desc.Center = c.toPixels(preset.Center)
		desc.RadiusX = preset.RadiusX * c.fieldWidth
		desc.RadiusY = preset.RadiusY * c.fieldHeight
	default:
		desc.Start = c.toPixels(preset.Start)
		desc.Control = c.toPixels(preset.Control)
		desc.End = c.toPixels(preset.End)
	}

	return desc, index
}

// SelectBouncePath 生成一条反弹轨迹
//
// 均匀选择场地四条边之一，出生点位于该边外 SpawnMargin 处的随机位置，
// 发射角限制在指向场地内部的 120° 锥内，速度在 [SpeedMin, SpeedMax) 内均匀采样。
func (c *PathCatalog) SelectBouncePath(fieldWidth, fieldHeight float64) types.PathDescriptor {
	margin := c.bounce.SpawnMargin
	edge := c.rng.Intn(edgeCount)

	var x, y, angle float64
	switch edge {
	case edgeTop:
		x = c.rng.Float64() * fieldWidth
		y = -margin
		angle = math.Pi/6 + c.rng.Float64()*bounceConeWidth
	case edgeBottom:
		x = c.rng.Float64() * fieldWidth
		y = fieldHeight + margin
		angle = -(math.Pi/6 + c.rng.Float64()*bounceConeWidth)
	case edgeLeft:
		x = -margin
		y = c.rng.Float64() * fieldHeight
		angle = -math.Pi/3 + c.rng.Float64()*bounceConeWidth
	default:
		x = fieldWidth + margin
		y = c.rng.Float64() * fieldHeight
		angle = 2*math.Pi/3 + c.rng.Float64()*bounceConeWidth
	}

	speed := utils.RandRange(c.rng, c.bounce.SpeedMin, c.bounce.SpeedMax)

	return types.PathDescriptor{
		Type:   types.PathBounce,
		StartX: x,
		StartY: y,
		VX:     math.Cos(angle) * speed,
		VY:     math.Sin(angle) * speed,
		Speed:  speed,
	}
}

func (c *PathCatalog) toPixels(p config.PercentPoint) types.Point {
	return types.Point{X: p.X * c.fieldWidth, Y: p.Y * c.fieldHeight}
}
