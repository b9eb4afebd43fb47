// Package types 定义模拟核心与宿主层共享的基础类型
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// PathType 轨迹描述的变体标签
type PathType string

const (
	PathArc    PathType = "arc"    // 二次贝塞尔弧线
	PathLoop   PathType = "loop"   // 椭圆环形
	PathBounce PathType = "bounce" // 自由飞行 + 碰壁反弹
)

// Point 二维坐标（像素）
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PathDescriptor 轨迹描述（带标签的联合体）
//
// 字段是否有效取决于 Type：
//   - arc:    Start / Control / End / Duration / Easing
//   - loop:   Center / RadiusX / RadiusY / Duration / Easing
//   - bounce: StartX / StartY / VX / VY / Speed（没有固定时长）
//
// 百分比坐标在创建时已换算为像素坐标。
type PathDescriptor struct {
	Type PathType
	Name string // 预设名（日志/调试用）

	Start   Point
	Control Point
	End     Point

	Center  Point
	RadiusX float64
	RadiusY float64

	Duration  time.Duration
	Easing    string
	SpeedName string // 速度档案名（日志/调试用）

	StartX float64
	StartY float64
	VX     float64
	VY     float64
	Speed  float64
}

// IsBounce 是否为自由飞行轨迹
func (p PathDescriptor) IsBounce() bool {
	return p.Type == PathBounce
}

// StartPoint 返回实体在该轨迹上的初始位置
// 环形路径从底部开始（对应角度 π/2）
func (p PathDescriptor) StartPoint() Point {
	switch p.Type {
	case PathLoop:
		return Point{X: p.Center.X, Y: p.Center.Y + p.RadiusY}
	case PathBounce:
		return Point{X: p.StartX, Y: p.StartY}
	default:
		return p.Start
	}
}

type arcWire struct {
	Type     PathType `json:"type"`
	Start    Point    `json:"start"`
	Control  Point    `json:"control"`
	End      Point    `json:"end"`
	Duration float64  `json:"duration"`
	Easing   string   `json:"easing"`
}

type loopWire struct {
	Type     PathType `json:"type"`
	Center   Point    `json:"center"`
	RadiusX  float64  `json:"radiusX"`
	RadiusY  float64  `json:"radiusY"`
	Duration float64  `json:"duration"`
	Easing   string   `json:"easing"`
}

type bounceWire struct {
	Type   PathType `json:"type"`
	StartX float64  `json:"startX"`
	StartY float64  `json:"startY"`
	VX     float64  `json:"vx"`
	VY     float64  `json:"vy"`
	Speed  float64  `json:"speed"`
}

// MarshalJSON 按变体输出线上格式，duration 以毫秒表示
func (p PathDescriptor) MarshalJSON() ([]byte, error) {
	ms := float64(p.Duration) / float64(time.Millisecond)
	switch p.Type {
	case PathArc:
		return json.Marshal(arcWire{Type: p.Type, Start: p.Start, Control: p.Control, End: p.End, Duration: ms, Easing: p.Easing})
	case PathLoop:
		return json.Marshal(loopWire{Type: p.Type, Center: p.Center, RadiusX: p.RadiusX, RadiusY: p.RadiusY, Duration: ms, Easing: p.Easing})
	case PathBounce:
		return json.Marshal(bounceWire{Type: p.Type, StartX: p.StartX, StartY: p.StartY, VX: p.VX, VY: p.VY, Speed: p.Speed})
	}
	return nil, fmt.Errorf("unknown path type %q", p.Type)
}
