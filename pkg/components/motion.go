package components

import (
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/types"
)

// 一个水果只会拥有以下两种运动组件之一：
// 轨迹模式沿固定时长的参数曲线前进，没有持续速度；
// 反弹模式按速度积分并在场地边缘反射。

// PathMotionComponent 轨迹模式运动
type PathMotionComponent struct {
	Path      types.PathDescriptor // arc 或 loop
	StartTime time.Time            // 进入轨迹的时间
	Progress  float64              // 线性进度 [0, 1]（未缓动）
	Entered   bool                 // 是否曾进入场地可见区域
}

// BounceMotionComponent 反弹模式运动
type BounceMotionComponent struct {
	VX          float64 // 速度X（像素/帧）
	VY          float64 // 速度Y（像素/帧）
	BounceCount int     // 已碰壁次数（每次碰壁都计数，不论是否反射）
	MaxBounces  int     // 反射次数上限
}

// Exhausted 反弹次数是否已用完
func (b *BounceMotionComponent) Exhausted() bool {
	return b.BounceCount >= b.MaxBounces
}
