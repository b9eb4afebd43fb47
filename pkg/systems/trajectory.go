package systems

import (
	"math"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// PositionOnPath 计算轨迹在缓动后进度 t 处的位置（不含碰撞偏移）
//
// arc 为二次贝塞尔曲线；loop 从椭圆底部（角度 π/2）出发绕行一整圈；
// bounce 没有参数曲线，返回出生点。
func PositionOnPath(path types.PathDescriptor, t float64) types.Point {
	switch path.Type {
	case types.PathArc:
		return utils.QuadraticBezier(path.Start, path.Control, path.End, t)
	case types.PathLoop:
		angle := math.Pi/2 + t*2*math.Pi
		return utils.EllipsePoint(path.Center, path.RadiusX, path.RadiusY, angle)
	default:
		return path.StartPoint()
	}
}

// PathProgress 计算轨迹进度
//
// 返回:
//   - raw: 线性进度 min(elapsed/duration, 1)，用于判定轨迹是否走完
//   - eased: 缓动后的进度，用于计算位置
//
// 时长不为正时视为立即走完。
func PathProgress(path types.PathDescriptor, start, now time.Time) (raw, eased float64) {
	if path.Duration <= 0 {
		return 1, 1
	}
	elapsed := now.Sub(start)
	raw = math.Min(float64(elapsed)/float64(path.Duration), 1)
	if raw < 0 {
		raw = 0
	}
	return raw, utils.ApplyEasing(path.Easing, raw)
}

// StepBounce 推进一帧自由飞行
//
// 位置按速度积分后检查四条边（带 margin），只有朝墙运动时才算碰壁。
// 反弹次数未用完时反射对应的速度分量；不论是否反射，每帧只要碰壁
// BounceCount 就加一。
//
// 返回:
//   - bool: 本帧是否碰壁
func StepBounce(pos *components.PositionComponent, motion *components.BounceMotionComponent, fieldWidth, fieldHeight, margin float64) bool {
	pos.X += motion.VX
	pos.Y += motion.VY

	canReflect := motion.BounceCount < motion.MaxBounces
	hitWall := false

	if pos.X <= margin && motion.VX < 0 {
		hitWall = true
		if canReflect {
			motion.VX = -motion.VX
		}
	} else if pos.X >= fieldWidth-margin && motion.VX > 0 {
		hitWall = true
		if canReflect {
			motion.VX = -motion.VX
		}
	}

	if pos.Y <= margin && motion.VY < 0 {
		hitWall = true
		if canReflect {
			motion.VY = -motion.VY
		}
	} else if pos.Y >= fieldHeight-margin && motion.VY > 0 {
		hitWall = true
		if canReflect {
			motion.VY = -motion.VY
		}
	}

	if hitWall {
		motion.BounceCount++
	}
	return hitWall
}

// HasExitedField 反弹耗尽的实体是否已飞出场地（四边都按 exitMargin 判定）
func HasExitedField(x, y, fieldWidth, fieldHeight, exitMargin float64) bool {
	return x < -exitMargin || x > fieldWidth+exitMargin ||
		y < -exitMargin || y > fieldHeight+exitMargin
}

// IsOutOfBounds 通用越界判定
// x 超出 [-margin, width+margin] 或 y 超过 height+margin 即越界；顶部不设限，
// 允许高抛的弧线轨迹暂时离开画面上方。
func IsOutOfBounds(x, y, fieldWidth, fieldHeight, margin float64) bool {
	return x < -margin || x > fieldWidth+margin || y > fieldHeight+margin
}
