package utils

import (
	"math"

	"github.com/ko2345-cloud/eat-party/pkg/types"
)

// QuadraticBezier 计算二次贝塞尔曲线上进度 t 处的点
// 公式：B(t) = (1-t)²·P0 + 2(1-t)t·P1 + t²·P2
func QuadraticBezier(p0, p1, p2 types.Point, t float64) types.Point {
	u := 1 - t
	return types.Point{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

// EllipsePoint 计算椭圆上角度 angle 处的点（屏幕坐标，y 轴向下）
func EllipsePoint(center types.Point, radiusX, radiusY, angle float64) types.Point {
	return types.Point{
		X: center.X + radiusX*math.Cos(angle),
		Y: center.Y + radiusY*math.Sin(angle),
	}
}

// Distance 两点间欧氏距离
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Normalize 归一化向量 (dx, dy)
//
// 长度不超过 epsilon 时返回 ok=false，调用方应跳过依赖方向的计算
// （重合的两个圆心没有确定的法线）。
func Normalize(dx, dy, epsilon float64) (nx, ny, length float64, ok bool) {
	length = math.Hypot(dx, dy)
	if length <= epsilon {
		return 0, 0, length, false
	}
	return dx / length, dy / length, length, true
}
