package utils

import "math"

// 缓动函数把线性进度映射为缓动后的进度，控制水果沿轨迹的速度曲线。
// 输入和输出都在 [0, 1]，且 f(0)=0、f(1)=1，轨迹的起点和终点不受缓动影响。

// 缓动函数ID（轨迹配置和速度档案中使用）
const (
	EasingLinear        = "linear"
	EasingEaseIn        = "ease_in"
	EasingEaseInStrong  = "ease_in_strong"
	EasingEaseOut       = "ease_out"
	EasingEaseOutStrong = "ease_out_strong"
)

var easingByID = map[string]func(float64) float64{
	EasingLinear:        EaseLinear,
	EasingEaseIn:        EaseInQuad,
	EasingEaseInStrong:  EaseInCubic,
	EasingEaseOut:       EaseOutQuad,
	EasingEaseOutStrong: EaseOutCubic,
}

// IsKnownEasing 检查缓动函数ID是否已注册
func IsKnownEasing(id string) bool {
	_, ok := easingByID[id]
	return ok
}

// ApplyEasing 按ID应用缓动函数
// 未知ID按线性处理；t 先被限制在 [0, 1]
func ApplyEasing(id string, t float64) float64 {
	t = Clamp(t, 0, 1)
	if fn, ok := easingByID[id]; ok {
		return fn(t)
	}
	return t
}

// EaseLinear 匀速
func EaseLinear(t float64) float64 {
	return t
}

// EaseInQuad t²，慢进快出
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseInCubic t³，比 EaseInQuad 更明显的加速
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseOutQuad 1-(1-t)²，快进慢出
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseOutCubic 1-(1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Clamp 把 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
