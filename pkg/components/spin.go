package components

// SpinComponent 旋转状态（弧度）
// Rotation 为平面内旋转，RotX/RotY 为模型绕两个轴的自旋，渲染层自行解释
type SpinComponent struct {
	Rotation      float64
	RotationSpeed float64 // 每帧

	RotX      float64
	RotY      float64
	RotSpeedX float64 // 每帧
	RotSpeedY float64 // 每帧
}
