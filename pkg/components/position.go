package components

// PositionComponent 实体在场地中的位置（像素，原点在左上角，y 轴向下）
type PositionComponent struct {
	X float64
	Y float64
}
