package components

// CollisionComponent 定义水果的两个碰撞圆以及碰撞产生的临时偏移
//
// BiteRadius 用于判定交互点（嘴巴/手指）能否吃到水果，
// FruitRadius 用于水果之间的相互碰撞，始终不大于 BiteRadius。
//
// OffsetX/OffsetY 只在轨迹模式下使用：碰撞把水果推离预设轨迹，
// 之后每帧按阻尼衰减，直到归零重新贴合轨迹。
type CollisionComponent struct {
	BiteRadius  float64 // 可食用半径（像素）
	FruitRadius float64 // 水果间碰撞半径（像素）
	OffsetX     float64 // 碰撞偏移X（像素）
	OffsetY     float64 // 碰撞偏移Y（像素）
}
