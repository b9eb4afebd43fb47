package types

// RoundMode 生成轮次的模式
type RoundMode int

const (
	RoundPath   RoundMode = iota // 轨迹模式：预设曲线
	RoundBounce                  // 反弹模式：自由飞行
)

// String 返回模式名
func (m RoundMode) String() string {
	if m == RoundBounce {
		return "bounce"
	}
	return "path"
}

// Opposite 返回另一种模式
func (m RoundMode) Opposite() RoundMode {
	if m == RoundBounce {
		return RoundPath
	}
	return RoundBounce
}

// SpawnDescriptor 生成器输出的完整生成参数，由实体工厂消费
type SpawnDescriptor struct {
	X             float64        `json:"x"`
	Y             float64        `json:"y"`
	Trajectory    PathDescriptor `json:"trajectory"`
	FruitType     string         `json:"fruitType"`
	RotationSpeed float64        `json:"rotationSpeed"`
}
