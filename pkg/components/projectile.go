package components

// ProjectileComponent 种子弹丸
type ProjectileComponent struct {
	VX float64 // 像素/帧
	VY float64
}

// FireParticleComponent 喷火粒子
// 粒子中心进入水果 BiteRadius*BurnContactFactor 范围即烧焦水果；Radius 只供渲染使用
type FireParticleComponent struct {
	VX      float64 // 像素/帧
	VY      float64
	Life    int // 剩余寿命（帧）
	MaxLife int
	Radius  float64
}
