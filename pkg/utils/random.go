package utils

// RandomSource 模拟使用的随机数来源
//
// *rand.Rand 直接满足该接口；测试可注入 SequenceRandom 回放固定序列。
type RandomSource interface {
	// Float64 返回 [0, 1) 的随机数
	Float64() float64
	// Intn 返回 [0, n) 的随机整数
	Intn(n int) int
}

// RandRange 返回 [min, max) 的均匀随机数
func RandRange(r RandomSource, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// RandIntInclusive 返回 [min, max] 的均匀随机整数
func RandIntInclusive(r RandomSource, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// RandCentered 返回 (rand - 0.5) * span，即 [-span/2, span/2)
func RandCentered(r RandomSource, span float64) float64 {
	return (r.Float64() - 0.5) * span
}

// SequenceRandom 按固定序列返回随机值的随机源
//
// Float64 依次返回 Floats 中的值（循环使用，为空时返回 0）；
// Intn 依次返回 Ints 中的值对 n 取模（为空时返回 0）。
type SequenceRandom struct {
	Floats []float64
	Ints   []int

	floatIdx int
	intIdx   int
}

// Float64 返回序列中的下一个浮点数
func (s *SequenceRandom) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.floatIdx%len(s.Floats)]
	s.floatIdx++
	return v
}

// Intn 返回序列中的下一个整数（对 n 取模）
func (s *SequenceRandom) Intn(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.intIdx%len(s.Ints)]
	s.intIdx++
	if v < 0 {
		v = -v
	}
	return v % n
}
