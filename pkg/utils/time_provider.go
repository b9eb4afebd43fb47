package utils

import (
	"sync"
	"time"
)

// Clock 模拟使用的时间源
//
// 生成间隔、危险品计时、轨迹进度和能力时长都从注入的 Clock 读取，
// 测试使用 MockTimeProvider 精确推进时间，无需真实等待。
type Clock interface {
	Now() time.Time
}

// TimeProvider 系统时间（带单调时钟读数）
type TimeProvider struct{}

// NewTimeProvider 创建系统时间源
func NewTimeProvider() *TimeProvider {
	return &TimeProvider{}
}

// Now 返回当前时间
func (p *TimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider 可控时间源（测试用）
type MockTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockTimeProvider 以给定起始时间创建可控时间源
func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{currentTime: startTime}
}

// Now 返回当前模拟时间
func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// SetTime 设置当前模拟时间
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance 推进模拟时间
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// Millis 把毫秒数（浮点）转换为 time.Duration
func Millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
