package components

import "time"

// LifetimeComponent 延迟移除计时
// 用于烧焦的水果：焦黑的模型保留一段时间后才从场地消失
//
// ExpiresAt 非零时按时钟判定到期（与帧率无关），否则按累计的 CurrentLifetime 判定。
type LifetimeComponent struct {
	MaxLifetime     float64   // 最大生命周期(秒)
	CurrentLifetime float64   // 当前已存在时间(秒)
	ExpiresAt       time.Time // 到期时刻
	IsExpired       bool      // 是否已过期
	Reason          string    // 移除原因（写入 removed 事件）
}
