package game

import (
	"log"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/types"
)

// Phase 游戏会话阶段
type Phase int

const (
	PhaseCountdown Phase = iota // 开局倒计时，不生成水果
	PhasePlaying                // 游戏进行中
	PhaseOver                   // 时间耗尽
)

// String 返回阶段名
func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	default:
		return "over"
	}
}

// GameState 单局游戏状态：得分与计时
//
// 由 Simulation 持有，每局开始时 Start 重置；作为 events.Handler
// 注册到 Router，从 bite/burned 事件累计得分。
type GameState struct {
	countdown time.Duration
	duration  time.Duration

	phase     Phase
	playingAt time.Time // 正式开始时刻
	endsAt    time.Time

	score    int
	bites    int
	burns    int
	finishes int
}

// NewGameState 创建游戏状态（尚未开始，需调用 Start）
func NewGameState(cfg config.GameConfig) *GameState {
	return &GameState{
		countdown: time.Duration(cfg.CountdownSec * float64(time.Second)),
		duration:  time.Duration(cfg.DurationSec * float64(time.Second)),
		phase:     PhaseOver,
	}
}

// SetDuration 修改单局时长，下一次 Start 生效；非正数被忽略
func (gs *GameState) SetDuration(d time.Duration) {
	if d <= 0 {
		log.Printf("[GameState] Warning: ignoring non-positive duration %v", d)
		return
	}
	gs.duration = d
}

// Duration 返回单局时长
func (gs *GameState) Duration() time.Duration {
	return gs.duration
}

// Start 开始新的一局：清零得分并进入倒计时
func (gs *GameState) Start(now time.Time) {
	gs.score = 0
	gs.bites = 0
	gs.burns = 0
	gs.finishes = 0
	gs.playingAt = now.Add(gs.countdown)
	gs.endsAt = gs.playingAt.Add(gs.duration)
	gs.phase = PhaseCountdown
	if gs.countdown <= 0 {
		gs.phase = PhasePlaying
	}
}

// Update 按当前时间推进阶段
//
// 返回:
//   - Phase: 推进后的阶段
//   - bool: 本次调用是否发生了阶段切换
func (gs *GameState) Update(now time.Time) (Phase, bool) {
	prev := gs.phase
	switch gs.phase {
	case PhaseCountdown:
		if !now.Before(gs.playingAt) {
			gs.phase = PhasePlaying
		}
		if gs.phase == PhasePlaying && !now.Before(gs.endsAt) {
			gs.phase = PhaseOver
		}
	case PhasePlaying:
		if !now.Before(gs.endsAt) {
			gs.phase = PhaseOver
		}
	}
	return gs.phase, gs.phase != prev
}

// Phase 返回当前阶段
func (gs *GameState) Phase() Phase {
	return gs.phase
}

// Remaining 返回剩余游戏时间（倒计时阶段返回完整时长）
func (gs *GameState) Remaining(now time.Time) time.Duration {
	switch gs.phase {
	case PhaseCountdown:
		return gs.duration
	case PhasePlaying:
		if left := gs.endsAt.Sub(now); left > 0 {
			return left
		}
	}
	return 0
}

// CountdownRemaining 返回开局倒计时剩余时间
func (gs *GameState) CountdownRemaining(now time.Time) time.Duration {
	if gs.phase != PhaseCountdown {
		return 0
	}
	return gs.playingAt.Sub(now)
}

// Score 返回当前得分
func (gs *GameState) Score() int {
	return gs.score
}

// Stats 返回本局咬击、吃完、烧焦的次数
func (gs *GameState) Stats() (bites, finishes, burns int) {
	return gs.bites, gs.finishes, gs.burns
}

// HandleEvent 从事件累计得分
func (gs *GameState) HandleEvent(ev events.Event) {
	if gs.phase == PhaseOver {
		return
	}
	switch ev.Type {
	case events.EventBite:
		gs.bites++
		if ev.Result == types.BiteFinish {
			gs.finishes++
		}
		gs.score += ev.Points
	case events.EventBurned:
		gs.burns++
		gs.score += ev.Points
	}
}

// EventTypes 订阅得分相关事件
func (gs *GameState) EventTypes() []events.EventType {
	return []events.EventType{events.EventBite, events.EventBurned}
}
