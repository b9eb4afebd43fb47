package systems

import (
	"log"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// AbilityState 玩家的限时能力和大型水果连击计数
//
// 喷火（吃到危险品）和种子射击（短时间内连咬大型水果）各自持续固定时长，
// 重复触发会把结束时间从当前时刻重新计算。开始和结束都会发出 ability 事件。
type AbilityState struct {
	queue *events.EventQueue

	duration    time.Duration
	comboWindow time.Duration
	comboBites  int

	until map[types.Ability]time.Time

	comboCount    int
	lastComboBite time.Time
}

// NewAbilityState 创建能力状态
func NewAbilityState(queue *events.EventQueue, game config.GameConfig) *AbilityState {
	return &AbilityState{
		queue:       queue,
		duration:    utils.Millis(game.AbilityDurationMs),
		comboWindow: utils.Millis(game.ComboWindowMs),
		comboBites:  game.ComboBites,
		until:       make(map[types.Ability]time.Time),
	}
}

// Activate 激活能力，持续时间从 now 开始计算
func (a *AbilityState) Activate(ability types.Ability, now time.Time) {
	if ability == types.AbilityNone {
		return
	}
	a.until[ability] = now.Add(a.duration)
	log.Printf("[AbilityState] %s active for %v", ability, a.duration)
	a.queue.Push(events.Event{
		Type:    events.EventAbility,
		Time:    now,
		Ability: ability,
		Active:  true,
	})
}

// IsActive 能力在 now 时刻是否生效
func (a *AbilityState) IsActive(ability types.Ability, now time.Time) bool {
	until, ok := a.until[ability]
	return ok && now.Before(until)
}

// Remaining 返回能力剩余时间（未激活时为 0）
func (a *AbilityState) Remaining(ability types.Ability, now time.Time) time.Duration {
	until, ok := a.until[ability]
	if !ok || !now.Before(until) {
		return 0
	}
	return until.Sub(now)
}

// Expire 结束所有已到期的能力并发出 ability 事件
//
// 返回:
//   - []types.Ability: 本次结束的能力
func (a *AbilityState) Expire(now time.Time) []types.Ability {
	var expired []types.Ability
	for _, ability := range []types.Ability{types.AbilityFireBreath, types.AbilitySeedShot} {
		until, ok := a.until[ability]
		if !ok || now.Before(until) {
			continue
		}
		delete(a.until, ability)
		expired = append(expired, ability)
		log.Printf("[AbilityState] %s ended", ability)
		a.queue.Push(events.Event{
			Type:    events.EventAbility,
			Time:    now,
			Ability: ability,
			Active:  false,
		})
	}
	return expired
}

// RegisterComboBite 记录一次计入连击的咬击
// 与上一次间隔在连击窗口内则累加，否则从 1 重新计数；达到 ComboBites 时清零并返回 true
func (a *AbilityState) RegisterComboBite(now time.Time) bool {
	if a.comboCount > 0 && now.Sub(a.lastComboBite) < a.comboWindow {
		a.comboCount++
	} else {
		a.comboCount = 1
	}
	a.lastComboBite = now

	if a.comboCount >= a.comboBites {
		a.comboCount = 0
		return true
	}
	return false
}

// ComboCount 返回当前连击计数
func (a *AbilityState) ComboCount() int {
	return a.comboCount
}

// Reset 清除所有能力和连击（不发事件）
func (a *AbilityState) Reset() {
	a.until = make(map[types.Ability]time.Time)
	a.comboCount = 0
	a.lastComboBite = time.Time{}
}
