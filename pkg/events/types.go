// Package events 定义模拟核心向宿主层（渲染、音效、UI、观察者）发出的事件
//
// 模拟在一帧内把事件推入 EventQueue，帧末由 Router 按先进先出顺序分发给处理器。
package events

import (
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/types"
)

// EventType 事件类型（线上格式即字符串值）
type EventType string

const (
	// EventSpawned 新水果进入场地 | Spawn 携带完整生成描述
	EventSpawned EventType = "spawned"

	// EventBite 水果被咬 | Result 为 bite 或 finish，Points 为得分
	EventBite EventType = "bite"

	// EventSliced 大型水果被切开 | EntityID 为原实体，SiblingID 为新生成的另一半
	EventSliced EventType = "sliced"

	// EventBurned 水果被烧焦 | Points 为得分
	EventBurned EventType = "burned"

	// EventRemoved 实体从存活集合中移除 | Reason 说明原因
	EventRemoved EventType = "removed"

	// EventAbility 玩家获得或失去特殊能力 | Ability 与 Active
	EventAbility EventType = "ability"

	// EventGameOver 游戏时间耗尽 | Score 为最终得分
	EventGameOver EventType = "game_over"
)

// AllEventTypes 所有事件类型，用于订阅全部事件的处理器
var AllEventTypes = []EventType{
	EventSpawned, EventBite, EventSliced, EventBurned, EventRemoved, EventAbility, EventGameOver,
}

// 移除原因
const (
	ReasonPathComplete = "path_complete" // 轨迹走完
	ReasonOutOfBounds  = "out_of_bounds" // 飞出场地
	ReasonEaten        = "eaten"         // 被吃完
	ReasonBurned       = "burned"        // 烧焦后延迟移除
	ReasonExpired      = "expired"       // 粒子/弹丸寿命结束
)

// Event 单个模拟事件
// 字段是否有效取决于 Type，未使用的字段保持零值
type Event struct {
	Type      EventType    `json:"type"`
	Time      time.Time    `json:"time"`
	EntityID  ecs.EntityID `json:"entityId,omitempty"`
	SiblingID ecs.EntityID `json:"siblingId,omitempty"`
	FruitType string       `json:"fruitType,omitempty"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`

	Result types.BiteResult `json:"result,omitempty"`
	Points int              `json:"points,omitempty"`
	Score  int              `json:"score,omitempty"`
	Reason string           `json:"reason,omitempty"`

	Ability types.Ability `json:"ability,omitempty"`
	Active  bool          `json:"active,omitempty"`

	Spawn *types.SpawnDescriptor `json:"spawn,omitempty"`
}
