package components

import "github.com/ko2345-cloud/eat-party/pkg/config"

// FruitComponent 可食用实体的状态
//
// 生命值与阶段的关系：StageKey = Def.Stages[clamp(MaxHP-HP, 0, len-1)]，
// 任何修改 HP 的地方都必须同步刷新 StageKey 和 CollisionComponent 的半径。
//
// 是否已标记移除不在这里记录，而是由 EntityManager 的待删除集合表示。
type FruitComponent struct {
	TypeID string                      // 类型ID
	Def    *config.FruitTypeDefinition // 类型定义（只读）

	HP       int    // 当前生命值
	MaxHP    int    // 生命值上限
	StageKey string // 当前阶段标识

	Scale       float64 // 基础缩放
	VisualScale float64 // 渲染缩放（已乘阶段缩放）

	Sliceable bool // 可被切开（大型水果）
	Sliced    bool // 已被切开
	Edible    bool // 可被咬
	Burned    bool // 已被烧焦

	// BiteCooldown 剩余咬击冷却（帧），大于 0 时 TakeBite 无效
	BiteCooldown int

	// SeedHits 被种子命中的次数
	SeedHits int
}

// IsAlive 生命值大于 0 且未被烧焦
func (f *FruitComponent) IsAlive() bool {
	return f.HP > 0 && !f.Burned
}
