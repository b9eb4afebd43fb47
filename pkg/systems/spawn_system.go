package systems

import (
	"log"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// SpawnRoundState 生成轮次状态
type SpawnRoundState struct {
	Mode         types.RoundMode // 当前模式
	SpawnedCount int             // 本轮已生成数量
	RoundSize    int             // 本轮目标数量
	HeavySlot    int             // 反弹轮中大型水果的预留位置，轨迹轮为 -1
}

// SpawnSystem 水果生成调度器
//
// 两个相互独立的状态机：
//   - 轮次：轨迹轮与反弹轮交替，每轮数量在配置范围内随机；进入反弹轮时
//     预留一个位置给大型水果，保证每个反弹轮恰好一个。
//   - 危险品计时：间隔到达后置位"待生成"，下一次生成无条件产出危险品，
//     不推进轮次，也不占用大型水果的预留位置。
//
// 所有时间都由调用方传入（来自注入的 Clock），调度器本身不读系统时间。
type SpawnSystem struct {
	catalog *PathCatalog
	spawn   config.SpawnConfig
	rng     utils.RandomSource

	round         SpawnRoundState
	lastPathIndex int

	spawnInterval time.Duration
	lastSpawn     time.Time
	hasSpawned    bool

	hazardTimer    time.Time
	hazardInterval time.Duration
	hazardPending  bool
}

// NewSpawnSystem 创建生成调度器
//
// 参数:
//   - catalog: 轨迹选择器
//   - tuning: 可调参数（生成间隔、轮次范围、危险品间隔、类型权重）
//   - rng: 随机源
//   - now: 会话开始时间（危险品计时起点）
func NewSpawnSystem(catalog *PathCatalog, tuning *config.TuningConfig, rng utils.RandomSource, now time.Time) *SpawnSystem {
	s := &SpawnSystem{
		catalog: catalog,
		spawn:   tuning.Spawn,
		rng:     rng,
	}
	s.Reset(now)
	log.Printf("[SpawnSystem] Initialized: interval=%v, round size [%d, %d], hazard interval [%.0f, %.0f]ms",
		s.spawnInterval, s.spawn.RoundSizeMin, s.spawn.RoundSizeMax,
		s.spawn.HazardIntervalMin, s.spawn.HazardIntervalMax)
	return s
}

// Reset 恢复初始状态：轨迹模式、新的轮次数量、重新开始危险品计时
// 游戏结束后开始新一局时调用
func (s *SpawnSystem) Reset(now time.Time) {
	s.round = SpawnRoundState{
		Mode:      types.RoundPath,
		RoundSize: s.sampleRoundSize(),
		HeavySlot: -1,
	}
	s.lastPathIndex = -1
	s.spawnInterval = utils.Millis(s.spawn.IntervalMs)
	s.lastSpawn = time.Time{}
	s.hasSpawned = false
	s.hazardTimer = now
	s.hazardInterval = s.sampleHazardInterval()
	s.hazardPending = false
}

// ShouldSpawn 距上次生成是否已超过生成间隔（第一次调用总是 true）
// 副作用：危险品间隔到达时置位待生成标记
func (s *SpawnSystem) ShouldSpawn(now time.Time) bool {
	if !s.hazardPending && now.Sub(s.hazardTimer) > s.hazardInterval {
		s.hazardPending = true
		log.Printf("[SpawnSystem] Hazard interval elapsed, next spawn is %s", s.spawn.HazardType)
	}
	if !s.hasSpawned {
		return true
	}
	return now.Sub(s.lastSpawn) > s.spawnInterval
}

// Spawn 生成下一个水果的完整描述
//
// 优先级：危险品待生成 > 反弹轮的大型水果预留位 > 按权重随机的普通类型。
// 轨迹按当前轮次模式生成；危险品不推进轮次。
func (s *SpawnSystem) Spawn(now time.Time) types.SpawnDescriptor {
	s.lastSpawn = now
	s.hasSpawned = true

	var fruitType string
	hazard := false
	switch {
	case s.hazardPending:
		hazard = true
		fruitType = s.spawn.HazardType
		s.hazardPending = false
		s.hazardTimer = now
		s.hazardInterval = s.sampleHazardInterval()
		log.Printf("[SpawnSystem] Spawning hazard %s, next in %v", fruitType, s.hazardInterval)
	case s.round.Mode == types.RoundBounce && s.round.SpawnedCount == s.round.HeavySlot:
		fruitType = s.spawn.HeavyType
		log.Printf("[SpawnSystem] Heavy slot %d reached, spawning %s", s.round.HeavySlot, fruitType)
	default:
		fruitType = s.pickBaseType()
	}

	trajectory := s.nextTrajectory()
	start := trajectory.StartPoint()

	desc := types.SpawnDescriptor{
		X:             start.X,
		Y:             start.Y,
		Trajectory:    trajectory,
		FruitType:     fruitType,
		RotationSpeed: utils.RandCentered(s.rng, s.spawn.RotationSpeedRange),
	}

	if !hazard {
		s.advanceRound()
	}
	return desc
}

// SetSpawnInterval 调整生成间隔（毫秒），非正数被忽略
func (s *SpawnSystem) SetSpawnInterval(ms float64) {
	if ms <= 0 {
		log.Printf("[SpawnSystem] Warning: ignoring non-positive spawn interval %.1fms", ms)
		return
	}
	s.spawnInterval = utils.Millis(ms)
}

// SpawnInterval 返回当前生成间隔
func (s *SpawnSystem) SpawnInterval() time.Duration {
	return s.spawnInterval
}

// Round 返回当前轮次状态的副本
func (s *SpawnSystem) Round() SpawnRoundState {
	return s.round
}

// HazardPending 危险品是否待生成
func (s *SpawnSystem) HazardPending() bool {
	return s.hazardPending
}

func (s *SpawnSystem) nextTrajectory() types.PathDescriptor {
	if s.round.Mode == types.RoundBounce {
		w, h := s.catalog.FieldSize()
		return s.catalog.SelectBouncePath(w, h)
	}
	path, index := s.catalog.SelectPath(s.lastPathIndex)
	s.lastPathIndex = index
	return path
}

func (s *SpawnSystem) advanceRound() {
	s.round.SpawnedCount++
	if s.round.SpawnedCount < s.round.RoundSize {
		return
	}

	s.round.Mode = s.round.Mode.Opposite()
	s.round.SpawnedCount = 0
	s.round.RoundSize = s.sampleRoundSize()
	s.round.HeavySlot = -1
	if s.round.Mode == types.RoundBounce {
		s.round.HeavySlot = s.rng.Intn(s.round.RoundSize)
	}

	log.Printf("[SpawnSystem] Round switched to %s, size=%d, heavy slot=%d",
		s.round.Mode, s.round.RoundSize, s.round.HeavySlot)
}

func (s *SpawnSystem) sampleRoundSize() int {
	return utils.RandIntInclusive(s.rng, s.spawn.RoundSizeMin, s.spawn.RoundSizeMax)
}

func (s *SpawnSystem) sampleHazardInterval() time.Duration {
	return utils.Millis(utils.RandRange(s.rng, s.spawn.HazardIntervalMin, s.spawn.HazardIntervalMax))
}

// pickBaseType 按权重累积选择普通类型
func (s *SpawnSystem) pickBaseType() string {
	total := 0.0
	for _, wt := range s.spawn.BaseTypes {
		total += wt.Weight
	}
	r := s.rng.Float64() * total
	for _, wt := range s.spawn.BaseTypes {
		if r < wt.Weight {
			return wt.Type
		}
		r -= wt.Weight
	}
	return s.spawn.BaseTypes[len(s.spawn.BaseTypes)-1].Type
}
