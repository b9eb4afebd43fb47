package systems

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

// newTestSpawner 创建调度器；hazardMs <= 0 时危险品间隔设为极大值（测试中不会触发）
func newTestSpawner(t *testing.T, sizeMin, sizeMax int, hazardMs float64, seed int64) *SpawnSystem {
	t.Helper()
	tuning := config.DefaultTuningConfig()
	tuning.Spawn.RoundSizeMin = sizeMin
	tuning.Spawn.RoundSizeMax = sizeMax
	if hazardMs <= 0 {
		hazardMs = 1e12
	}
	tuning.Spawn.HazardIntervalMin = hazardMs
	tuning.Spawn.HazardIntervalMax = hazardMs

	rng := rand.New(rand.NewSource(seed))
	catalog := NewPathCatalog(loadTestCatalog(t), tuning, rng)
	return NewSpawnSystem(catalog, tuning, rng, testStart)
}

// TestSpawnSystem_FixedRoundSizeSwitchesMode 轮次数量固定为 6 时第 7 次生成进入另一种模式
func TestSpawnSystem_FixedRoundSizeSwitchesMode(t *testing.T) {
	sp := newTestSpawner(t, 6, 6, 0, 1)

	if sp.Round().Mode != types.RoundPath {
		t.Fatalf("初始模式应为 path, got %s", sp.Round().Mode)
	}

	now := testStart
	for i := 0; i < 6; i++ {
		desc := sp.Spawn(now)
		if desc.Trajectory.IsBounce() {
			t.Fatalf("第 %d 次生成不应是反弹轨迹", i+1)
		}
		now = now.Add(3 * time.Second)
	}

	desc := sp.Spawn(now)
	if !desc.Trajectory.IsBounce() {
		t.Fatalf("第 7 次生成应为反弹轨迹, got %s", desc.Trajectory.Type)
	}
}

// TestSpawnSystem_ModeAlternatesAndRoundSizeInBounds 模式严格交替，轮次数量在范围内
func TestSpawnSystem_ModeAlternatesAndRoundSizeInBounds(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42} {
		sp := newTestSpawner(t, 6, 12, 0, seed)

		prev := sp.Round()
		switches := 0
		for i := 0; i < 300; i++ {
			sp.Spawn(testStart)
			cur := sp.Round()
			if cur.RoundSize < 6 || cur.RoundSize > 12 {
				t.Fatalf("seed %d: round size %d out of [6, 12]", seed, cur.RoundSize)
			}
			if cur.Mode != prev.Mode {
				switches++
				if cur.Mode != prev.Mode.Opposite() || cur.SpawnedCount != 0 {
					t.Fatalf("seed %d: 非法的模式切换 %+v -> %+v", seed, prev, cur)
				}
				if prev.SpawnedCount != prev.RoundSize-1 {
					t.Fatalf("seed %d: 轮次未满就切换 %+v", seed, prev)
				}
			}
			prev = cur
		}
		if switches < 20 {
			t.Errorf("seed %d: 300 次生成只切换了 %d 次模式", seed, switches)
		}
	}
}

// TestSpawnSystem_ExactlyOneHeavyPerBounceRound 每个反弹轮恰好一个大型水果，且位于预留位置
func TestSpawnSystem_ExactlyOneHeavyPerBounceRound(t *testing.T) {
	for _, bounds := range [][2]int{{6, 6}, {6, 12}, {1, 1}} {
		sp := newTestSpawner(t, bounds[0], bounds[1], 0, 9)

		heavyInRound := -1
		completed := 0
		for i := 0; i < 400; i++ {
			before := sp.Round()
			if before.Mode == types.RoundBounce && before.SpawnedCount == 0 {
				heavyInRound = 0
				if before.HeavySlot < 0 || before.HeavySlot >= before.RoundSize {
					t.Fatalf("bounds %v: heavy slot %d out of [0, %d)", bounds, before.HeavySlot, before.RoundSize)
				}
			}

			desc := sp.Spawn(testStart)
			isHeavy := desc.FruitType == "watermelon"

			switch before.Mode {
			case types.RoundPath:
				if isHeavy || before.HeavySlot != -1 {
					t.Fatalf("bounds %v: 轨迹轮不应生成大型水果 (%+v)", bounds, before)
				}
			case types.RoundBounce:
				if isHeavy {
					heavyInRound++
					if before.SpawnedCount != before.HeavySlot {
						t.Fatalf("bounds %v: 大型水果出现在 %d, 预留位置 %d", bounds, before.SpawnedCount, before.HeavySlot)
					}
				}
				if before.SpawnedCount == before.RoundSize-1 {
					if heavyInRound != 1 {
						t.Fatalf("bounds %v: 反弹轮生成了 %d 个大型水果", bounds, heavyInRound)
					}
					completed++
				}
			}
		}
		if completed == 0 {
			t.Errorf("bounds %v: 没有完成任何反弹轮", bounds)
		}
	}
}

// TestSpawnSystem_HazardPreemptsHeavySlot 危险品优先，且不占用大型水果预留位置
func TestSpawnSystem_HazardPreemptsHeavySlot(t *testing.T) {
	sp := newTestSpawner(t, 6, 6, 1000, 5)

	// 不经过 ShouldSpawn 推进到反弹轮的预留位置
	for i := 0; i < 100; i++ {
		r := sp.Round()
		if r.Mode == types.RoundBounce && r.SpawnedCount == r.HeavySlot {
			break
		}
		sp.Spawn(testStart)
	}
	before := sp.Round()
	if before.Mode != types.RoundBounce || before.SpawnedCount != before.HeavySlot {
		t.Fatalf("未能到达预留位置: %+v", before)
	}

	later := testStart.Add(2 * time.Second)
	sp.ShouldSpawn(later)
	if !sp.HazardPending() {
		t.Fatal("危险品间隔已过，应置位待生成")
	}

	hazard := sp.Spawn(later)
	if hazard.FruitType != "chili" {
		t.Fatalf("期望危险品 chili, got %s", hazard.FruitType)
	}
	if !hazard.Trajectory.IsBounce() {
		t.Error("危险品应使用当前模式的轨迹")
	}
	if sp.HazardPending() {
		t.Error("生成危险品后应清除待生成标记")
	}
	if after := sp.Round(); after != before {
		t.Errorf("危险品不应推进轮次: %+v -> %+v", before, after)
	}

	heavy := sp.Spawn(later)
	if heavy.FruitType != "watermelon" {
		t.Errorf("危险品之后应生成被保留的大型水果, got %s", heavy.FruitType)
	}

	// 计时器已重置，间隔内不会再次置位
	sp.ShouldSpawn(later.Add(500 * time.Millisecond))
	if sp.HazardPending() {
		t.Error("危险品计时应从生成时刻重新开始")
	}
}

func TestSpawnSystem_ShouldSpawn(t *testing.T) {
	sp := newTestSpawner(t, 6, 12, 0, 1)

	if !sp.ShouldSpawn(testStart) {
		t.Fatal("第一次调用应返回 true")
	}
	sp.Spawn(testStart)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"间隔内", 1 * time.Second, false},
		{"恰好等于间隔", 2500 * time.Millisecond, false},
		{"超过间隔", 2501 * time.Millisecond, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sp.ShouldSpawn(testStart.Add(tt.elapsed)); got != tt.want {
				t.Errorf("ShouldSpawn(+%v) = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestSpawnSystem_SetSpawnInterval(t *testing.T) {
	sp := newTestSpawner(t, 6, 12, 0, 1)

	sp.SetSpawnInterval(1200)
	if sp.SpawnInterval() != 1200*time.Millisecond {
		t.Errorf("interval = %v, want 1.2s", sp.SpawnInterval())
	}

	sp.SetSpawnInterval(0)
	sp.SetSpawnInterval(-50)
	if sp.SpawnInterval() != 1200*time.Millisecond {
		t.Errorf("非正数应被忽略, got %v", sp.SpawnInterval())
	}
}

func TestSpawnSystem_DescriptorIsComplete(t *testing.T) {
	sp := newTestSpawner(t, 6, 12, 0, 3)
	base := map[string]bool{"apple": true, "lemon": true, "orange": true, "avocado": true, "watermelon": true}

	for i := 0; i < 100; i++ {
		desc := sp.Spawn(testStart)
		if !base[desc.FruitType] {
			t.Fatalf("意外的类型 %q", desc.FruitType)
		}
		start := desc.Trajectory.StartPoint()
		if desc.X != start.X || desc.Y != start.Y {
			t.Fatalf("生成位置应为轨迹起点: (%v, %v) vs %+v", desc.X, desc.Y, start)
		}
		if math.Abs(desc.RotationSpeed) > 0.04 {
			t.Fatalf("rotationSpeed %v 超出 ±0.04", desc.RotationSpeed)
		}
		if !desc.Trajectory.IsBounce() && desc.Trajectory.Duration <= 0 {
			t.Fatalf("轨迹时长应为正, got %v", desc.Trajectory.Duration)
		}
	}
}

func TestSpawnSystem_Reset(t *testing.T) {
	sp := newTestSpawner(t, 2, 2, 1000, 1)
	for i := 0; i < 3; i++ {
		sp.Spawn(testStart)
	}
	sp.ShouldSpawn(testStart.Add(5 * time.Second))

	restart := testStart.Add(10 * time.Second)
	sp.Reset(restart)

	r := sp.Round()
	if r.Mode != types.RoundPath || r.SpawnedCount != 0 || r.HeavySlot != -1 {
		t.Errorf("重置后轮次状态错误: %+v", r)
	}
	if sp.HazardPending() {
		t.Error("重置后不应有待生成的危险品")
	}
	if !sp.ShouldSpawn(restart) {
		t.Error("重置后第一次 ShouldSpawn 应返回 true")
	}
}

func TestPickBaseTypeWeighted(t *testing.T) {
	tuning := config.DefaultTuningConfig()
	tuning.Spawn.BaseTypes = []config.WeightedType{
		{Type: "apple", Weight: 1},
		{Type: "lemon", Weight: 3},
	}
	tests := []struct {
		r    float64
		want string
	}{
		{0.0, "apple"},
		{0.24, "apple"},
		{0.25, "lemon"},
		{0.99, "lemon"},
	}
	for _, tt := range tests {
		sp := &SpawnSystem{spawn: tuning.Spawn, rng: &utils.SequenceRandom{Floats: []float64{tt.r}}}
		if got := sp.pickBaseType(); got != tt.want {
			t.Errorf("pickBaseType(r=%v) = %s, want %s", tt.r, got, tt.want)
		}
	}
}
