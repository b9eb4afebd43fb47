package entities

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/components"
	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/ecs"
	"github.com/ko2345-cloud/eat-party/pkg/types"
	"github.com/ko2345-cloud/eat-party/pkg/utils"
)

func newTestFactory(t *testing.T) (*FruitFactory, *ecs.EntityManager) {
	t.Helper()
	fruits, err := config.LoadFruitConfig("../../data/fruits.yaml")
	if err != nil {
		t.Fatalf("failed to load fruit config: %v", err)
	}
	clock := utils.NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	factory := NewFruitFactory(fruits, config.DefaultTuningConfig(), clock, rand.New(rand.NewSource(1)))
	return factory, ecs.NewEntityManager()
}

func arcDescriptor(fruitType string) types.SpawnDescriptor {
	path := types.PathDescriptor{
		Type:     types.PathArc,
		Start:    types.Point{X: -400, Y: 800},
		Control:  types.Point{X: 600, Y: -100},
		End:      types.Point{X: 1700, Y: -150},
		Duration: 4 * time.Second,
		Easing:   utils.EasingLinear,
	}
	start := path.StartPoint()
	return types.SpawnDescriptor{X: start.X, Y: start.Y, Trajectory: path, FruitType: fruitType, RotationSpeed: 0.02}
}

func TestNewFruitEntity(t *testing.T) {
	tests := []struct {
		name          string
		desc          types.SpawnDescriptor
		wantType      string
		wantHP        int
		wantStage     string
		wantSliceable bool
		wantEdible    bool
		wantBounce    bool
	}{
		{
			name:       "普通水果走轨迹",
			desc:       arcDescriptor("apple"),
			wantType:   "apple",
			wantHP:     3,
			wantStage:  "apple",
			wantEdible: true,
		},
		{
			name:          "大型水果初始不可食用",
			desc:          types.SpawnDescriptor{X: 100, Y: -80, Trajectory: BounceDescriptor(100, -80, 0, 4), FruitType: "watermelon"},
			wantType:      "watermelon",
			wantHP:        4,
			wantStage:     "watermelon",
			wantSliceable: true,
			wantEdible:    false,
			wantBounce:    true,
		},
		{
			name:       "未知类型回退默认类型",
			desc:       arcDescriptor("durian"),
			wantType:   "apple",
			wantHP:     3,
			wantStage:  "apple",
			wantEdible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, em := newTestFactory(t)
			id := factory.NewFruitEntity(em, tt.desc)

			fruit, ok := ecs.GetComponent[*components.FruitComponent](em, id)
			if !ok {
				t.Fatal("缺少 FruitComponent")
			}
			if fruit.TypeID != tt.wantType {
				t.Errorf("TypeID = %q, 期望 %q", fruit.TypeID, tt.wantType)
			}
			if fruit.HP != tt.wantHP || fruit.MaxHP != tt.wantHP {
				t.Errorf("HP = %d/%d, 期望 %d/%d", fruit.HP, fruit.MaxHP, tt.wantHP, tt.wantHP)
			}
			if fruit.StageKey != tt.wantStage {
				t.Errorf("StageKey = %q, 期望 %q", fruit.StageKey, tt.wantStage)
			}
			if fruit.Sliceable != tt.wantSliceable || fruit.Edible != tt.wantEdible {
				t.Errorf("sliceable/edible = %v/%v, 期望 %v/%v", fruit.Sliceable, fruit.Edible, tt.wantSliceable, tt.wantEdible)
			}

			hasBounce := ecs.HasComponent[*components.BounceMotionComponent](em, id)
			hasPath := ecs.HasComponent[*components.PathMotionComponent](em, id)
			if hasBounce == hasPath {
				t.Fatalf("实体必须且只能处于一种运动模式: bounce=%v path=%v", hasBounce, hasPath)
			}
			if hasBounce != tt.wantBounce {
				t.Errorf("bounce = %v, 期望 %v", hasBounce, tt.wantBounce)
			}
		})
	}
}

func TestApplyStageShrinksRadius(t *testing.T) {
	factory, em := newTestFactory(t)
	id := factory.NewFruitEntity(em, arcDescriptor("orange"))

	fruit, _ := ecs.GetComponent[*components.FruitComponent](em, id)
	coll, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
	physics := config.DefaultTuningConfig().Physics

	fullRadius := coll.BiteRadius
	if math.Abs(fullRadius-150*1.02) > 1e-9 {
		t.Errorf("整颗橙子可食用半径 = %v, 期望 %v", fullRadius, 150*1.02)
	}

	fruit.HP = 2
	ApplyStage(fruit, coll, physics)
	if fruit.StageKey != "orange-slice" {
		t.Fatalf("StageKey = %q, 期望 orange-slice", fruit.StageKey)
	}
	if math.Abs(coll.BiteRadius-fullRadius*0.85) > 1e-9 {
		t.Errorf("切片阶段半径 = %v, 期望 %v", coll.BiteRadius, fullRadius*0.85)
	}
	if coll.FruitRadius > coll.BiteRadius {
		t.Errorf("水果间碰撞半径 %v 不应大于可食用半径 %v", coll.FruitRadius, coll.BiteRadius)
	}
	if math.Abs(coll.FruitRadius-coll.BiteRadius*0.6) > 1e-9 {
		t.Errorf("水果间碰撞半径 = %v, 期望 %v", coll.FruitRadius, coll.BiteRadius*0.6)
	}
}

func TestAvocadoCollisionScale(t *testing.T) {
	factory, em := newTestFactory(t)
	id := factory.NewFruitEntity(em, arcDescriptor("avocado"))

	coll, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
	want := 150 * 1.2 * 1.2
	if math.Abs(coll.BiteRadius-want) > 1e-9 {
		t.Errorf("牛油果可食用半径 = %v, 期望 %v", coll.BiteRadius, want)
	}
}

func TestFruitOptionsSliced(t *testing.T) {
	factory, em := newTestFactory(t)
	desc := types.SpawnDescriptor{X: 300, Y: 300, Trajectory: BounceDescriptor(300, 300, 4, 2), FruitType: "watermelon"}
	id := factory.NewFruitWithOptions(em, desc, FruitOptions{HP: 3, Sliced: true, MaxBounces: 2})

	fruit, _ := ecs.GetComponent[*components.FruitComponent](em, id)
	if !fruit.Sliced || !fruit.Edible || fruit.Sliceable {
		t.Errorf("切开的另一半应为 sliced/edible 且不可再切: %+v", fruit)
	}
	if fruit.HP != 3 || fruit.MaxHP != 4 {
		t.Errorf("HP = %d/%d, 期望 3/4", fruit.HP, fruit.MaxHP)
	}
	if fruit.StageKey != "watermelon-half" {
		t.Errorf("StageKey = %q, 期望 watermelon-half", fruit.StageKey)
	}

	bounce, _ := ecs.GetComponent[*components.BounceMotionComponent](em, id)
	if bounce.MaxBounces != 2 {
		t.Errorf("MaxBounces = %d, 期望继承的 2", bounce.MaxBounces)
	}
}

func TestBehaviorTable(t *testing.T) {
	whole := &components.FruitComponent{Sliceable: true}
	half := &components.FruitComponent{Sliced: true}

	heavy := BehaviorFor(types.RoleHeavy)
	if !heavy.CanSlice(whole) || heavy.CanSlice(half) {
		t.Error("大型水果只能在整颗时切开")
	}
	if !heavy.IsImmuneTo(whole, types.HazardFire) || heavy.IsImmuneTo(half, types.HazardFire) {
		t.Error("大型水果只有整颗时免疫火焰")
	}
	if !heavy.CountsTowardCombo() {
		t.Error("大型水果应计入连击")
	}

	hazard := BehaviorFor(types.RoleHazard)
	if hazard.Ability() != types.AbilityFireBreath {
		t.Errorf("危险品能力 = %v, 期望 fire_breath", hazard.Ability())
	}
	if !hazard.IsImmuneTo(half, types.HazardFire) {
		t.Error("危险品应免疫火焰")
	}

	normal := BehaviorFor(types.RoleNormal)
	if normal.CanSlice(whole) || normal.IsImmuneTo(whole, types.HazardFire) || normal.Ability() != types.AbilityNone {
		t.Error("普通水果不能切、不免疫、不授予能力")
	}
}
