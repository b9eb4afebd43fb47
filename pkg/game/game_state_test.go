package game

import (
	"testing"
	"time"

	"github.com/ko2345-cloud/eat-party/pkg/config"
	"github.com/ko2345-cloud/eat-party/pkg/events"
	"github.com/ko2345-cloud/eat-party/pkg/types"
)

func TestGameState_Phases(t *testing.T) {
	gs := NewGameState(config.GameConfig{DurationSec: 120, CountdownSec: 3})
	if gs.Phase() != PhaseOver {
		t.Fatalf("未开始时应为 over, got %s", gs.Phase())
	}
	gs.Start(simStart)

	tests := []struct {
		name        string
		elapsed     time.Duration
		wantPhase   Phase
		wantChanged bool
	}{
		{"倒计时中", 1 * time.Second, PhaseCountdown, false},
		{"倒计时结束", 3 * time.Second, PhasePlaying, true},
		{"游戏中", 60 * time.Second, PhasePlaying, false},
		{"还剩一瞬", 123*time.Second - time.Millisecond, PhasePlaying, false},
		{"时间耗尽", 123 * time.Second, PhaseOver, true},
		{"结束后保持", 200 * time.Second, PhaseOver, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase, changed := gs.Update(simStart.Add(tt.elapsed))
			if phase != tt.wantPhase || changed != tt.wantChanged {
				t.Errorf("Update(+%v) = %s/%v, want %s/%v", tt.elapsed, phase, changed, tt.wantPhase, tt.wantChanged)
			}
		})
	}
}

func TestGameState_Remaining(t *testing.T) {
	gs := NewGameState(config.GameConfig{DurationSec: 60, CountdownSec: 3})
	gs.Start(simStart)

	if got := gs.CountdownRemaining(simStart.Add(time.Second)); got != 2*time.Second {
		t.Errorf("CountdownRemaining = %v, want 2s", got)
	}
	if got := gs.Remaining(simStart); got != time.Minute {
		t.Errorf("倒计时阶段 Remaining = %v, want 1m", got)
	}

	gs.Update(simStart.Add(3 * time.Second))
	if got := gs.Remaining(simStart.Add(13 * time.Second)); got != 50*time.Second {
		t.Errorf("Remaining = %v, want 50s", got)
	}
	if got := gs.CountdownRemaining(simStart.Add(13 * time.Second)); got != 0 {
		t.Errorf("游戏中 CountdownRemaining = %v, want 0", got)
	}
}

// TestGameState_ZeroCountdown 倒计时为 0 时直接进入游戏
func TestGameState_ZeroCountdown(t *testing.T) {
	gs := NewGameState(config.GameConfig{DurationSec: 10})
	gs.Start(simStart)
	if gs.Phase() != PhasePlaying {
		t.Errorf("phase = %s, want playing", gs.Phase())
	}
}

func TestGameState_Score(t *testing.T) {
	gs := NewGameState(config.GameConfig{DurationSec: 120, CountdownSec: 0})
	gs.Start(simStart)

	gs.HandleEvent(events.Event{Type: events.EventBite, Result: types.BiteBite, Points: 10})
	gs.HandleEvent(events.Event{Type: events.EventBite, Result: types.BiteFinish, Points: 15})
	gs.HandleEvent(events.Event{Type: events.EventBurned, Points: 10})
	gs.HandleEvent(events.Event{Type: events.EventRemoved})

	if gs.Score() != 35 {
		t.Errorf("score = %d, want 35", gs.Score())
	}
	bites, finishes, burns := gs.Stats()
	if bites != 2 || finishes != 1 || burns != 1 {
		t.Errorf("stats = %d/%d/%d, want 2/1/1", bites, finishes, burns)
	}

	gs.Update(simStart.Add(121 * time.Second))
	gs.HandleEvent(events.Event{Type: events.EventBite, Points: 10})
	if gs.Score() != 35 {
		t.Error("结束后不应再得分")
	}

	gs.Start(simStart.Add(time.Hour))
	if gs.Score() != 0 {
		t.Error("新一局得分应清零")
	}
}

func TestGameState_SetDuration(t *testing.T) {
	gs := NewGameState(config.GameConfig{DurationSec: 120})
	gs.SetDuration(90 * time.Second)
	gs.SetDuration(0)
	if gs.Duration() != 90*time.Second {
		t.Errorf("duration = %v, want 90s", gs.Duration())
	}
}
