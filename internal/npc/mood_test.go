package npc

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestApplyMoodClampsAtCeiling(t *testing.T) {
	if mood := ApplyMood(0.95, 0.08); mood != 1.0 {
		t.Fatalf("expected 1.0, got %v", mood)
	}
}

func TestApplyMoodClampsAtFloor(t *testing.T) {
	if mood := ApplyMood(0.02, -0.08); mood != 0 {
		t.Fatalf("expected 0, got %v", mood)
	}
}

func TestApplyMoodClampsRunawayDelta(t *testing.T) {
	if mood := ApplyMood(0.5, 5.0); !almostEqual(mood, 0.6) {
		t.Fatalf("expected 0.6, got %v", mood)
	}
	if mood := ApplyMood(0.5, -5.0); !almostEqual(mood, 0.4) {
		t.Fatalf("expected 0.4, got %v", mood)
	}
}

func TestApplyMoodAlwaysInRange(t *testing.T) {
	moods := []float64{0, 0.25, 0.5, 0.75, 1}
	deltas := []float64{-100, -0.1, -0.05, 0, 0.05, 0.1, 100}
	for _, mood := range moods {
		for _, delta := range deltas {
			got := ApplyMood(mood, delta)
			if got < 0 || got > 1 {
				t.Fatalf("ApplyMood(%v, %v) = %v out of range", mood, delta, got)
			}
		}
	}
}

func TestClampDelta(t *testing.T) {
	if got := ClampDelta(0.25); got != maxMoodDelta {
		t.Fatalf("expected %v, got %v", maxMoodDelta, got)
	}
	if got := ClampDelta(-0.25); got != -maxMoodDelta {
		t.Fatalf("expected %v, got %v", -maxMoodDelta, got)
	}
	if got := ClampDelta(0.07); got != 0.07 {
		t.Fatalf("expected 0.07, got %v", got)
	}
}
