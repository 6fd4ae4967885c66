package npc

import (
	"strings"
	"testing"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

func TestMoodDeltaPositive(t *testing.T) {
	c := character("a", "Aria", types.RoleScholar, 0.5, 0.5)
	if delta := MoodDelta(c, Classification{IsPositive: true}); delta != 0.05 {
		t.Fatalf("expected 0.05, got %v", delta)
	}
}

func TestMoodDeltaPositiveAmplified(t *testing.T) {
	c := character("a", "Aria", types.RoleScholar, 0.5, 0.5)
	c.Emotions.Happiness = 0.8
	if delta := MoodDelta(c, Classification{IsPositive: true}); !almostEqual(delta, 0.075) {
		t.Fatalf("expected 0.075, got %v", delta)
	}
}

func TestMoodDeltaNegative(t *testing.T) {
	c := character("a", "Aria", types.RoleScholar, 0.5, 0.5)
	if delta := MoodDelta(c, Classification{IsNegative: true}); delta != -0.03 {
		t.Fatalf("expected -0.03, got %v", delta)
	}

	c.Emotions.Sadness = 0.8
	if delta := MoodDelta(c, Classification{IsNegative: true}); !almostEqual(delta, -0.045) {
		t.Fatalf("expected -0.045, got %v", delta)
	}
}

func TestMoodDeltaGreetingScalesWithSociability(t *testing.T) {
	c := character("a", "Aria", types.RoleScholar, 0.5, 0.5)
	if delta := MoodDelta(c, Classification{IsGreeting: true}); !almostEqual(delta, 0.01) {
		t.Fatalf("expected 0.01, got %v", delta)
	}
}

func TestMoodDeltaBehaviorChangeScalesWithSociability(t *testing.T) {
	c := character("a", "Aria", types.RoleScholar, 0.5, 0.5)
	if delta := MoodDelta(c, Classification{BehaviorChange: true}); !almostEqual(delta, -0.01) {
		t.Fatalf("expected -0.01, got %v", delta)
	}

	c.Traits.Sociability = 1.0
	if delta := MoodDelta(c, Classification{BehaviorChange: true}); !almostEqual(delta, -0.02) {
		t.Fatalf("expected -0.02, got %v", delta)
	}
}

func TestMoodDeltaNeutralIsZero(t *testing.T) {
	c := character("a", "Aria", types.RoleScholar, 0.5, 0.5)
	if delta := MoodDelta(c, Classification{}); delta != 0 {
		t.Fatalf("expected 0, got %v", delta)
	}
}

func TestMoodDeltaStaysWithinStep(t *testing.T) {
	c := character("a", "Aria", types.RoleScholar, 1.0, 0.5)
	c.Emotions.Happiness = 0.9
	cls := Classification{IsPositive: true, IsGreeting: true}

	delta := MoodDelta(c, cls)
	if delta < -maxMoodDelta || delta > maxMoodDelta {
		t.Fatalf("expected delta within [-0.1, 0.1], got %v", delta)
	}
}

func TestComposeUsesRoleOpening(t *testing.T) {
	synth := NewSynthesizer(fixedRand{value: 0.0})
	c := character("a", "Thorgar", types.RoleWarrior, 0.5, 0.5)

	reply := synth.Compose(c, Classification{IsQuestion: true})
	if !strings.HasPrefix(reply, roleOpenings[types.RoleWarrior][CategoryQuestion][0]) {
		t.Fatalf("expected warrior question opening, got %q", reply)
	}
}

func TestComposeUnknownRoleFallsBack(t *testing.T) {
	synth := NewSynthesizer(fixedRand{value: 0.0})
	c := character("a", "Wisp", types.Role("spirit"), 0.5, 0.5)

	reply := synth.Compose(c, Classification{})
	if reply == "" {
		t.Fatal("expected a fallback reply")
	}
	if !strings.HasPrefix(reply, fallbackOpenings[CategoryNeutral][0]) {
		t.Fatalf("expected generic neutral opening, got %q", reply)
	}
}

func TestComposePadsShortReplies(t *testing.T) {
	synth := NewSynthesizer(fixedRand{value: 0.0})
	c := character("a", "Thorgar", types.RoleWarrior, 0.5, 0.5)

	reply := synth.Compose(c, Classification{})
	if words := len(strings.Fields(reply)); words < minReplyWords {
		t.Fatalf("expected at least %d words after padding, got %d: %q", minReplyWords, words, reply)
	}
}

func TestComposeAddsTraitFlavor(t *testing.T) {
	synth := NewSynthesizer(fixedRand{value: 0.0})
	c := character("a", "Oren", types.RoleMerchant, 0.5, 0.5)
	c.Traits.Humor = 0.9

	reply := synth.Compose(c, Classification{})
	if !strings.HasPrefix(reply, flavorPhrases["humor"][0]) {
		t.Fatalf("expected humor flavor prefix, got %q", reply)
	}
}
