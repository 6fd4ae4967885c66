package npc

import (
	"testing"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

// fixedRand returns the same draw every time.
type fixedRand struct {
	value float64
}

func (r fixedRand) Float64() float64 {
	return r.value
}

func TestShouldSpeakMentionedAlwaysSpeaks(t *testing.T) {
	gate := NewGate(fixedRand{value: 0.99})
	c := character("a", "Aria", types.RoleScholar, 0.1, 0.1)
	cls := Classification{Mentions: []Mention{{CharacterID: "a"}}}

	if !gate.ShouldSpeak(c, cls, false) {
		t.Fatal("expected mentioned character to speak")
	}
}

func TestShouldSpeakBehaviorChangeAlwaysSpeaks(t *testing.T) {
	gate := NewGate(fixedRand{value: 0.99})
	c := character("a", "Aria", types.RoleScholar, 0.1, 0.1)

	if !gate.ShouldSpeak(c, Classification{BehaviorChange: true}, false) {
		t.Fatal("expected behavior-change directive to force a reply")
	}
}

func TestShouldSpeakInOrderAlwaysSpeaks(t *testing.T) {
	gate := NewGate(fixedRand{value: 0.99})
	c := character("a", "Aria", types.RoleScholar, 0.1, 0.1)

	if !gate.ShouldSpeak(c, Classification{}, true) {
		t.Fatal("expected in-order character to speak")
	}
}

func TestShouldSpeakSociableChimeInOnQuestions(t *testing.T) {
	c := character("a", "Aria", types.RoleScholar, 0.9, 0.1)
	cls := Classification{IsQuestion: true}

	if !NewGate(fixedRand{value: 0.25}).ShouldSpeak(c, cls, false) {
		t.Fatal("expected draw under 0.3 to speak")
	}
	if NewGate(fixedRand{value: 0.35}).ShouldSpeak(c, cls, false) {
		t.Fatal("expected draw over 0.3 to stay silent")
	}

	reserved := character("b", "Dun", types.RoleGuard, 0.5, 0.1)
	if NewGate(fixedRand{value: 0.0}).ShouldSpeak(reserved, cls, false) {
		t.Fatal("expected low-sociability character to stay silent")
	}
}

func TestShouldSpeakAloneQuestionPath(t *testing.T) {
	c := character("a", "Aria", types.RoleScholar, 0.7, 0.1)
	cls := Classification{IsQuestion: true}

	if !NewGate(fixedRand{value: 0.79}).ShouldSpeakAlone(c, cls) {
		t.Fatal("expected draw under 0.8 to speak")
	}
	if NewGate(fixedRand{value: 0.81}).ShouldSpeakAlone(c, cls) {
		t.Fatal("expected draw over 0.8 to stay silent")
	}
}

func TestShouldSpeakAloneBaseThreshold(t *testing.T) {
	// "Hello!" carries no question, so the gate rides on
	// sociability x mood x 0.3 = 0.9 x 0.8 x 0.3 = 0.216.
	c := character("a", "Aria", types.RoleScholar, 0.9, 0.1)
	c.CurrentMood = 0.8
	cls := Classify("Hello!", []types.Character{c})
	if cls.IsQuestion {
		t.Fatalf("expected no question flag, got %#v", cls)
	}

	if !NewGate(fixedRand{value: 0.2}).ShouldSpeakAlone(c, cls) {
		t.Fatal("expected draw under 0.216 to speak")
	}
	if NewGate(fixedRand{value: 0.22}).ShouldSpeakAlone(c, cls) {
		t.Fatal("expected draw over 0.216 to stay silent")
	}
}
