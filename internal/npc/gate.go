package npc

import "github.com/PKM100/mnemocyte-sub001/internal/types"

// Rand is the uniform random source injected into every stochastic decision.
// *math/rand.Rand satisfies it; tests substitute a fixed source.
type Rand interface {
	Float64() float64
}

// Gate decides whether a character emits a message this turn.
type Gate struct {
	rng Rand
}

// NewGate returns a Gate drawing from the supplied source.
func NewGate(rng Rand) *Gate {
	return &Gate{rng: rng}
}

// ShouldSpeak is the group-chat gate. Membership in the resolved speaking
// order is itself a commitment to speak; characters outside it only chime in
// on general questions when highly sociable.
func (g *Gate) ShouldSpeak(character types.Character, cls Classification, inOrder bool) bool {
	if cls.Mentioned(character.ID) || cls.BehaviorChange {
		return true
	}
	if inOrder {
		return true
	}
	if cls.IsQuestion && character.Traits.Sociability > 0.8 {
		return g.rng.Float64() < 0.3
	}
	return false
}

// ShouldSpeakAlone is the single-character gate: sociable characters answer
// most general questions, everything else rides on sociability and mood.
func (g *Gate) ShouldSpeakAlone(character types.Character, cls Classification) bool {
	if cls.Mentioned(character.ID) || cls.BehaviorChange {
		return true
	}
	if cls.IsQuestion && character.Traits.Sociability > 0.6 {
		return g.rng.Float64() < 0.8
	}
	threshold := character.Traits.Sociability * character.CurrentMood * 0.3
	return g.rng.Float64() < threshold
}
