package npc

import (
	"strings"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

const (
	flavorDraw       = 0.3
	flavorThreshold  = 0.6
	emotionThreshold = 0.5
	minReplyWords    = 15
)

// Synthesizer is the template-based fallback composer, used whenever no
// external backend is configured or its call fails.
type Synthesizer struct {
	rng Rand
}

// NewSynthesizer returns a Synthesizer drawing from the supplied source.
func NewSynthesizer(rng Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// Compose builds a reply from the character's role table, optionally prefixed
// with trait flavor and emotional coloring, padded with a continuity line
// when the result runs short.
func (s *Synthesizer) Compose(character types.Character, cls Classification) string {
	category := cls.Category()

	openings, ok := roleOpenings[character.Role][category]
	if !ok || len(openings) == 0 {
		openings = fallbackOpenings[category]
	}
	reply := s.pick(openings)

	if trait, weight := DominantTrait(character.Traits); weight > flavorThreshold {
		if phrases := flavorPhrases[trait]; len(phrases) > 0 && s.rng.Float64() < flavorDraw {
			reply = s.pick(phrases) + " " + reply
		}
	}

	if emotion, weight := DominantEmotion(character.Emotions); weight > emotionThreshold {
		if phrases := emotionPhrases[emotion]; len(phrases) > 0 && s.rng.Float64() < flavorDraw {
			reply = s.pick(phrases) + " " + reply
		}
	}

	if len(strings.Fields(reply)) < minReplyWords {
		reply = reply + " " + s.pick(continuityLines)
	}

	return reply
}

func (s *Synthesizer) pick(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	idx := int(s.rng.Float64() * float64(len(lines)))
	if idx >= len(lines) {
		idx = len(lines) - 1
	}
	return lines[idx]
}

// MoodDelta derives the per-turn mood nudge from the classified message.
// Sentiment dominates; social content moves the mood by 0.02 scaled by
// sociability, up for greetings and down for behavior-change directives; a
// matching strong emotional weight amplifies the effect. The result is
// always within [-0.1, 0.1].
func MoodDelta(character types.Character, cls Classification) float64 {
	delta := 0.0

	if cls.IsPositive {
		step := 0.05
		if character.Emotions.Happiness > 0.7 {
			step *= 1.5
		}
		delta += step
	}
	if cls.IsNegative {
		step := -0.03
		if character.Emotions.Sadness > 0.7 {
			step *= 1.5
		}
		delta += step
	}
	if cls.IsGreeting {
		delta += 0.02 * character.Traits.Sociability
	}
	if cls.BehaviorChange {
		delta -= 0.02 * character.Traits.Sociability
	}

	return ClampDelta(delta)
}
