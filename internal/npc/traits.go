package npc

import "github.com/PKM100/mnemocyte-sub001/internal/types"

// DominantTrait returns the strongest behavioral trait and its weight.
func DominantTrait(t types.BehavioralTraits) (string, float64) {
	name, weight := "sociability", t.Sociability
	if t.Curiosity > weight {
		name, weight = "curiosity", t.Curiosity
	}
	if t.Aggression > weight {
		name, weight = "aggression", t.Aggression
	}
	if t.Loyalty > weight {
		name, weight = "loyalty", t.Loyalty
	}
	if t.Humor > weight {
		name, weight = "humor", t.Humor
	}
	return name, weight
}

// DominantEmotion returns the strongest emotional weight and its value.
func DominantEmotion(e types.EmotionalWeights) (string, float64) {
	name, weight := "happiness", e.Happiness
	if e.Sadness > weight {
		name, weight = "sadness", e.Sadness
	}
	if e.Anger > weight {
		name, weight = "anger", e.Anger
	}
	if e.Fear > weight {
		name, weight = "fear", e.Fear
	}
	if e.Surprise > weight {
		name, weight = "surprise", e.Surprise
	}
	if e.Disgust > weight {
		name, weight = "disgust", e.Disgust
	}
	return name, weight
}

// MoodDescriptor maps a scalar mood to the band used in prompts and
// templates.
func MoodDescriptor(mood float64) string {
	switch {
	case mood < 0.2:
		return "miserable"
	case mood < 0.4:
		return "gloomy"
	case mood < 0.6:
		return "steady"
	case mood < 0.8:
		return "content"
	default:
		return "elated"
	}
}
