package npc

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// maxMoodDelta bounds how far a single turn can move a character's mood.
const maxMoodDelta = 0.1

// ClampDelta bounds a per-turn mood delta to [-0.1, 0.1].
func ClampDelta(delta float64) float64 {
	if delta > maxMoodDelta {
		return maxMoodDelta
	}
	if delta < -maxMoodDelta {
		return -maxMoodDelta
	}
	return delta
}

// ApplyMood folds a delta into the current mood, keeping the result in [0,1].
// The delta is clamped first so a runaway input can never swing the mood by
// more than one step.
func ApplyMood(current, delta float64) float64 {
	return Clamp01(current + ClampDelta(delta))
}
