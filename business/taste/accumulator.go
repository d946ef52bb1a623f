package taste

import (
	"fmt"
	"math"
)

// Signed weight per feedback action. A purchase is the strongest positive
// signal, a save is a weaker positive one, rejection is a strong negative.
const (
	ActionSave     = "save"
	ActionBought   = "bought"
	ActionNotForMe = "not_for_me"

	WeightBought   = 1.5
	WeightSave     = 0.6
	WeightNotForMe = -1.0
)

// Values within zeroEpsilon of zero are dropped from the vector; absent keys
// and zero values are equivalent everywhere.
const zeroEpsilon = 1e-9

// WeightForAction returns the signed delta weight for a feedback action, or
// an error for unknown actions (rejected before any write happens).
func WeightForAction(action string) (float64, error) {
	switch action {
	case ActionBought:
		return WeightBought, nil
	case ActionSave:
		return WeightSave, nil
	case ActionNotForMe:
		return WeightNotForMe, nil
	default:
		return 0, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, action)
	}
}

// DecayFactor computes baseDecay^daysElapsed. daysElapsed is floored at zero
// so clock skew can never amplify a vector; baseDecay outside (0,1) falls
// back to no decay.
func DecayFactor(baseDecay, daysElapsed float64) float64 {
	if baseDecay <= 0 || baseDecay >= 1 {
		return 1
	}
	if daysElapsed < 0 {
		daysElapsed = 0
	}
	return math.Pow(baseDecay, daysElapsed)
}

// BuildDelta assigns the action weight to every extracted feature key.
func BuildDelta(features []string, weight float64) map[string]float64 {
	delta := make(map[string]float64, len(features))
	for _, key := range features {
		delta[key] = weight
	}
	return delta
}

// ApplyDelta decays the current vector, adds the delta, and clamps every
// resulting value into [clampMin, clampMax] by truncation. Keys that land on
// zero are dropped. The input vector is not mutated.
func ApplyDelta(current, delta map[string]float64, decayFactor, clampMin, clampMax float64) map[string]float64 {
	updated := make(map[string]float64, len(current)+len(delta))

	for key, value := range current {
		updated[key] = value * decayFactor
	}
	for key, add := range delta {
		updated[key] += add
	}

	for key, value := range updated {
		if value < clampMin {
			value = clampMin
		} else if value > clampMax {
			value = clampMax
		}
		if math.Abs(value) < zeroEpsilon {
			delete(updated, key)
			continue
		}
		updated[key] = value
	}

	return updated
}
