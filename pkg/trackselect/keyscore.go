package trackselect

import "github.com/gridtone/deckengine/pkg/track"

// transition classifies the musical relationship between two Camelot
// keys, mirroring the categories original_source's suggestion engine
// scores by (SPEC_FULL.md §C.2, mesh-player/src/suggestions.rs).
type transition int

const (
	transSameKey transition = iota
	transAdjacentUp
	transAdjacentDown
	transDiagonalUp
	transDiagonalDown
	transEnergyBoost
	transEnergyCool
	transMoodLift
	transMoodDarken
	transSemitoneUp
	transSemitoneDown
	transFarStep3
	transFarStep4
	transFarStep5
	transFarStepOther
	transFarCross
	transTritone
)

// classifyTransition computes the signed circular step between seed
// and candidate on the 12-position Camelot wheel and classifies it.
func classifyTransition(seed, candidate track.CamelotKey) transition {
	sameMode := seed.Minor == candidate.Minor

	raw := candidate.Number - seed.Number
	step := raw
	if step > 6 {
		step -= 12
	} else if step < -6 {
		step += 12
	}
	abs := step
	if abs < 0 {
		abs = -abs
	}

	if sameMode {
		switch step {
		case 0:
			return transSameKey
		case 1:
			return transAdjacentUp
		case -1:
			return transAdjacentDown
		case 2:
			return transEnergyBoost
		case -2:
			return transEnergyCool
		case -5:
			return transSemitoneUp
		case 5:
			return transSemitoneDown
		case 6, -6:
			return transTritone
		}
		switch abs {
		case 3:
			return transFarStep3
		case 4:
			return transFarStep4
		default:
			return transFarStepOther
		}
	}

	switch step {
	case 0:
		if seed.Minor {
			return transMoodLift // minor -> major
		}
		return transMoodDarken // major -> minor
	case 1:
		if !seed.Minor {
			// B(n) -> A(n+1): safe diagonal up
			return transDiagonalUp
		}
		return transFarCross
	case -1:
		if seed.Minor {
			// A(n) -> B(n-1): safe diagonal down
			return transDiagonalDown
		}
		return transFarCross
	default:
		return transFarCross
	}
}

// baseKeyScore is the transition's compatibility score at zero energy
// bias: 0.0 (worst) to 1.0 (best). Nothing is exactly zero so an
// adaptive caller can still surface a desperate suggestion.
func baseKeyScore(tt transition) float64 {
	switch tt {
	case transSameKey:
		return 1.00
	case transAdjacentUp, transAdjacentDown:
		return 0.85
	case transDiagonalUp, transDiagonalDown:
		return 0.75
	case transMoodLift, transMoodDarken:
		return 0.70
	case transEnergyBoost, transEnergyCool:
		return 0.50
	case transSemitoneUp, transSemitoneDown:
		return 0.20
	case transFarStep3:
		return 0.25
	case transFarStep4:
		return 0.15
	case transFarStepOther:
		return 0.08
	case transFarCross:
		return 0.10
	case transTritone:
		return 0.03
	default:
		return 0.05
	}
}

// keyEnergyModifier scales linearly with |energyBias| (-1 drop, 0
// maintain, +1 raise) and is zero at center. Positive raises the base
// score, negative lowers it.
func keyEnergyModifier(tt transition, energyBias float64) float64 {
	abs := energyBias
	if abs < 0 {
		abs = -abs
	}
	if abs < 0.05 {
		return 0.0
	}

	var raw float64
	if energyBias > 0 {
		switch tt {
		case transSemitoneUp:
			raw = 0.35
		case transEnergyBoost:
			raw = 0.30
		case transMoodLift:
			raw = 0.20
		case transDiagonalUp:
			raw = 0.15
		case transAdjacentUp:
			raw = 0.10
		case transAdjacentDown:
			raw = -0.15
		case transMoodDarken:
			raw = -0.15
		case transEnergyCool:
			raw = -0.20
		case transDiagonalDown:
			raw = -0.10
		}
	} else {
		switch tt {
		case transEnergyCool:
			raw = 0.25
		case transSemitoneDown:
			raw = 0.20
		case transMoodDarken:
			raw = 0.20
		case transTritone:
			raw = 0.15
		case transDiagonalDown:
			raw = 0.15
		case transAdjacentDown:
			raw = 0.10
		case transFarStep3:
			raw = 0.10
		case transFarStep4, transFarStep5:
			raw = 0.08
		case transAdjacentUp:
			raw = -0.15
		case transMoodLift:
			raw = -0.15
		case transEnergyBoost:
			raw = -0.20
		case transDiagonalUp:
			raw = -0.10
		}
	}

	return raw * abs
}

// keyTransitionScore combines base compatibility with the energy-aware
// modifier, clamped to [0, 1].
func keyTransitionScore(seed, candidate track.CamelotKey, energyBias float64) float64 {
	tt := classifyTransition(seed, candidate)
	score := baseKeyScore(tt) + keyEnergyModifier(tt, energyBias)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
