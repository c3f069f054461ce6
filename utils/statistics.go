package utils

import (
	"math"
)

func ProbabilityEffort(effort float64) float64 {
	return 1 - math.Exp(-effort/100)
}

// ProbabilityNShares is the Poisson probability of exactly shares found
// blocks at the given effort percentage. Computed in log space so lifetime
// block counts stay finite.
func ProbabilityNShares(shares uint64, effort float64) float64 {
	lambda := effort / 100
	if lambda <= 0 {
		if shares == 0 {
			return 1
		}
		return 0
	}

	logGamma, _ := math.Lgamma(float64(shares) + 1)
	return math.Exp(float64(shares)*math.Log(lambda) - lambda - logGamma)
}
