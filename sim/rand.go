package sim

import (
	"math/rand"

	"git.gammaspectra.live/P2Pool/econsim/utils"
)

// streamMix spreads stream identifiers across the seed space before the
// xorshift scramble, so adjacent ids do not yield correlated streams.
const streamMix = 0x9E3779B97F4A7C15

// Source is a deterministic random stream. The engine owns a master Source
// and derives independent sub-streams for the price process, the scheduler
// and every miner, so results stay reproducible no matter in which order
// agents consume randomness.
type Source struct {
	seed uint64
	rnd  *rand.Rand
}

func NewSource(seed uint64) *Source {
	return &Source{
		seed: seed,
		rnd:  rand.New(rand.NewSource(int64(seed))),
	}
}

// Stream derives an independent source for the given stream id. Derivation
// depends only on the master seed and the id, never on prior draws.
func (s *Source) Stream(id uint64) *Source {
	return NewSource(utils.XorShift64Star(s.seed ^ (id+1)*streamMix))
}

func (s *Source) Float64() float64 {
	return s.rnd.Float64()
}

func (s *Source) Uniform(min, max float64) float64 {
	return min + s.rnd.Float64()*(max-min)
}

func (s *Source) Gauss(mean, sigma float64) float64 {
	return mean + s.rnd.NormFloat64()*sigma
}

func (s *Source) Perm(n int) []int {
	return s.rnd.Perm(n)
}

func (s *Source) Pick(values []float64) float64 {
	return values[s.rnd.Intn(len(values))]
}
