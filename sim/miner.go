package sim

import "math"

// Miner is one agent in the roster. Miners are never destroyed; they
// oscillate between active and dormant for the lifetime of the run.
type Miner struct {
	Id uint64

	HashRate        float64
	InitialHashRate float64
	RewardBalance   float64

	Active bool
	// DormantPrice is the price recorded at the last deactivation. It stays
	// in place across reactivations as the relapse reference; it is zero for
	// miners that were never dormant.
	DormantPrice float64

	EntryTime  uint64
	DaysActive uint64

	BlocksFound    uint64
	ExpectedBlocks float64

	rng *Source
}

func newMiner(id uint64, initialHashRate float64, entryTime uint64, cfg *Config, rng *Source) *Miner {
	hashRate := math.Max(initialHashRate, cfg.MinHashRate)
	return &Miner{
		Id:              id,
		HashRate:        hashRate,
		InitialHashRate: hashRate,
		Active:          true,
		EntryTime:       entryTime,
		rng:             rng,
	}
}

// AttemptMine runs the block lottery for one tick. totalActiveHashRate must
// be the aggregate frozen at tick start, so every draw within the tick sees
// the same order-independent probability space.
func (m *Miner) AttemptMine(totalActiveHashRate float64, net *NetworkState, cfg *Config) bool {
	p := m.HashRate / math.Max(totalActiveHashRate, cfg.MinNetworkHashRate)
	m.ExpectedBlocks += p

	if m.rng.Float64() < p {
		m.RewardBalance += net.BlockReward * net.Price
		m.BlocksFound++
		return true
	}
	return false
}

// adaptHashRate applies the bounded multiplicative nudge driven by the
// latest price move.
func (m *Miner) adaptHashRate(net *NetworkState, cfg *Config) {
	change := (net.Price - net.PreviousPrice) / math.Max(net.PreviousPrice, 1) * 100

	if change > cfg.SwingThresholdPct {
		m.HashRate *= cfg.HashRateStepUp
	} else if change < -cfg.SwingThresholdPct {
		m.HashRate *= cfg.HashRateStepDown
	}

	m.HashRate = clampFloat(m.HashRate, cfg.MinHashRate, cfg.MaxHashRate)
}

// maybeDeactivate moves an unprofitable miner to dormant. activeCount is the
// live count at decision time; a transition that would drop it below the
// population floor is rejected here, not repaired afterwards.
func (m *Miner) maybeDeactivate(net *NetworkState, cfg *Config, activeCount int) bool {
	threshold := net.BlockReward * net.Price * cfg.ProfitabilityFactor
	if m.HashRate >= cfg.MinHashRate && m.RewardBalance >= threshold {
		return false
	}
	if net.Price >= m.DormantPrice*cfg.RelapseFactor {
		return false
	}
	if activeCount <= cfg.PopulationFloor {
		return false
	}

	m.Active = false
	m.DormantPrice = net.Price
	return true
}

// maybeReactivate returns a dormant miner to the active set once the price
// has recovered materially above its dormant reference. Reactivation resets
// the day counter, so the first step back performs no nudge.
func (m *Miner) maybeReactivate(net *NetworkState, cfg *Config) bool {
	if net.Price <= m.DormantPrice*cfg.ReactivationFactor {
		return false
	}

	m.Active = true
	m.HashRate = math.Max(m.InitialHashRate*m.rng.Uniform(cfg.ReactivationJitterMin, cfg.ReactivationJitterMax), cfg.MinHashRate)
	m.DaysActive = 0
	return true
}
