package sim

// NetworkState aggregates everything miners read about the network. It is
// created once per run, owned exclusively by the engine and mutated only
// between miner steps; miners never hold a pointer back into it.
type NetworkState struct {
	BlockReward float64
	Difficulty  float64

	Price         float64
	PreviousPrice float64

	BlocksMined uint64

	// Retarget bookkeeping, explicit from construction.
	LastAdjustmentTick uint64
	LastBlocksMined    uint64

	Tick uint64

	priceHistory      []float64
	difficultyHistory []float64
}

func newNetworkState(cfg *Config) *NetworkState {
	return &NetworkState{
		BlockReward:       cfg.BlockReward,
		Difficulty:        cfg.MinDifficulty,
		Price:             cfg.InitialPrice,
		PreviousPrice:     cfg.InitialPrice,
		priceHistory:      []float64{cfg.InitialPrice},
		difficultyHistory: []float64{cfg.MinDifficulty},
	}
}

// PriceHistory returns a copy of the append-only price sequence.
func (n *NetworkState) PriceHistory() []float64 {
	out := make([]float64, len(n.priceHistory))
	copy(out, n.priceHistory)
	return out
}

// DifficultyHistory returns a copy of the append-only retarget sequence.
func (n *NetworkState) DifficultyHistory() []float64 {
	out := make([]float64, len(n.difficultyHistory))
	copy(out, n.difficultyHistory)
	return out
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
