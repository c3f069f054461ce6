package sim

import "fmt"

// Config carries every tunable of the simulation. Thresholds that differ
// across observed mining economies (profitability factor, reactivation
// multiplier, retarget cadence, target block time, difficulty bounds) are
// all exposed here instead of being hard-coded.
type Config struct {
	// Miners is the number of miners created at genesis.
	Miners int
	// BlockReward is credited, scaled by the current price, per mined block.
	BlockReward float64

	// GridWidth and GridHeight are consumed only by external placement
	// collaborators and echoed through the configuration surface.
	GridWidth  int
	GridHeight int

	MinHashRate float64
	MaxHashRate float64
	// MinNetworkHashRate floors the active aggregate so the block lottery
	// stays well-defined even if every miner idles.
	MinNetworkHashRate float64

	InitialPrice float64
	PriceFloor   float64
	PriceCeiling float64
	// PriceDrift is the deterministic per-tick growth rate.
	PriceDrift float64
	// PriceVolatility scales the gaussian random walk step.
	PriceVolatility float64
	// ShockProbability is the per-tick chance of one extra shock drawn from
	// ShockMagnitudes (fractions of the last price, signed).
	ShockProbability float64
	ShockMagnitudes  []float64

	// SwingThresholdPct is the price change (percent) beyond which miners
	// nudge their hash rate by HashRateStepUp / HashRateStepDown.
	SwingThresholdPct float64
	HashRateStepUp    float64
	HashRateStepDown  float64

	// ProfitabilityFactor scales reward*price into the balance threshold a
	// miner must hold to stay active.
	ProfitabilityFactor float64
	// RelapseFactor gates dormancy: the price must fall below the miner's
	// previous dormant price times this factor.
	RelapseFactor float64
	// ReactivationFactor gates the dormant->active transition: the price
	// must exceed the recorded dormant price times this factor.
	ReactivationFactor    float64
	ReactivationJitterMin float64
	ReactivationJitterMax float64

	// PopulationFloor is the minimum number of simultaneously active miners.
	PopulationFloor int

	// RetargetBlocks is the difficulty retarget cadence in mined blocks.
	RetargetBlocks  uint64
	TargetBlockTime float64

	DifficultyStepUp   float64
	DifficultyStepDown float64
	MinDifficulty      float64
	MaxDifficulty      float64

	// SpawnEntrants lets retargets spawn one new miner when the market is
	// attractive enough.
	SpawnEntrants      bool
	EntrantHashRateMin float64
	EntrantHashRateMax float64
	// EntrantSpawnScale converts price*reward into a spawn probability.
	EntrantSpawnScale float64
}

func DefaultConfig() Config {
	return Config{
		Miners:      25,
		BlockReward: 6.25,

		GridWidth:  10,
		GridHeight: 10,

		MinHashRate:        0.01,
		MaxHashRate:        100,
		MinNetworkHashRate: 1.0,

		InitialPrice:     1,
		PriceFloor:       1,
		PriceCeiling:     1e6,
		PriceDrift:       0.001,
		PriceVolatility:  0.05,
		ShockProbability: 0.1,
		ShockMagnitudes:  []float64{-0.7, -0.5, -0.3, 0.3, 0.5, 0.7},

		SwingThresholdPct: 5,
		HashRateStepUp:    1.05,
		HashRateStepDown:  0.95,

		ProfitabilityFactor:   0.1,
		RelapseFactor:         0.9,
		ReactivationFactor:    1.1,
		ReactivationJitterMin: 0.8,
		ReactivationJitterMax: 1.0,

		PopulationFloor: 3,

		RetargetBlocks:  50,
		TargetBlockTime: 1.0,

		DifficultyStepUp:   1.05,
		DifficultyStepDown: 0.95,
		MinDifficulty:      1.0,
		MaxDifficulty:      10.0,

		SpawnEntrants:      true,
		EntrantHashRateMin: 0.1,
		EntrantHashRateMax: 10,
		EntrantSpawnScale:  0.01,
	}
}

// Verify fails fast on unrecoverable misconfiguration. Everything else the
// engine clamps or self-heals at runtime.
func (c *Config) Verify() error {
	if c.Miners <= 0 {
		return fmt.Errorf("sim: non-positive miner count %d", c.Miners)
	}
	if c.MinHashRate > c.MaxHashRate {
		return fmt.Errorf("sim: inverted hash rate bounds [%g, %g]", c.MinHashRate, c.MaxHashRate)
	}
	if c.BlockReward <= 0 {
		return fmt.Errorf("sim: non-positive block reward %g", c.BlockReward)
	}
	return nil
}
