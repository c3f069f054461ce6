package sim

import (
	"math"

	"git.gammaspectra.live/P2Pool/econsim/utils"
)

// DifficultyController retargets difficulty from the observed block
// production rate and may spawn new entrants when the market is attractive.
type DifficultyController struct {
	cfg *Config
	net *NetworkState
	rng *Source

	// spawn admits one new miner to the roster with the given initial hash
	// rate. Wired by the engine.
	spawn func(initialHashRate float64)
}

func newDifficultyController(cfg *Config, net *NetworkState, rng *Source, spawn func(initialHashRate float64)) *DifficultyController {
	return &DifficultyController{
		cfg:   cfg,
		net:   net,
		rng:   rng,
		spawn: spawn,
	}
}

// OnBlockMined records one mined block. Every RetargetBlocks blocks it
// recomputes difficulty; block increments are applied in miner submission
// order within a tick, so the cadence trigger is deterministic.
func (c *DifficultyController) OnBlockMined() {
	c.net.BlocksMined++

	if c.cfg.RetargetBlocks == 0 || c.net.BlocksMined%c.cfg.RetargetBlocks != 0 {
		return
	}

	c.retarget()
	c.maybeSpawnEntrant()
}

func (c *DifficultyController) retarget() {
	blocks := c.net.BlocksMined - c.net.LastBlocksMined
	averageBlockTime := float64(c.net.Tick-c.net.LastAdjustmentTick) / float64(blocks)

	if averageBlockTime > c.cfg.TargetBlockTime {
		c.net.Difficulty *= c.cfg.DifficultyStepUp
	} else if averageBlockTime < c.cfg.TargetBlockTime {
		c.net.Difficulty *= c.cfg.DifficultyStepDown
	}
	c.net.Difficulty = clampFloat(c.net.Difficulty, c.cfg.MinDifficulty, c.cfg.MaxDifficulty)

	c.net.difficultyHistory = append(c.net.difficultyHistory, c.net.Difficulty)
	c.net.LastAdjustmentTick = c.net.Tick
	c.net.LastBlocksMined = c.net.BlocksMined

	utils.Logf("[RETARGET] difficulty %.2f, average block time %.2f, target %.2f", c.net.Difficulty, averageBlockTime, c.cfg.TargetBlockTime)
}

func (c *DifficultyController) maybeSpawnEntrant() {
	if !c.cfg.SpawnEntrants || c.spawn == nil {
		return
	}

	attractiveness := c.net.Price * c.net.BlockReward
	if c.rng.Float64() >= math.Min(1, attractiveness*c.cfg.EntrantSpawnScale) {
		return
	}

	upper := math.Min(c.cfg.EntrantHashRateMax, attractiveness)
	if upper < c.cfg.EntrantHashRateMin {
		upper = c.cfg.EntrantHashRateMin
	}
	c.spawn(c.rng.Uniform(c.cfg.EntrantHashRateMin, upper))
}
