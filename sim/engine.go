package sim

import (
	"context"
	"math"

	"git.gammaspectra.live/P2Pool/econsim/utils"
)

// Reserved stream identifiers under the master seed. Miner streams start at
// reservedStreams + miner id, so entrants spawned mid-run stay deterministic.
const (
	schedulerStream = iota
	priceStream
	difficultyStream
	reservedStreams = 16
)

// Engine drives the simulation: one Step advances the price, enforces the
// population floor, steps every miner in a fresh random order against the
// aggregate frozen at tick start, then emits a snapshot.
type Engine struct {
	cfg Config

	master   *Source
	schedRng *Source

	net    *NetworkState
	roster []*Miner

	price      *PriceProcess
	difficulty *DifficultyController
	population *PopulationController

	activeCount int
	nextMinerId uint64

	collector Collector
}

func New(cfg Config, seed uint64) (*Engine, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		master: NewSource(seed),
	}
	e.schedRng = e.master.Stream(schedulerStream)
	e.net = newNetworkState(&e.cfg)
	e.price = newPriceProcess(&e.cfg, e.net, e.master.Stream(priceStream))
	e.population = newPopulationController(&e.cfg)
	e.difficulty = newDifficultyController(&e.cfg, e.net, e.master.Stream(difficultyStream), e.spawnEntrant)

	baseHashRate := math.Max(cfg.MinNetworkHashRate/float64(cfg.Miners), cfg.MinHashRate)
	for i := 0; i < cfg.Miners; i++ {
		rng := e.master.Stream(reservedStreams + e.nextMinerId)
		e.addMiner(baseHashRate*rng.Uniform(0.8, 1.2), rng)
	}

	return e, nil
}

// SetCollector installs the external metrics collaborator. A nil collector
// disables snapshot emission.
func (e *Engine) SetCollector(c Collector) {
	e.collector = c
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) Tick() uint64 {
	return e.net.Tick
}

func (e *Engine) BlocksMined() uint64 {
	return e.net.BlocksMined
}

func (e *Engine) Difficulty() float64 {
	return e.net.Difficulty
}

func (e *Engine) Price() float64 {
	return e.net.Price
}

func (e *Engine) ActiveMiners() int {
	return e.activeCount
}

func (e *Engine) PriceHistory() []float64 {
	return e.net.PriceHistory()
}

func (e *Engine) DifficultyHistory() []float64 {
	return e.net.DifficultyHistory()
}

// TotalActiveHashRate sums the active roster, floored at the configured
// network minimum so lottery probabilities stay well-defined.
func (e *Engine) TotalActiveHashRate() float64 {
	var total float64
	for _, m := range e.roster {
		if m.Active {
			total += m.HashRate
		}
	}
	return math.Max(total, e.cfg.MinNetworkHashRate)
}

func (e *Engine) addMiner(initialHashRate float64, rng *Source) *Miner {
	m := newMiner(e.nextMinerId, initialHashRate, e.net.Tick, &e.cfg, rng)
	e.nextMinerId++
	e.roster = append(e.roster, m)
	e.activeCount++
	return m
}

func (e *Engine) spawnEntrant(initialHashRate float64) {
	rng := e.master.Stream(reservedStreams + e.nextMinerId)
	m := e.addMiner(initialHashRate, rng)
	utils.Logf("[ECON] entrant miner %d joined with hash rate %.3f at tick %d", m.Id, m.HashRate, e.net.Tick)
}

// Step advances the simulation by exactly one tick.
func (e *Engine) Step() {
	e.price.Advance()

	if reactivated := e.population.Enforce(e.roster, e.activeCount); reactivated > 0 {
		e.activeCount += reactivated
		utils.Noticef("[ECON] population floor reactivated %d dormant miners at tick %d", reactivated, e.net.Tick)
	}

	// Frozen before any miner adjusts its own rate this tick.
	totalActiveHashRate := e.TotalActiveHashRate()

	for _, idx := range e.schedRng.Perm(len(e.roster)) {
		e.stepMiner(e.roster[idx], totalActiveHashRate)
	}

	e.emitSnapshot()
	utils.Debugf("[ECON] tick %d: price %.4f, difficulty %.2f, %d blocks, %d active miners", e.net.Tick, e.net.Price, e.net.Difficulty, e.net.BlocksMined, e.activeCount)
	e.net.Tick++
}

func (e *Engine) stepMiner(m *Miner, totalActiveHashRate float64) {
	if !m.Active {
		// Reactivation takes priority: a miner never deactivates and
		// reactivates within the same step.
		if m.maybeReactivate(e.net, &e.cfg) {
			e.activeCount++
		}
		return
	}

	if m.AttemptMine(totalActiveHashRate, e.net, &e.cfg) {
		e.difficulty.OnBlockMined()
	}

	// The first active step after creation or reactivation has no prior-day
	// basis, so neither the nudge nor the dormancy check applies.
	if m.DaysActive > 0 {
		m.adaptHashRate(e.net, &e.cfg)
		if m.maybeDeactivate(e.net, &e.cfg, e.activeCount) {
			e.activeCount--
			return
		}
	}
	m.DaysActive++
}

// Run steps the engine maxTicks times, checking for cancellation between
// ticks. Termination is external; the core has no internal stop condition.
func (e *Engine) Run(ctx context.Context, maxTicks uint64) error {
	for i := uint64(0); i < maxTicks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		e.Step()
	}
	return nil
}

// Snapshot builds the current model and per-agent views.
func (e *Engine) Snapshot() (ModelSnapshot, []AgentSnapshot) {
	agents := make([]AgentSnapshot, len(e.roster))
	for i, m := range e.roster {
		var active uint8
		if m.Active {
			active = 1
		}
		agents[i] = AgentSnapshot{
			MinerId:        m.Id,
			HashRate:       m.HashRate,
			RewardBalance:  m.RewardBalance,
			Active:         active,
			BlocksFound:    m.BlocksFound,
			ExpectedBlocks: m.ExpectedBlocks,
		}
	}
	model := ModelSnapshot{
		Tick:          e.net.Tick,
		TotalHashRate: e.TotalActiveHashRate(),
		Difficulty:    e.net.Difficulty,
		BlocksMined:   e.net.BlocksMined,
		Price:         e.net.Price,
		ActiveMiners:  e.activeCount,
	}
	return model, agents
}

func (e *Engine) emitSnapshot() {
	if e.collector == nil {
		return
	}
	model, agents := e.Snapshot()
	e.collector.Collect(model, agents)
}
