package sim

// ModelSnapshot is the per-tick view handed to external reporting
// collaborators. It is a value copy; holding it never aliases engine state.
type ModelSnapshot struct {
	Tick          uint64  `json:"tick"`
	TotalHashRate float64 `json:"total_hash_rate"`
	Difficulty    float64 `json:"difficulty"`
	BlocksMined   uint64  `json:"blocks_mined"`
	Price         float64 `json:"price"`
	ActiveMiners  int     `json:"active_miners"`
}

// AgentSnapshot is the per-miner view, emitted for the whole roster
// including dormant miners.
type AgentSnapshot struct {
	MinerId        uint64  `json:"miner_id"`
	HashRate       float64 `json:"hash_rate"`
	RewardBalance  float64 `json:"reward_balance"`
	Active         uint8   `json:"active"`
	BlocksFound    uint64  `json:"blocks_found"`
	ExpectedBlocks float64 `json:"expected_blocks"`
}

// Collector receives one snapshot pair at the end of every tick.
type Collector interface {
	Collect(model ModelSnapshot, agents []AgentSnapshot)
}

type CollectorFunc func(model ModelSnapshot, agents []AgentSnapshot)

func (f CollectorFunc) Collect(model ModelSnapshot, agents []AgentSnapshot) {
	f(model, agents)
}
