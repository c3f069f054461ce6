package sim

import (
	"golang.org/x/exp/slices"
)

// PopulationController keeps the active roster from collapsing below the
// configured floor by force-reactivating dormant miners.
type PopulationController struct {
	cfg *Config
}

func newPopulationController(cfg *Config) *PopulationController {
	return &PopulationController{cfg: cfg}
}

// Enforce reactivates up to (floor - activeCount) dormant miners, cheapest
// dormant price first with stable ties, and returns how many came back.
// Forced reactivation resets the hash rate to the miner's initial value.
func (p *PopulationController) Enforce(roster []*Miner, activeCount int) int {
	missing := p.cfg.PopulationFloor - activeCount
	if missing <= 0 {
		return 0
	}

	dormant := make([]*Miner, 0, len(roster)-activeCount)
	for _, m := range roster {
		if !m.Active {
			dormant = append(dormant, m)
		}
	}
	slices.SortStableFunc(dormant, func(a, b *Miner) bool {
		return a.DormantPrice < b.DormantPrice
	})

	if missing > len(dormant) {
		missing = len(dormant)
	}
	for _, m := range dormant[:missing] {
		m.Active = true
		m.HashRate = m.InitialHashRate
		m.DaysActive = 0
	}
	return missing
}
