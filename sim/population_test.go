package sim

import (
	"testing"
)

func TestEnforceReactivatesCheapestDormant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Miners = 5
	e, err := New(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}

	// put four miners to sleep, leaving one active
	dormantPrices := []float64{40, 10, 30, 20}
	for i, m := range e.roster[:4] {
		m.Active = false
		m.DormantPrice = dormantPrices[i]
		m.HashRate = 0.5
		m.DaysActive = 7
	}
	e.activeCount = 1

	reactivated := e.population.Enforce(e.roster, e.activeCount)
	if reactivated != cfg.PopulationFloor-1 {
		t.Fatalf("expected %d reactivations, got %d", cfg.PopulationFloor-1, reactivated)
	}

	// the two cheapest dormant prices (10 and 20) must be back
	for _, m := range e.roster[:4] {
		wantActive := m.DormantPrice == 10 || m.DormantPrice == 20
		if m.Active != wantActive {
			t.Fatalf("miner with dormant price %f: active=%v", m.DormantPrice, m.Active)
		}
		if m.Active {
			if m.HashRate != m.InitialHashRate {
				t.Fatalf("forced reactivation must reset hash rate to initial, got %f", m.HashRate)
			}
			if m.DaysActive != 0 {
				t.Fatal("forced reactivation must restart the day counter")
			}
		}
	}
}

func TestEnforceNoopAtOrAboveFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Miners = 5
	e, err := New(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}

	if got := e.population.Enforce(e.roster, cfg.PopulationFloor); got != 0 {
		t.Fatalf("expected no reactivations at the floor, got %d", got)
	}
}

func TestEnforceStableTieBreak(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Miners = 4
	cfg.PopulationFloor = 1
	e, err := New(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}

	for _, m := range e.roster {
		m.Active = false
		m.DormantPrice = 5
	}
	e.activeCount = 0

	if got := e.population.Enforce(e.roster, 0); got != 1 {
		t.Fatalf("expected one reactivation, got %d", got)
	}
	// ties resolve in insertion order
	if !e.roster[0].Active {
		t.Fatal("expected the first inserted miner to win the tie")
	}
}
