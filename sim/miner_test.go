package sim

import (
	"math"
	"testing"
)

func testMiner(cfg *Config, hashRate float64, seed uint64) *Miner {
	return newMiner(0, hashRate, 0, cfg, NewSource(seed))
}

func TestAttemptMineBelowNetworkFloor(t *testing.T) {
	cfg := DefaultConfig()
	net := newNetworkState(&cfg)
	m := testMiner(&cfg, 0.02, 3)

	// The aggregate passed in sums below the network floor; the lottery must
	// still be finite and use the floored denominator.
	m.AttemptMine(0.5, net, &cfg)

	want := m.HashRate / cfg.MinNetworkHashRate
	if math.IsNaN(m.ExpectedBlocks) || math.IsInf(m.ExpectedBlocks, 0) {
		t.Fatal("non-finite lottery probability")
	}
	if m.ExpectedBlocks != want {
		t.Fatalf("expected probability %f, got %f", want, m.ExpectedBlocks)
	}
	if want < 0 || want > 1 {
		t.Fatalf("probability %f outside [0, 1]", want)
	}
}

func TestAttemptMineCreditsReward(t *testing.T) {
	cfg := DefaultConfig()
	net := newNetworkState(&cfg)
	net.Price = 4

	m := testMiner(&cfg, 10, 5)
	// hash rate equals the aggregate, so the draw always wins
	if !m.AttemptMine(10, net, &cfg) {
		t.Fatal("expected guaranteed block find")
	}
	if m.RewardBalance != net.BlockReward*net.Price {
		t.Fatalf("expected balance %f, got %f", net.BlockReward*net.Price, m.RewardBalance)
	}
	if m.BlocksFound != 1 {
		t.Fatalf("expected one found block, got %d", m.BlocksFound)
	}
}

func TestAdaptHashRateNudges(t *testing.T) {
	cfg := DefaultConfig()
	net := newNetworkState(&cfg)

	for _, tt := range []struct {
		name             string
		previous, price  float64
		expectMultiplier float64
	}{
		{"Up", 100, 110, cfg.HashRateStepUp},
		{"Down", 100, 90, cfg.HashRateStepDown},
		{"WithinBand", 100, 102, 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			net.PreviousPrice = tt.previous
			net.Price = tt.price
			m := testMiner(&cfg, 1, 9)
			m.adaptHashRate(net, &cfg)
			if want := 1 * tt.expectMultiplier; m.HashRate != want {
				t.Fatalf("expected hash rate %f, got %f", want, m.HashRate)
			}
		})
	}
}

func TestAdaptHashRateClamps(t *testing.T) {
	cfg := DefaultConfig()
	net := newNetworkState(&cfg)
	net.PreviousPrice = 100
	net.Price = 200

	m := testMiner(&cfg, cfg.MaxHashRate, 11)
	m.adaptHashRate(net, &cfg)
	if m.HashRate != cfg.MaxHashRate {
		t.Fatalf("hash rate %f escaped upper bound %f", m.HashRate, cfg.MaxHashRate)
	}

	net.Price = 50
	m.HashRate = cfg.MinHashRate
	m.adaptHashRate(net, &cfg)
	if m.HashRate != cfg.MinHashRate {
		t.Fatalf("hash rate %f escaped lower bound %f", m.HashRate, cfg.MinHashRate)
	}
}

func TestDeactivationRejectedAtFloor(t *testing.T) {
	cfg := DefaultConfig()
	net := newNetworkState(&cfg)
	net.Price = 5

	m := testMiner(&cfg, 1, 13)
	m.DormantPrice = 10 // relapse reference from a previous dormancy
	m.RewardBalance = 0 // below any profitability threshold

	if m.maybeDeactivate(net, &cfg, cfg.PopulationFloor) {
		t.Fatal("deactivation must be rejected at the population floor")
	}
	if !m.Active {
		t.Fatal("miner flipped inactive despite rejection")
	}

	if !m.maybeDeactivate(net, &cfg, cfg.PopulationFloor+1) {
		t.Fatal("deactivation expected above the floor")
	}
	if m.Active {
		t.Fatal("miner still active after deactivation")
	}
	if m.DormantPrice != net.Price {
		t.Fatalf("dormant price %f does not reflect deactivation price %f", m.DormantPrice, net.Price)
	}
}

func TestDeactivationRequiresRelapse(t *testing.T) {
	cfg := DefaultConfig()
	net := newNetworkState(&cfg)

	m := testMiner(&cfg, 1, 17)
	m.DormantPrice = 10
	m.RewardBalance = 0

	// price at the relapse bound, not below it
	net.Price = m.DormantPrice * cfg.RelapseFactor
	if m.maybeDeactivate(net, &cfg, 100) {
		t.Fatal("deactivation requires price strictly below the relapse bound")
	}
}

func TestProfitableMinerStaysActive(t *testing.T) {
	cfg := DefaultConfig()
	net := newNetworkState(&cfg)
	net.Price = 2

	m := testMiner(&cfg, 1, 19)
	m.DormantPrice = 100 // relapse condition would pass
	m.RewardBalance = net.BlockReward * net.Price * cfg.ProfitabilityFactor

	if m.maybeDeactivate(net, &cfg, 100) {
		t.Fatal("profitable miner must stay active")
	}
}

func TestReactivationThreshold(t *testing.T) {
	cfg := DefaultConfig()
	net := newNetworkState(&cfg)

	m := testMiner(&cfg, 2, 23)
	m.Active = false
	m.DormantPrice = 10
	m.DaysActive = 40

	net.Price = m.DormantPrice * cfg.ReactivationFactor
	if m.maybeReactivate(net, &cfg) {
		t.Fatal("reactivation requires price strictly above the threshold")
	}

	net.Price = m.DormantPrice*cfg.ReactivationFactor + 0.01
	if !m.maybeReactivate(net, &cfg) {
		t.Fatal("expected reactivation above the threshold")
	}
	if !m.Active {
		t.Fatal("miner not active after reactivation")
	}
	if m.DaysActive != 0 {
		t.Fatal("day counter must restart on reactivation")
	}

	low := math.Max(m.InitialHashRate*cfg.ReactivationJitterMin, cfg.MinHashRate)
	high := math.Max(m.InitialHashRate*cfg.ReactivationJitterMax, cfg.MinHashRate)
	if m.HashRate < low || m.HashRate > high {
		t.Fatalf("reactivated hash rate %f outside jitter window [%f, %f]", m.HashRate, low, high)
	}
}
