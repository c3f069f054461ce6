package sim

// PriceProcess produces the exogenous asset price: a drifting gaussian
// random walk with occasional discrete shocks, clamped to configured bounds.
type PriceProcess struct {
	cfg *Config
	net *NetworkState
	rng *Source
}

func newPriceProcess(cfg *Config, net *NetworkState, rng *Source) *PriceProcess {
	return &PriceProcess{
		cfg: cfg,
		net: net,
		rng: rng,
	}
}

// Advance draws the next price, appends it to the price history and rotates
// the previous/current pair. Always finite and bounded, never errors.
func (p *PriceProcess) Advance() float64 {
	last := p.net.Price

	walk := p.rng.Gauss(0, p.cfg.PriceVolatility*last)
	if len(p.cfg.ShockMagnitudes) > 0 && p.rng.Float64() < p.cfg.ShockProbability {
		walk += p.rng.Pick(p.cfg.ShockMagnitudes) * last
	}

	next := clampFloat(last*(1+p.cfg.PriceDrift)+walk, p.cfg.PriceFloor, p.cfg.PriceCeiling)

	p.net.PreviousPrice = p.net.Price
	p.net.Price = next
	p.net.priceHistory = append(p.net.priceHistory, next)
	return next
}
