package pricesource

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

// SimulatedSource is the name tag that marks fabricated triples
const SimulatedSource = "simulated"

// SimulatedProvider fabricates a full price triple from a fixed
// baseline price plus two independent small-percentage daily-change
// draws. It is the last resort when every live source has failed; its
// output is tagged Simulated so downstream consumers can distinguish
// confidence level, and it must never be written to the cache.
type SimulatedProvider struct {
	Baseline decimal.Decimal
	StdDev   float64

	rng *rand.Rand
	now func() time.Time
}

// NewSimulatedProvider creates a new SimulatedProvider instance
func NewSimulatedProvider(baseline decimal.Decimal, stdDev float64) *SimulatedProvider {
	return &SimulatedProvider{
		Baseline: baseline,
		StdDev:   stdDev,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
}

// Name identifies the provider
func (p *SimulatedProvider) Name() string {
	return SimulatedSource
}

// FetchPrices fabricates a triple; it cannot fail
func (p *SimulatedProvider) FetchPrices(_ context.Context) (domain.PriceTriple, error) {
	t2 := p.Baseline
	t1 := p.step(t2)
	current := p.step(t1)

	today := dateOnly(p.now())
	t1Date := previousBusinessDay(today)
	t2Date := previousBusinessDay(t1Date)

	return domain.PriceTriple{
		Current:   domain.PricePoint{Price: current, Date: today},
		T1:        domain.PricePoint{Price: t1, Date: t1Date},
		T2:        domain.PricePoint{Price: t2, Date: t2Date},
		Source:    p.Name(),
		Simulated: true,
	}, nil
}

// step applies one independent daily-change draw to price
func (p *SimulatedProvider) step(price decimal.Decimal) decimal.Decimal {
	draw := p.rng.NormFloat64() * p.StdDev
	return price.Mul(decimal.NewFromFloat(1 + draw))
}
