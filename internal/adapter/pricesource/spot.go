package pricesource

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

// SpotProvider fetches a single live spot price and synthesizes the
// T-1/T-2 points from it. The spot endpoint has no history, so the two
// prior closes are emulated by applying independently drawn gaussian
// perturbations (about 1% standard deviation by default) to stand in
// for typical daily volatility; the candidate dates walk backward over
// weekends.
type SpotProvider struct {
	URL           string
	Client        *http.Client
	Timeout       time.Duration
	PerturbStdDev float64

	rng *rand.Rand
	now func() time.Time
}

// NewSpotProvider creates a new SpotProvider instance
func NewSpotProvider(url string, client *http.Client, timeout time.Duration, perturbStdDev float64) *SpotProvider {
	return &SpotProvider{
		URL:           url,
		Client:        client,
		Timeout:       timeout,
		PerturbStdDev: perturbStdDev,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		now:           time.Now,
	}
}

// Name identifies the provider
func (p *SpotProvider) Name() string {
	return "spot"
}

type spotPayload struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Symbol    string  `json:"symbol"`
	UpdatedAt string  `json:"updatedAt"`
}

// FetchPrices returns a triple built from the live spot price
func (p *SpotProvider) FetchPrices(ctx context.Context) (domain.PriceTriple, error) {
	var payload spotPayload
	if err := getJSON(ctx, p.Client, p.URL, p.Timeout, &payload); err != nil {
		return domain.PriceTriple{}, err
	}

	if payload.Price <= 0 {
		return domain.PriceTriple{}, fmt.Errorf("spot payload carries non-positive price %v", payload.Price)
	}

	current := decimal.NewFromFloat(payload.Price)
	t1 := p.perturb(current)
	t2 := p.perturb(t1)

	today := dateOnly(p.now())
	t1Date := previousBusinessDay(today)
	t2Date := previousBusinessDay(t1Date)

	return domain.PriceTriple{
		Current: domain.PricePoint{Price: current, Date: today},
		T1:      domain.PricePoint{Price: t1, Date: t1Date},
		T2:      domain.PricePoint{Price: t2, Date: t2Date},
		Source:  p.Name(),
	}, nil
}

// perturb applies one independent relative gaussian draw to price
func (p *SpotProvider) perturb(price decimal.Decimal) decimal.Decimal {
	draw := p.rng.NormFloat64() * p.PerturbStdDev
	return price.Mul(decimal.NewFromFloat(1 + draw))
}
