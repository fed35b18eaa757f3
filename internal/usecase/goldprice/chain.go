package goldprice

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

// Chain is the ordered, first-success-wins fallback over gold price
// and FX rate providers, fronted by the best-effort quote cache.
//
// The chain is built for single-process periodic use: cache reads and
// writes are not protected by any cross-process lock. Running parallel
// analysis cycles against the same cache file is a known limitation.
type Chain struct {
	Cache     domain.QuoteCache
	Providers []domain.GoldPriceProvider // ordered live sources
	Simulated domain.GoldPriceProvider   // last resort, never cached

	RateProviders []domain.RateProvider // ordered FX sources
	FallbackRate  decimal.Decimal       // fixed constant, last resort

	CacheTTL time.Duration

	now func() time.Time
}

// NewChain creates a new Chain instance
func NewChain(
	cache domain.QuoteCache,
	providers []domain.GoldPriceProvider,
	simulated domain.GoldPriceProvider,
	rateProviders []domain.RateProvider,
	fallbackRate decimal.Decimal,
	cacheTTL time.Duration,
) *Chain {
	return &Chain{
		Cache:         cache,
		Providers:     providers,
		Simulated:     simulated,
		RateProviders: rateProviders,
		FallbackRate:  fallbackRate,
		CacheTTL:      cacheTTL,
		now:           time.Now,
	}
}

// FetchReferencePrices returns a fully populated gold price triple
// Logic:
//  1. Consult the cache; a quote younger than the TTL is returned
//     verbatim with no network call
//  2. Try each live provider in order; the first success is cached
//     and returned
//  3. If every live source fails, fabricate a simulated triple; it is
//     tagged so callers can tell live from simulated data and it is
//     never written to the cache
//
// A provider error advances to the next source immediately; there is
// no per-source retry.
func (c *Chain) FetchReferencePrices(ctx context.Context) domain.PriceTriple {
	if cached := c.Cache.Load(); cached != nil {
		age := c.now().Sub(cached.FetchedAt)
		if age < c.CacheTTL {
			log.Debug().
				Str("source", cached.Source).
				Dur("age", age).
				Msg("serving gold prices from cache")
			return cached.Triple
		}
	}

	for _, provider := range c.Providers {
		triple, err := provider.FetchPrices(ctx)
		if err != nil {
			log.Warn().
				Err(err).
				Str("provider", provider.Name()).
				Msg("gold price source unavailable, advancing chain")
			continue
		}

		c.Cache.Store(triple, provider.Name())
		return triple
	}

	log.Warn().Msg("all gold price sources failed, using simulated data")

	triple, err := c.Simulated.FetchPrices(ctx)
	if err != nil {
		// The simulated provider draws from fixed constants and
		// cannot fail; guard anyway so the cycle always completes.
		log.Error().Err(err).Msg("simulated price provider failed")
		return domain.PriceTriple{Source: c.Simulated.Name(), Simulated: true}
	}

	return triple
}

// FetchFXRate returns the USD/CNY exchange rate from the first rate
// provider that succeeds, falling back to a fixed constant when every
// provider fails.
func (c *Chain) FetchFXRate(ctx context.Context) decimal.Decimal {
	for _, provider := range c.RateProviders {
		rate, err := provider.FetchRate(ctx)
		if err != nil {
			log.Warn().
				Err(err).
				Str("provider", provider.Name()).
				Msg("fx rate source unavailable, advancing chain")
			continue
		}
		return rate
	}

	log.Warn().
		Str("rate", c.FallbackRate.String()).
		Msg("all fx rate sources failed, using fallback constant")
	return c.FallbackRate
}

// FetchSnapshot fetches the gold price triple and the FX rate, and
// derives the total gold return from T-2 to current.
func (c *Chain) FetchSnapshot(ctx context.Context) domain.MarketSnapshot {
	triple := c.FetchReferencePrices(ctx)
	rate := c.FetchFXRate(ctx)

	return domain.MarketSnapshot{
		Prices:          triple,
		ExchangeRate:    rate,
		GoldReturnTotal: PeriodReturn(triple.T2, triple.Current),
		UpdatedAt:       c.now(),
	}
}
