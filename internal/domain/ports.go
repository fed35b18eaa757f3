package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// GoldPriceProvider defines the interface for one commodity price
// source. Expected unavailability (timeout, non-2xx, malformed
// payload) is signalled by the returned error so the fallback chain
// can advance; it is never a panic.
type GoldPriceProvider interface {
	// Name identifies the provider in logs and in PriceTriple.Source
	Name() string

	// FetchPrices returns a fully populated price triple
	FetchPrices(ctx context.Context) (PriceTriple, error)
}

// RateProvider defines the interface for one FX rate source
type RateProvider interface {
	// Name identifies the provider in logs
	Name() string

	// FetchRate returns the USD/CNY exchange rate
	FetchRate(ctx context.Context) (decimal.Decimal, error)
}

// QuoteCache defines the interface for the best-effort quote cache.
// Both operations fail soft: Load returns nil on any read or parse
// error, Store logs and swallows write errors. Caching must never
// block the fetch path.
type QuoteCache interface {
	// Load retrieves the last cached quote, or nil on a miss
	Load() *CachedQuote

	// Store persists a live triple, superseding any previous quote
	Store(triple PriceTriple, source string)
}

// FundLister defines the interface for the fund-listing collaborator
type FundLister interface {
	// Search returns the fund records matching one keyword query
	Search(ctx context.Context, keyword string) ([]FundRecord, error)
}
