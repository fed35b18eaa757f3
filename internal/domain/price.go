package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint represents a single reference price on a calendar date
type PricePoint struct {
	Price decimal.Decimal `json:"price"`
	Date  time.Time       `json:"date"`
}

// Usable reports whether the point can participate in a return
// calculation. A non-positive price is treated as unusable rather
// than an error.
func (p PricePoint) Usable() bool {
	return p.Price.GreaterThan(decimal.Zero)
}

// PriceTriple holds the reference price for the current period and the
// two preceding business days. All three slots are always populated:
// under degraded fallback T1/T2 may duplicate an earlier point, but
// the triple is never partial.
type PriceTriple struct {
	Current PricePoint `json:"current"`
	T1      PricePoint `json:"t1"`
	T2      PricePoint `json:"t2"`

	// Source identifies the provider that produced the triple.
	Source string `json:"source"`

	// Simulated is true when the triple was fabricated because every
	// live source failed. Downstream consumers use it to distinguish
	// confidence level; simulated triples are never cached.
	Simulated bool `json:"simulated,omitempty"`
}

// CachedQuote is the last successfully fetched live triple together
// with the wall-clock time it was fetched. It is superseded (never
// merged) by the next live fetch.
type CachedQuote struct {
	Triple    PriceTriple
	FetchedAt time.Time
	Source    string
}

// MarketSnapshot bundles everything one analysis cycle needs from the
// commodity side: the gold price triple, the USD/CNY exchange rate and
// the total gold return from T-2 to current.
type MarketSnapshot struct {
	Prices          PriceTriple
	ExchangeRate    decimal.Decimal
	GoldReturnTotal decimal.Decimal
	UpdatedAt       time.Time
}
