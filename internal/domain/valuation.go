package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Signal represents the arbitrage classification for a single fund
type Signal string

const (
	SignalBuy  Signal = "BUY"  // fund trades materially below model value
	SignalSell Signal = "SELL" // fund trades materially above model value
	SignalHold Signal = "HOLD"
)

// ValuationResult is the outcome of evaluating one fund against the
// realized gold return. Created once per fund per analysis cycle and
// immutable after creation; never written back into the FundRecord.
type ValuationResult struct {
	AnalysisID      uuid.UUID
	Code            string
	Name            string
	ReportedNAV     decimal.Decimal
	ModelNAV        decimal.Decimal
	CurrentPrice    decimal.Decimal
	ReportedPremium decimal.Decimal // fraction (normalized from percent)
	ModelPremium    decimal.Decimal // fraction
	PremiumDelta    decimal.Decimal // ModelPremium - ReportedPremium
	GoldReturn      decimal.Decimal
	Signal          Signal
	ComputedAt      time.Time
}

// Stats summarizes model premiums across an analysis batch
type Stats struct {
	Count      int
	Mean       decimal.Decimal
	Median     decimal.Decimal
	StdDev     decimal.Decimal // population standard deviation
	Min        decimal.Decimal
	Max        decimal.Decimal
	AtPremium   int // model premium > 0
	AtDiscount  int // model premium < 0
	BuySignals  int
	SellSignals int
}
