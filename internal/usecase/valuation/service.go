package valuation

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Engine computes model NAVs and premium/discount classifications.
// Thresholds are strict comparisons: a premium of exactly the BUY or
// SELL threshold classifies as HOLD.
type Engine struct {
	BuyThreshold  decimal.Decimal // premium strictly below => BUY
	SellThreshold decimal.Decimal // premium strictly above => SELL

	now func() time.Time
}

// NewEngine creates a new Engine instance
func NewEngine(buyThreshold, sellThreshold decimal.Decimal) *Engine {
	return &Engine{
		BuyThreshold:  buyThreshold,
		SellThreshold: sellThreshold,
		now:           time.Now,
	}
}

// ModelNAV rolls the stale reported NAV forward by the realized gold
// return.
// Formula: reportedNAV * (1 + periodReturn)
// Returns zero when reportedNAV is zero.
func (e *Engine) ModelNAV(reportedNAV, periodReturn decimal.Decimal) decimal.Decimal {
	if reportedNAV.IsZero() {
		return decimal.Zero
	}

	return reportedNAV.Mul(one.Add(periodReturn))
}

// Premium calculates the fractional gap between market price and
// model NAV (positive = trading above model value).
// Formula: (currentPrice - modelNAV) / modelNAV
// Returns zero when modelNAV is zero.
func (e *Engine) Premium(currentPrice, modelNAV decimal.Decimal) decimal.Decimal {
	if modelNAV.IsZero() {
		return decimal.Zero
	}

	return currentPrice.Sub(modelNAV).Div(modelNAV)
}

// ClassifySignal maps a premium to an arbitrage signal
func (e *Engine) ClassifySignal(premium decimal.Decimal) domain.Signal {
	switch {
	case premium.LessThan(e.BuyThreshold):
		return domain.SignalBuy
	case premium.GreaterThan(e.SellThreshold):
		return domain.SignalSell
	default:
		return domain.SignalHold
	}
}

// Evaluate produces the valuation result for a single fund
// Logic:
//  1. Validate the record; a malformed record is an error, not a panic
//  2. Roll the reported T-2 NAV forward by the gold return
//  3. Compute the model premium against the live market price
//  4. Normalize the reported premium from percent to a fraction and
//     take the delta: model premium - reported premium
//  5. Classify the arbitrage signal
func (e *Engine) Evaluate(fund domain.FundRecord, goldReturn decimal.Decimal, analysisID uuid.UUID) (domain.ValuationResult, error) {
	if err := fund.Validate(); err != nil {
		return domain.ValuationResult{}, err
	}

	modelNAV := e.ModelNAV(fund.ReportedNAV, goldReturn)
	modelPremium := e.Premium(fund.CurrentPrice, modelNAV)

	reportedPremium := fund.ReportedPremium.Div(hundred)
	premiumDelta := modelPremium.Sub(reportedPremium)

	return domain.ValuationResult{
		AnalysisID:      analysisID,
		Code:            fund.Code,
		Name:            fund.Name,
		ReportedNAV:     fund.ReportedNAV,
		ModelNAV:        modelNAV,
		CurrentPrice:    fund.CurrentPrice,
		ReportedPremium: reportedPremium,
		ModelPremium:    modelPremium,
		PremiumDelta:    premiumDelta,
		GoldReturn:      goldReturn,
		Signal:          e.ClassifySignal(modelPremium),
		ComputedAt:      e.now(),
	}, nil
}

// EvaluateAll evaluates each fund independently and returns the
// results sorted ascending by model premium (most discounted first).
// A record that fails evaluation is logged and skipped; one bad
// record never aborts the batch. The sort is stable: ties keep
// first-seen order.
func (e *Engine) EvaluateAll(funds []domain.FundRecord, goldReturn decimal.Decimal) []domain.ValuationResult {
	analysisID := uuid.New()
	results := make([]domain.ValuationResult, 0, len(funds))

	for _, fund := range funds {
		result, err := e.Evaluate(fund, goldReturn, analysisID)
		if err != nil {
			log.Warn().
				Err(err).
				Str("fund_code", fund.Code).
				Str("fund_name", fund.Name).
				Msg("skipping fund, evaluation failed")
			continue
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ModelPremium.LessThan(results[j].ModelPremium)
	})

	return results
}

// SummaryStats aggregates model premiums across a batch
// Returns zero-value stats for an empty batch (no division by zero).
func (e *Engine) SummaryStats(results []domain.ValuationResult) domain.Stats {
	if len(results) == 0 {
		return domain.Stats{}
	}

	premiums := make([]decimal.Decimal, 0, len(results))
	stats := domain.Stats{Count: len(results)}

	sum := decimal.Zero
	stats.Min = results[0].ModelPremium
	stats.Max = results[0].ModelPremium

	for _, result := range results {
		p := result.ModelPremium
		premiums = append(premiums, p)
		sum = sum.Add(p)

		if p.LessThan(stats.Min) {
			stats.Min = p
		}
		if p.GreaterThan(stats.Max) {
			stats.Max = p
		}
		if p.IsPositive() {
			stats.AtPremium++
		}
		if p.IsNegative() {
			stats.AtDiscount++
		}

		switch result.Signal {
		case domain.SignalBuy:
			stats.BuySignals++
		case domain.SignalSell:
			stats.SellSignals++
		}
	}

	count := decimal.NewFromInt(int64(stats.Count))
	stats.Mean = sum.Div(count)
	stats.Median = median(premiums)
	stats.StdDev = populationStdDev(premiums, stats.Mean)

	return stats
}

// median returns the middle value of the premiums (the mean of the
// two middle values for an even count)
func median(premiums []decimal.Decimal) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(premiums))
	copy(sorted, premiums)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

// populationStdDev computes the population standard deviation of the
// premiums. The square root goes through float64; premium magnitudes
// are small fractions so the precision loss is immaterial.
func populationStdDev(premiums []decimal.Decimal, mean decimal.Decimal) decimal.Decimal {
	variance := decimal.Zero
	for _, p := range premiums {
		diff := p.Sub(mean)
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.Div(decimal.NewFromInt(int64(len(premiums))))

	return decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
}
