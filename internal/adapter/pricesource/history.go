package pricesource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

// HistoryProvider fetches a multi-day daily close history for one
// instrument from a chart endpoint and extracts the last three
// business-day closes as current/T-1/T-2. The requested calendar
// window (>=10 days) is wide enough to guarantee at least three
// business days after weekend rows are discarded; when the endpoint
// still returns fewer closes, T-1 and T-2 collapse to the nearest
// available point.
//
// The same implementation serves the futures contract and the
// alternate instrument; only the symbol differs.
type HistoryProvider struct {
	ProviderName string
	ChartURL     string
	Symbol       string
	WindowDays   int
	Client       *http.Client
	Timeout      time.Duration
}

// NewHistoryProvider creates a new HistoryProvider instance
func NewHistoryProvider(name, chartURL, symbol string, windowDays int, client *http.Client, timeout time.Duration) *HistoryProvider {
	return &HistoryProvider{
		ProviderName: name,
		ChartURL:     chartURL,
		Symbol:       symbol,
		WindowDays:   windowDays,
		Client:       client,
		Timeout:      timeout,
	}
}

// Name identifies the provider
func (p *HistoryProvider) Name() string {
	return p.ProviderName
}

type chartPayload struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// FetchPrices returns a triple built from the last three business-day
// closes in the history window
func (p *HistoryProvider) FetchPrices(ctx context.Context) (domain.PriceTriple, error) {
	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=%dd",
		p.ChartURL, url.PathEscape(p.Symbol), p.WindowDays)

	var payload chartPayload
	if err := getJSON(ctx, p.Client, endpoint, p.Timeout, &payload); err != nil {
		return domain.PriceTriple{}, err
	}

	closes, err := p.businessDayCloses(payload)
	if err != nil {
		return domain.PriceTriple{}, err
	}

	current := closes[len(closes)-1]
	t1 := current
	if len(closes) >= 2 {
		t1 = closes[len(closes)-2]
	}
	t2 := t1
	if len(closes) >= 3 {
		t2 = closes[len(closes)-3]
	}

	return domain.PriceTriple{
		Current: current,
		T1:      t1,
		T2:      t2,
		Source:  p.Name(),
	}, nil
}

// businessDayCloses flattens the chart payload into dated closes,
// discarding weekend rows and rows without a usable close
func (p *HistoryProvider) businessDayCloses(payload chartPayload) ([]domain.PricePoint, error) {
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart payload for %s carries no result", p.Symbol)
	}

	result := payload.Chart.Result[0]
	rawCloses := result.Indicators.Quote[0].Close

	closes := make([]domain.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(rawCloses) || rawCloses[i] == nil || *rawCloses[i] <= 0 {
			continue
		}

		day := dateOnly(time.Unix(ts, 0).UTC())
		if !isBusinessDay(day) {
			continue
		}

		closes = append(closes, domain.PricePoint{
			Price: decimal.NewFromFloat(*rawCloses[i]),
			Date:  day,
		})
	}

	if len(closes) == 0 {
		return nil, fmt.Errorf("chart payload for %s carries no business-day close", p.Symbol)
	}

	return closes, nil
}
