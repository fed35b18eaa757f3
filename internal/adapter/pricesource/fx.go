package pricesource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// RESTRateProvider looks an FX rate up from a latest-rates REST
// endpoint returning a rates map keyed by currency code.
type RESTRateProvider struct {
	ProviderName string
	URL          string
	Currency     string
	Client       *http.Client
	Timeout      time.Duration
}

// NewRESTRateProvider creates a new RESTRateProvider instance
func NewRESTRateProvider(name, endpoint, currency string, client *http.Client, timeout time.Duration) *RESTRateProvider {
	return &RESTRateProvider{
		ProviderName: name,
		URL:          endpoint,
		Currency:     currency,
		Client:       client,
		Timeout:      timeout,
	}
}

// Name identifies the provider
func (p *RESTRateProvider) Name() string {
	return p.ProviderName
}

type ratesPayload struct {
	Rates map[string]float64 `json:"rates"`
}

// FetchRate returns the rate for the configured currency
func (p *RESTRateProvider) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	var payload ratesPayload
	if err := getJSON(ctx, p.Client, p.URL, p.Timeout, &payload); err != nil {
		return decimal.Zero, err
	}

	rate, ok := payload.Rates[p.Currency]
	if !ok || rate <= 0 {
		return decimal.Zero, fmt.Errorf("rates payload carries no usable %s rate", p.Currency)
	}

	return decimal.NewFromFloat(rate), nil
}

// ChartRateProvider derives an FX rate from the last usable daily
// close of a historical-quote chart endpoint. Last in the chain before
// the fixed fallback constant.
type ChartRateProvider struct {
	ChartURL string
	Symbol   string
	Client   *http.Client
	Timeout  time.Duration
}

// NewChartRateProvider creates a new ChartRateProvider instance
func NewChartRateProvider(chartURL, symbol string, client *http.Client, timeout time.Duration) *ChartRateProvider {
	return &ChartRateProvider{
		ChartURL: chartURL,
		Symbol:   symbol,
		Client:   client,
		Timeout:  timeout,
	}
}

// Name identifies the provider
func (p *ChartRateProvider) Name() string {
	return "fx-history"
}

// FetchRate returns the most recent usable close for the FX symbol
func (p *ChartRateProvider) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=5d",
		p.ChartURL, url.PathEscape(p.Symbol))

	var payload chartPayload
	if err := getJSON(ctx, p.Client, endpoint, p.Timeout, &payload); err != nil {
		return decimal.Zero, err
	}

	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return decimal.Zero, fmt.Errorf("chart payload for %s carries no result", p.Symbol)
	}

	closes := payload.Chart.Result[0].Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != nil && *closes[i] > 0 {
			return decimal.NewFromFloat(*closes[i]), nil
		}
	}

	return decimal.Zero, fmt.Errorf("chart payload for %s carries no usable close", p.Symbol)
}
