package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/goldflow-backend/internal/adapter/cache"
	"github.com/simaogato/goldflow-backend/internal/adapter/fundlist"
	"github.com/simaogato/goldflow-backend/internal/adapter/pricesource"
	"github.com/simaogato/goldflow-backend/internal/adapter/report"
	"github.com/simaogato/goldflow-backend/internal/domain"
	"github.com/simaogato/goldflow-backend/internal/usecase/goldprice"
	"github.com/simaogato/goldflow-backend/internal/usecase/valuation"
)

// chartJSON produces a history payload whose last three business
// closes yield a 2.47% total gold return
func chartJSON(t *testing.T) []byte {
	t.Helper()

	days := []time.Time{
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), // Monday
		time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	closes := []float64{2000, 2030, 2049.4}

	timestamps := make([]int64, len(days))
	for i, d := range days {
		timestamps[i] = d.Unix()
	}

	payload := map[string]interface{}{
		"chart": map[string]interface{}{
			"result": []interface{}{
				map[string]interface{}{
					"timestamp": timestamps,
					"indicators": map[string]interface{}{
						"quote": []interface{}{
							map[string]interface{}{"close": closes},
						},
					},
				},
			},
		},
	}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

const fundListJSON = `{
  "rows": [
    {"id": "518800", "cell": {
      "fund_cd": "518800", "fund_nm": "国泰黄金ETF",
      "price": "4.123", "unit_nav": "4.089", "premium_rt": "0.54",
      "volume": "1234567", "turnover": "5088888"
    }},
    {"id": "159934", "cell": {
      "fund_cd": "159934", "fund_nm": "易方达黄金ETF",
      "price": "4.300", "unit_nav": "4.055", "premium_rt": "0.49",
      "volume": "987654", "turnover": "4022222"
    }}
  ]
}`

func TestFullAnalysisCycle(t *testing.T) {
	ctx := context.Background()

	futuresHits := 0
	mux := http.NewServeMux()
	// Spot source is down for the whole test: the chain must advance
	mux.HandleFunc("/spot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/chart/", func(w http.ResponseWriter, r *http.Request) {
		futuresHits++
		w.Write(chartJSON(t))
	})
	mux.HandleFunc("/fx", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"CNY":7.19}}`))
	})
	mux.HandleFunc("/data/qdii/", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/data/qdii/qdii_list/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fundListJSON))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	timeout := 2 * time.Second
	httpClient := server.Client()
	cachePath := filepath.Join(t.TempDir(), "gold_price_cache.json")
	quoteCache := cache.NewFileQuoteCache(cachePath)

	chain := goldprice.NewChain(
		quoteCache,
		[]domain.GoldPriceProvider{
			pricesource.NewSpotProvider(server.URL+"/spot", httpClient, timeout, 0.01),
			pricesource.NewHistoryProvider("futures", server.URL+"/chart", "GC=F", 10, httpClient, timeout),
		},
		pricesource.NewSimulatedProvider(decimal.NewFromFloat(2020.0), 0.01),
		[]domain.RateProvider{
			pricesource.NewRESTRateProvider("fx-primary", server.URL+"/fx", "CNY", httpClient, timeout),
		},
		decimal.NewFromFloat(7.2),
		24*time.Hour,
	)

	snapshot := chain.FetchSnapshot(ctx)

	assert.False(t, snapshot.Prices.Simulated)
	assert.Equal(t, "futures", snapshot.Prices.Source)
	assert.InDelta(t, 0.0247, snapshot.GoldReturnTotal.InexactFloat64(), 1e-9)
	assert.True(t, snapshot.ExchangeRate.Equal(decimal.NewFromFloat(7.19)))

	// Fund listing, merged across two keyword searches
	lister := fundlist.NewClient(
		server.URL+"/data/qdii/",
		server.URL+"/data/qdii/qdii_list/",
		50,
		[]string{"黄金", "Gold"},
		httpClient,
		timeout,
	)

	byGold, err := lister.Search(ctx, "黄金")
	require.NoError(t, err)
	byName, err := lister.Search(ctx, "Gold")
	require.NoError(t, err)

	funds := domain.MergeFundLists(byGold, byName)
	require.Len(t, funds, 2) // duplicates across keyword searches collapse

	// Valuation
	engine := valuation.NewEngine(decimal.NewFromFloat(-0.01), decimal.NewFromFloat(0.01))
	results := engine.EvaluateAll(funds, snapshot.GoldReturnTotal)
	require.Len(t, results, 2)

	// 518800 trades 1.6% below its model NAV: most discounted first, BUY
	assert.Equal(t, "518800", results[0].Code)
	assert.Equal(t, domain.SignalBuy, results[0].Signal)
	assert.InDelta(t, -0.0160, results[0].ModelPremium.InexactFloat64(), 0.0001)

	// 159934 trades above its rolled-forward NAV
	assert.Equal(t, "159934", results[1].Code)
	assert.Equal(t, domain.SignalSell, results[1].Signal)

	stats := engine.SummaryStats(results)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 1, stats.BuySignals)
	assert.Equal(t, 1, stats.SellSignals)

	// CSV flattening
	writer := report.NewCSVWriter(t.TempDir())
	path, err := writer.WriteAnalysis(results)
	require.NoError(t, err)
	assert.FileExists(t, path)

	// The live fetch populated the cache: a second cycle inside the
	// validity window serves from it without touching the network
	hitsBefore := futuresHits
	second := chain.FetchReferencePrices(ctx)
	assert.Equal(t, snapshot.Prices.Source, second.Source)
	assert.Equal(t, hitsBefore, futuresHits)
}

func TestFullyDegradedCycleStillCompletes(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	timeout := 2 * time.Second
	httpClient := server.Client()
	cachePath := filepath.Join(t.TempDir(), "gold_price_cache.json")

	chain := goldprice.NewChain(
		cache.NewFileQuoteCache(cachePath),
		[]domain.GoldPriceProvider{
			pricesource.NewSpotProvider(server.URL+"/spot", httpClient, timeout, 0.01),
			pricesource.NewHistoryProvider("futures", server.URL+"/chart", "GC=F", 10, httpClient, timeout),
		},
		pricesource.NewSimulatedProvider(decimal.NewFromFloat(2020.0), 0.01),
		[]domain.RateProvider{
			pricesource.NewRESTRateProvider("fx-primary", server.URL+"/fx", "CNY", httpClient, timeout),
		},
		decimal.NewFromFloat(7.2),
		24*time.Hour,
	)

	snapshot := chain.FetchSnapshot(ctx)

	// A fully degraded run still returns a complete, tagged result
	assert.True(t, snapshot.Prices.Simulated)
	assert.True(t, snapshot.Prices.Current.Usable())
	assert.True(t, snapshot.Prices.T1.Usable())
	assert.True(t, snapshot.Prices.T2.Usable())
	assert.True(t, snapshot.ExchangeRate.Equal(decimal.NewFromFloat(7.2)))

	// Simulated data is never cached as if it were live
	assert.NoFileExists(t, cachePath)

	engine := valuation.NewEngine(decimal.NewFromFloat(-0.01), decimal.NewFromFloat(0.01))
	results := engine.EvaluateAll([]domain.FundRecord{
		{Code: "518800", Name: "国泰黄金ETF", CurrentPrice: decimal.NewFromFloat(4.123), ReportedNAV: decimal.NewFromFloat(4.089)},
	}, snapshot.GoldReturnTotal)

	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Signal)
}
