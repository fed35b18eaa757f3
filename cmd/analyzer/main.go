package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simaogato/goldflow-backend/internal/adapter/cache"
	"github.com/simaogato/goldflow-backend/internal/adapter/fundlist"
	"github.com/simaogato/goldflow-backend/internal/adapter/pricesource"
	"github.com/simaogato/goldflow-backend/internal/adapter/report"
	"github.com/simaogato/goldflow-backend/internal/config"
	"github.com/simaogato/goldflow-backend/internal/domain"
	"github.com/simaogato/goldflow-backend/internal/usecase/goldprice"
	"github.com/simaogato/goldflow-backend/internal/usecase/valuation"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var configPath string
	var outputDir string

	rootCmd := &cobra.Command{
		Use:   "analyzer",
		Short: "Run one QDII gold fund valuation and arbitrage signal cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.Output.Dir = outputDir
			}
			return runOnce(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config overlay")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for CSV output")

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("analysis cycle failed")
		os.Exit(1)
	}
}

// runOnce wires the adapters into the use cases and runs a single
// synchronous analysis cycle
func runOnce(ctx context.Context, cfg config.Config) error {
	timeout := cfg.HTTPTimeout()
	httpClient := &http.Client{}

	// 1. Gold price and FX source chain, fronted by the file cache
	quoteCache := cache.NewFileQuoteCache(cfg.Cache.Path)

	providers := []domain.GoldPriceProvider{
		pricesource.NewSpotProvider(cfg.Gold.SpotURL, httpClient, timeout, cfg.Gold.PerturbStdDev),
		pricesource.NewHistoryProvider("futures", cfg.Gold.ChartURL, cfg.Gold.FuturesSymbol, cfg.Gold.WindowDays, httpClient, timeout),
		pricesource.NewHistoryProvider("alternate", cfg.Gold.ChartURL, cfg.Gold.AlternateSymbol, cfg.Gold.WindowDays, httpClient, timeout),
	}

	rateProviders := []domain.RateProvider{
		pricesource.NewRESTRateProvider("fx-primary", cfg.FX.PrimaryURL, "CNY", httpClient, timeout),
		pricesource.NewRESTRateProvider("fx-secondary", cfg.FX.SecondaryURL, "CNY", httpClient, timeout),
		pricesource.NewChartRateProvider(cfg.FX.ChartURL, cfg.FX.HistorySymbol, httpClient, timeout),
	}

	chain := goldprice.NewChain(
		quoteCache,
		providers,
		pricesource.NewSimulatedProvider(decimal.NewFromFloat(cfg.Gold.BaselinePrice), cfg.Gold.PerturbStdDev),
		rateProviders,
		decimal.NewFromFloat(cfg.FX.FallbackRate),
		cfg.CacheTTL(),
	)

	log.Info().Msg("fetching gold price and FX data")
	snapshot := chain.FetchSnapshot(ctx)

	// 2. Fund listing: one search per keyword, merged and deduplicated
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}
	lister := fundlist.NewClient(
		cfg.FundList.BaseURL,
		cfg.FundList.ListURL,
		cfg.FundList.PageSize,
		cfg.FundList.NameFilters,
		&http.Client{Jar: jar},
		timeout,
	)

	log.Info().Strs("keywords", cfg.FundList.Keywords).Msg("fetching fund listings")
	lists := make([][]domain.FundRecord, 0, len(cfg.FundList.Keywords))
	for _, keyword := range cfg.FundList.Keywords {
		records, err := lister.Search(ctx, keyword)
		if err != nil {
			log.Warn().Err(err).Str("keyword", keyword).Msg("fund search failed, continuing with remaining keywords")
			continue
		}
		lists = append(lists, records)
	}
	funds := domain.MergeFundLists(lists...)

	if len(funds) == 0 {
		log.Warn().Msg("no funds found, nothing to evaluate")
	}

	// 3. Valuation
	engine := valuation.NewEngine(
		decimal.NewFromFloat(cfg.Signal.BuyThreshold),
		decimal.NewFromFloat(cfg.Signal.SellThreshold),
	)
	results := engine.EvaluateAll(funds, snapshot.GoldReturnTotal)
	stats := engine.SummaryStats(results)

	// 4. Reports
	printer := report.NewConsolePrinter(os.Stdout)
	printer.PrintSnapshot(snapshot)
	printer.PrintResults(results, stats)

	writer := report.NewCSVWriter(cfg.Output.Dir)
	if path, err := writer.WriteAnalysis(results); err != nil {
		log.Warn().Err(err).Msg("failed to write analysis csv")
	} else {
		log.Info().Str("path", path).Msg("analysis csv written")
	}
	if path, err := writer.WriteGoldSnapshot(snapshot); err != nil {
		log.Warn().Err(err).Msg("failed to write gold snapshot csv")
	} else {
		log.Info().Str("path", path).Msg("gold snapshot csv written")
	}

	return nil
}
