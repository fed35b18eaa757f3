package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the analyzer. All values have
// embedded defaults; a YAML file can overlay them. The signal
// thresholds and the perturbation magnitude are hand-picked constants
// carried over from the strategy, exposed here rather than inferred.
type Config struct {
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`

	Cache    CacheConfig    `yaml:"cache"`
	Gold     GoldConfig     `yaml:"gold"`
	FX       FXConfig       `yaml:"fx"`
	Signal   SignalConfig   `yaml:"signal"`
	FundList FundListConfig `yaml:"fund_list"`
	Output   OutputConfig   `yaml:"output"`
}

// CacheConfig configures the local quote cache file
type CacheConfig struct {
	Path     string `yaml:"path"`
	TTLHours int    `yaml:"ttl_hours"`
}

// GoldConfig configures the gold price source chain
type GoldConfig struct {
	SpotURL         string `yaml:"spot_url"`
	ChartURL        string `yaml:"chart_url"`
	FuturesSymbol   string `yaml:"futures_symbol"`
	AlternateSymbol string `yaml:"alternate_symbol"`

	// WindowDays is the calendar window requested from history
	// providers; wide enough to guarantee three business-day closes
	WindowDays int `yaml:"window_days"`

	// PerturbStdDev is the standard deviation of the relative
	// perturbations used to synthesize T-1/T-2 from a lone spot price
	PerturbStdDev float64 `yaml:"perturb_std_dev"`

	// BaselinePrice seeds the fully simulated triple when every live
	// source fails (USD per ounce)
	BaselinePrice float64 `yaml:"baseline_price"`
}

// FXConfig configures the USD/CNY rate source chain
type FXConfig struct {
	PrimaryURL    string  `yaml:"primary_url"`
	SecondaryURL  string  `yaml:"secondary_url"`
	ChartURL      string  `yaml:"chart_url"`
	HistorySymbol string  `yaml:"history_symbol"`
	FallbackRate  float64 `yaml:"fallback_rate"`
}

// SignalConfig holds the premium thresholds for signal classification
type SignalConfig struct {
	BuyThreshold  float64 `yaml:"buy_threshold"`  // BUY when premium strictly below
	SellThreshold float64 `yaml:"sell_threshold"` // SELL when premium strictly above
}

// FundListConfig configures the fund-listing collaborator client
type FundListConfig struct {
	BaseURL     string   `yaml:"base_url"`
	ListURL     string   `yaml:"list_url"`
	Keywords    []string `yaml:"keywords"`
	NameFilters []string `yaml:"name_filters"`
	PageSize    int      `yaml:"page_size"`
}

// OutputConfig configures where reports are written
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		HTTPTimeoutSeconds: 8,
		Cache: CacheConfig{
			Path:     "data/gold_price_cache.json",
			TTLHours: 24,
		},
		Gold: GoldConfig{
			SpotURL:         "https://api.gold-api.com/price/XAU",
			ChartURL:        "https://query1.finance.yahoo.com/v8/finance/chart",
			FuturesSymbol:   "GC=F",
			AlternateSymbol: "MGC=F",
			WindowDays:      10,
			PerturbStdDev:   0.01,
			BaselinePrice:   2020.0,
		},
		FX: FXConfig{
			PrimaryURL:    "https://api.exchangerate-api.com/v4/latest/USD",
			SecondaryURL:  "https://open.er-api.com/v6/latest/USD",
			ChartURL:      "https://query1.finance.yahoo.com/v8/finance/chart",
			HistorySymbol: "USDCNY=X",
			FallbackRate:  7.2,
		},
		Signal: SignalConfig{
			BuyThreshold:  -0.01,
			SellThreshold: 0.01,
		},
		FundList: FundListConfig{
			BaseURL:     "https://www.jisilu.cn/data/qdii/",
			ListURL:     "https://www.jisilu.cn/data/qdii/qdii_list/",
			Keywords:    []string{"黄金", "金", "Gold"},
			NameFilters: []string{"黄金", "金", "Gold", "GOLD"},
			PageSize:    50,
		},
		Output: OutputConfig{
			Dir: "data",
		},
	}
}

// Load returns the default configuration overlaid with the YAML file
// at path. An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// HTTPTimeout returns the per-call timeout as a duration
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// CacheTTL returns the cache validity window as a duration
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}
