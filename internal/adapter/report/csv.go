package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

// analysisHeader is the stable column contract for downstream
// consumers; names must not change.
var analysisHeader = []string{
	"fund_code",
	"fund_name",
	"nav_t2",
	"estimated_nav_current",
	"current_price",
	"premium_t1",
	"premium_current",
	"premium_change",
	"gold_return_total",
	"arbitrage_signal",
	"analysis_time",
}

var goldHeader = []string{
	"date",
	"gold_price_current",
	"gold_price_t1",
	"gold_price_t2",
	"gold_return_total",
	"exchange_rate",
	"update_time",
}

// CSVWriter flattens analysis output into timestamped CSV files
type CSVWriter struct {
	Dir string

	now func() time.Time
}

// NewCSVWriter creates a new CSVWriter instance
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{
		Dir: dir,
		now: time.Now,
	}
}

// WriteAnalysis writes one CSV row per valuation result and returns
// the file path
func (w *CSVWriter) WriteAnalysis(results []domain.ValuationResult) (string, error) {
	path := filepath.Join(w.Dir, fmt.Sprintf("analysis_%s.csv", w.now().Format("20060102_150405")))

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Code,
			r.Name,
			r.ReportedNAV.String(),
			r.ModelNAV.String(),
			r.CurrentPrice.String(),
			r.ReportedPremium.String(),
			r.ModelPremium.String(),
			r.PremiumDelta.String(),
			r.GoldReturn.String(),
			string(r.Signal),
			r.ComputedAt.Format("2006-01-02 15:04:05"),
		})
	}

	if err := w.writeFile(path, analysisHeader, rows); err != nil {
		return "", err
	}
	return path, nil
}

// WriteGoldSnapshot writes the one-row gold market snapshot and
// returns the file path
func (w *CSVWriter) WriteGoldSnapshot(snapshot domain.MarketSnapshot) (string, error) {
	path := filepath.Join(w.Dir, fmt.Sprintf("gold_data_%s.csv", w.now().Format("20060102_150405")))

	row := []string{
		snapshot.Prices.Current.Date.Format("2006-01-02"),
		snapshot.Prices.Current.Price.String(),
		snapshot.Prices.T1.Price.String(),
		snapshot.Prices.T2.Price.String(),
		snapshot.GoldReturnTotal.String(),
		snapshot.ExchangeRate.String(),
		snapshot.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	if err := w.writeFile(path, goldHeader, [][]string{row}); err != nil {
		return "", err
	}
	return path, nil
}

// writeFile creates the output directory if needed and writes the
// header plus rows
func (w *CSVWriter) writeFile(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}

	writer.Flush()
	return writer.Error()
}
