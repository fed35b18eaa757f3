package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

var consoleHundred = decimal.NewFromInt(100)

// ConsolePrinter renders the analysis cycle for a human reader
type ConsolePrinter struct {
	Out io.Writer
}

// NewConsolePrinter creates a new ConsolePrinter instance
func NewConsolePrinter(out io.Writer) *ConsolePrinter {
	return &ConsolePrinter{Out: out}
}

// PrintSnapshot renders the gold market snapshot
func (p *ConsolePrinter) PrintSnapshot(snapshot domain.MarketSnapshot) {
	fmt.Fprintln(p.Out, "Gold market snapshot")

	source := snapshot.Prices.Source
	if snapshot.Prices.Simulated {
		source += " (SIMULATED DATA)"
	}
	fmt.Fprintf(p.Out, "  source: %s\n", source)
	fmt.Fprintf(p.Out, "  T-2:     %s (%s)\n", snapshot.Prices.T2.Price.StringFixed(2), snapshot.Prices.T2.Date.Format("2006-01-02"))
	fmt.Fprintf(p.Out, "  T-1:     %s (%s)\n", snapshot.Prices.T1.Price.StringFixed(2), snapshot.Prices.T1.Date.Format("2006-01-02"))
	fmt.Fprintf(p.Out, "  current: %s (%s)\n", snapshot.Prices.Current.Price.StringFixed(2), snapshot.Prices.Current.Date.Format("2006-01-02"))
	fmt.Fprintf(p.Out, "  total return: %s%%\n", asPercent(snapshot.GoldReturnTotal))
	fmt.Fprintf(p.Out, "  USD/CNY: %s\n\n", snapshot.ExchangeRate.StringFixed(4))
}

// PrintResults renders the per-fund table followed by the summary
func (p *ConsolePrinter) PrintResults(results []domain.ValuationResult, stats domain.Stats) {
	tw := tabwriter.NewWriter(p.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tPRICE\tMODEL NAV\tPREMIUM\tSIGNAL")

	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\t%s\n",
			r.Code,
			r.Name,
			r.CurrentPrice.StringFixed(3),
			r.ModelNAV.StringFixed(3),
			asPercent(r.ModelPremium),
			r.Signal,
		)
	}
	tw.Flush()

	if stats.Count == 0 {
		fmt.Fprintln(p.Out, "\nno funds evaluated")
		return
	}

	fmt.Fprintln(p.Out, "\nSummary")
	fmt.Fprintf(p.Out, "  funds:        %d\n", stats.Count)
	fmt.Fprintf(p.Out, "  mean premium: %s%%\n", asPercent(stats.Mean))
	fmt.Fprintf(p.Out, "  at premium:   %d\n", stats.AtPremium)
	fmt.Fprintf(p.Out, "  at discount:  %d\n", stats.AtDiscount)
	fmt.Fprintf(p.Out, "  buy signals:  %d\n", stats.BuySignals)
	fmt.Fprintf(p.Out, "  sell signals: %d\n", stats.SellSignals)
}

// asPercent renders a fraction as a two-decimal percentage
func asPercent(fraction decimal.Decimal) string {
	return fraction.Mul(consoleHundred).StringFixed(2)
}
