package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// FundRecord represents one QDII gold fund as reported by the
// fund-listing collaborator. It is consumed read-only by the valuation
// engine; ReportedNAV is the "T-2" NAV fixed at last disclosure and
// ReportedPremium is the prior-period premium in percent.
type FundRecord struct {
	Code            string
	Name            string
	CurrentPrice    decimal.Decimal
	ReportedNAV     decimal.Decimal
	ReportedPremium decimal.Decimal // percent, e.g. 0.54 means 0.54%
	Volume          decimal.Decimal
	Turnover        decimal.Decimal
	ObservedAt      time.Time
}

// Validate ensures the record adheres to domain rules
// Returns an error if validation fails
func (f *FundRecord) Validate() error {
	if f.Code == "" {
		return errors.New("fund record must have a code")
	}

	if f.CurrentPrice.IsNegative() {
		return errors.New("fund current price cannot be negative")
	}

	if f.ReportedNAV.IsNegative() {
		return errors.New("fund reported NAV cannot be negative")
	}

	return nil
}

// MergeFundLists folds multiple keyword-search result lists into one
// canonical set, deduplicated by fund code.
// Logic:
//  1. Iterate lists and records in original discovery order
//  2. Keep the first record seen for each code
//  3. Discard later duplicates entirely (no field-by-field merge)
//  4. Records without a code are disqualified from the merged set
func MergeFundLists(lists ...[]FundRecord) []FundRecord {
	seen := make(map[string]struct{})
	merged := make([]FundRecord, 0)

	for _, list := range lists {
		for _, record := range list {
			if record.Code == "" {
				continue
			}
			if _, ok := seen[record.Code]; ok {
				continue
			}
			seen[record.Code] = struct{}{}
			merged = append(merged, record)
		}
	}

	return merged
}
