package fundlist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/simaogato/goldflow-backend/internal/domain"
)

// Client implements domain.FundLister against the QDII listing site's
// JSON endpoint. The listing page is requested once per client to
// establish the session before the data endpoint is queried; the
// provided http.Client should carry a cookie jar.
type Client struct {
	BaseURL     string
	ListURL     string
	PageSize    int
	NameFilters []string
	HTTP        *http.Client
	Timeout     time.Duration

	now    func() time.Time
	primed bool
}

// NewClient creates a new fund-listing client
func NewClient(baseURL, listURL string, pageSize int, nameFilters []string, httpClient *http.Client, timeout time.Duration) *Client {
	return &Client{
		BaseURL:     baseURL,
		ListURL:     listURL,
		PageSize:    pageSize,
		NameFilters: nameFilters,
		HTTP:        httpClient,
		Timeout:     timeout,
		now:         time.Now,
	}
}

type listPayload struct {
	Rows []struct {
		Cell fundCell `json:"cell"`
	} `json:"rows"`
}

// fundCell mirrors the listing endpoint's row cells. Numeric fields
// arrive as strings or numbers depending on the column, so they are
// decoded loosely and normalized by toDecimal.
type fundCell struct {
	FundCode  string      `json:"fund_cd"`
	FundName  string      `json:"fund_nm"`
	Price     interface{} `json:"price"`
	UnitNAV   interface{} `json:"unit_nav"`
	PremiumRt interface{} `json:"premium_rt"`
	Volume    interface{} `json:"volume"`
	Turnover  interface{} `json:"turnover"`
}

// Search returns the gold fund records matching one keyword query
// Logic:
//  1. Prime the session with a GET on the listing page (first call only)
//  2. Query the JSON data endpoint with the keyword
//  3. Map rows to FundRecords, keeping only names matching the
//     configured gold filters
func (c *Client) Search(ctx context.Context, keyword string) ([]domain.FundRecord, error) {
	if err := c.prime(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("is_search", "Y")
	params.Set("fund_nm", keyword)
	params.Set("rp", fmt.Sprintf("%d", c.PageSize))

	endpoint := c.ListURL + "?" + params.Encode()

	reqCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing request: %w", err)
	}
	req.Header.Set("Referer", c.BaseURL)
	req.Header.Set("User-Agent", "goldflow/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from listing endpoint", resp.StatusCode)
	}

	var payload listPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed listing payload: %w", err)
	}

	observedAt := c.now()
	records := make([]domain.FundRecord, 0, len(payload.Rows))

	for _, row := range payload.Rows {
		cell := row.Cell
		if !c.matchesFilter(cell.FundName) {
			continue
		}

		records = append(records, domain.FundRecord{
			Code:            cell.FundCode,
			Name:            cell.FundName,
			CurrentPrice:    toDecimal(cell.Price),
			ReportedNAV:     toDecimal(cell.UnitNAV),
			ReportedPremium: toDecimal(cell.PremiumRt),
			Volume:          toDecimal(cell.Volume),
			Turnover:        toDecimal(cell.Turnover),
			ObservedAt:      observedAt,
		})
	}

	return records, nil
}

// prime establishes the session by fetching the listing page once
func (c *Client) prime(ctx context.Context) error {
	if c.primed {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("User-Agent", "goldflow/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d priming session", resp.StatusCode)
	}

	c.primed = true
	return nil
}

// matchesFilter reports whether the fund name carries one of the
// configured gold keywords. An empty filter list accepts everything.
func (c *Client) matchesFilter(name string) bool {
	if len(c.NameFilters) == 0 {
		return true
	}
	for _, keyword := range c.NameFilters {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// toDecimal normalizes a loosely typed cell value; anything unusable
// becomes zero, mirroring how absent listing columns are reported
func toDecimal(v interface{}) decimal.Decimal {
	switch value := v.(type) {
	case float64:
		return decimal.NewFromFloat(value)
	case string:
		if value == "" || value == "-" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(strings.TrimSuffix(value, "%"))
		if err != nil {
			log.Debug().Str("value", value).Msg("unparseable listing cell, using zero")
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
