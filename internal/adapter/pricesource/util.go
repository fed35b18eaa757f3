package pricesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// previousBusinessDay steps one day back from t, then keeps stepping
// until the day is neither Saturday nor Sunday. A Monday therefore
// maps to the prior Friday, and walking twice from a Tuesday lands on
// the prior Friday as well. Exchange holidays are not modelled.
func previousBusinessDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// isBusinessDay reports whether t falls on a weekday
func isBusinessDay(t time.Time) bool {
	return t.Weekday() != time.Saturday && t.Weekday() != time.Sunday
}

// dateOnly truncates t to midnight UTC so price points carry a
// calendar date rather than a timestamp
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// getJSON performs a GET bounded by timeout and decodes the 2xx JSON
// body into out. A timeout, a non-2xx status or a malformed payload is
// returned as an error for the fallback chain to inspect.
func getJSON(ctx context.Context, client *http.Client, url string, timeout time.Duration, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "goldflow/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed payload from %s: %w", url, err)
	}

	return nil
}
