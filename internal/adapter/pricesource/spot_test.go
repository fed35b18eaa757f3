package pricesource

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpotProvider(url string) *SpotProvider {
	p := NewSpotProvider(url, http.DefaultClient, 2*time.Second, 0.01)
	p.rng = rand.New(rand.NewSource(1))
	p.now = func() time.Time {
		return time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC) // a Monday
	}
	return p
}

func TestSpotProvider_FetchPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Gold","price":2042.35,"symbol":"XAU","updatedAt":"2024-01-08T10:00:00Z"}`))
	}))
	defer server.Close()

	p := newTestSpotProvider(server.URL)
	triple, err := p.FetchPrices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "spot", triple.Source)
	assert.False(t, triple.Simulated)
	assert.InDelta(t, 2042.35, triple.Current.Price.InexactFloat64(), 1e-9)

	// Synthesized points stay close to the live price (~1% draws)
	assert.InDelta(t, 2042.35, triple.T1.Price.InexactFloat64(), 2042.35*0.1)
	assert.InDelta(t, 2042.35, triple.T2.Price.InexactFloat64(), 2042.35*0.1)
	assert.True(t, triple.T1.Usable())
	assert.True(t, triple.T2.Usable())

	// Monday: T-1 is the prior Friday, T-2 the prior Thursday
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), triple.Current.Date)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), triple.T1.Date)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), triple.T2.Date)
}

func TestSpotProvider_Non2xxIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := newTestSpotProvider(server.URL)
	_, err := p.FetchPrices(context.Background())
	assert.Error(t, err)
}

func TestSpotProvider_MalformedPayloadIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	p := newTestSpotProvider(server.URL)
	_, err := p.FetchPrices(context.Background())
	assert.Error(t, err)
}

func TestSpotProvider_NonPositivePriceIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price":0}`))
	}))
	defer server.Close()

	p := newTestSpotProvider(server.URL)
	_, err := p.FetchPrices(context.Background())
	assert.Error(t, err)
}
