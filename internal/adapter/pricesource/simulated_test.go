package pricesource

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedProvider_FetchPrices(t *testing.T) {
	p := NewSimulatedProvider(decimal.NewFromFloat(2020.0), 0.01)
	p.rng = rand.New(rand.NewSource(1))
	p.now = func() time.Time {
		return time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC) // a Tuesday
	}

	triple, err := p.FetchPrices(context.Background())
	require.NoError(t, err)

	// Tagged so callers can distinguish live from simulated data
	assert.True(t, triple.Simulated)
	assert.Equal(t, SimulatedSource, triple.Source)

	assert.True(t, triple.T2.Price.Equal(decimal.NewFromFloat(2020.0)))
	assert.True(t, triple.T1.Usable())
	assert.True(t, triple.Current.Usable())
	assert.InDelta(t, 2020.0, triple.T1.Price.InexactFloat64(), 2020.0*0.1)
	assert.InDelta(t, 2020.0, triple.Current.Price.InexactFloat64(), 2020.0*0.1)

	// Tuesday: T-1 is Monday, T-2 the prior Friday
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), triple.Current.Date)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), triple.T1.Date)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), triple.T2.Date)
}
