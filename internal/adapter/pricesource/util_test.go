package pricesource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreviousBusinessDay(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			name: "Monday walks back to Friday",
			from: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), // Monday
			want: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), // Friday
		},
		{
			name: "Tuesday walks back to Monday",
			from: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Midweek walks back one day",
			from: time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), // Thursday
			want: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, previousBusinessDay(tt.from))
		})
	}
}

func TestPreviousBusinessDay_TwoStepsFromMonday(t *testing.T) {
	// Monday -> Friday -> Thursday
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	t1 := previousBusinessDay(monday)
	t2 := previousBusinessDay(t1)
	assert.Equal(t, time.Friday, t1.Weekday())
	assert.Equal(t, time.Thursday, t2.Weekday())
}

func TestIsBusinessDay(t *testing.T) {
	assert.True(t, isBusinessDay(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))  // Wednesday
	assert.False(t, isBusinessDay(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)))  // Saturday
	assert.False(t, isBusinessDay(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)))  // Sunday
}
