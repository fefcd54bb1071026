package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMeters(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
		delta    float64
	}{
		{
			name:     "Same point",
			lat1:     6.5244, lon1: 3.3792,
			lat2:     6.5244, lon2: 3.3792,
			expected: 0,
			delta:    0.001,
		},
		{
			name: "100m north of site",
			lat1: 6.5244, lon1: 3.3792,
			lat2: 6.5253, lon2: 3.3792,
			expected: 100,
			delta:    2,
		},
		{
			name: "600m north of site",
			lat1: 6.5244, lon1: 3.3792,
			lat2: 6.5298, lon2: 3.3792,
			expected: 600,
			delta:    2,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			expected: 343500,
			delta:    1500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := HaversineMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expected, d, tt.delta)
		})
	}
}

func TestHaversineMetersSymmetric(t *testing.T) {
	forward := HaversineMeters(6.5244, 3.3792, 51.5074, -0.1278)
	backward := HaversineMeters(51.5074, -0.1278, 6.5244, 3.3792)
	assert.InDelta(t, forward, backward, 0.0001)
}

func TestWithinCheckInWindow(t *testing.T) {
	scheduled := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		expected bool
	}{
		{
			name:     "Exactly on time",
			now:      scheduled,
			expected: true,
		},
		{
			name:     "29 minutes early",
			now:      scheduled.Add(-29 * time.Minute),
			expected: true,
		},
		{
			name:     "Exactly 30 minutes early",
			now:      scheduled.Add(-30 * time.Minute),
			expected: true,
		},
		{
			name:     "31 minutes early",
			now:      scheduled.Add(-31 * time.Minute),
			expected: false,
		},
		{
			name:     "29 minutes late",
			now:      scheduled.Add(29 * time.Minute),
			expected: true,
		},
		{
			name:     "Exactly 30 minutes late",
			now:      scheduled.Add(30 * time.Minute),
			expected: true,
		},
		{
			name:     "31 minutes late",
			now:      scheduled.Add(31 * time.Minute),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WithinCheckInWindow(tt.now, scheduled))
		})
	}
}

func TestHoursBetween(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		end      time.Time
		expected float64
	}{
		{
			name:     "Full day shift",
			end:      start.Add(8 * time.Hour),
			expected: 8,
		},
		{
			name:     "Half hour",
			end:      start.Add(30 * time.Minute),
			expected: 0.5,
		},
		{
			name:     "Rounds to two decimals",
			end:      start.Add(100 * time.Minute),
			expected: 1.67,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HoursBetween(start, tt.end))
		})
	}
}
