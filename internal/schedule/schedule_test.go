package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aDur, bStart, bDur int
		want                       bool
	}{
		{"identical", 10, 2, 10, 2, true},
		{"contained", 10, 4, 11, 1, true},
		{"partial tail", 14, 2, 15, 2, true},
		{"partial head", 15, 2, 14, 2, true},
		{"adjacent after", 10, 2, 12, 2, false},
		{"adjacent before", 12, 2, 10, 2, false},
		{"disjoint", 8, 1, 20, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aDur, tt.bStart, tt.bDur))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bDur, tt.aStart, tt.aDur))
		})
	}
}

func TestComputePrice(t *testing.T) {
	amount, peak := ComputePrice(18, 1)
	assert.Equal(t, 60000.0, amount)
	assert.True(t, peak)

	amount, peak = ComputePrice(10, 3)
	assert.Equal(t, 150000.0, amount)
	assert.False(t, peak)

	// Touching a single peak hour triggers the full surcharge.
	amount, peak = ComputePrice(17, 2)
	assert.Equal(t, 120000.0, amount)
	assert.True(t, peak)

	// Hour 23 is after the peak set.
	amount, peak = ComputePrice(23, 1)
	assert.Equal(t, 50000.0, amount)
	assert.False(t, peak)
}

func TestValidStartHour(t *testing.T) {
	assert.False(t, ValidStartHour(7))
	assert.True(t, ValidStartHour(8))
	assert.True(t, ValidStartHour(23))
	assert.False(t, ValidStartHour(24))
}
