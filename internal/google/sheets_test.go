package google

import (
	"testing"

	"smartstudio/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCellMatchesID(t *testing.T) {
	assert.True(t, cellMatchesID(float64(42), 42))
	assert.True(t, cellMatchesID("42", 42))
	assert.False(t, cellMatchesID(float64(41), 42))
	assert.False(t, cellMatchesID("not a number", 42))
	assert.False(t, cellMatchesID(nil, 42))
}

func TestBookingRowValues(t *testing.T) {
	b := &models.Booking{
		ID:            7,
		CustomerName:  "Budi",
		Phone:         "081234567890",
		Date:          "2025-03-11",
		StartHour:     19,
		DurationHours: 2,
		Equipment:     "Gitar Elektrik",
		Price:         120000,
		Status:        models.StatusConfirmed,
	}

	row := bookingRowValues(b)
	assert.Len(t, row, 9)
	assert.Equal(t, int64(7), row[0])
	assert.Equal(t, "Budi", row[1])
	assert.Equal(t, "2025-03-11", row[3])
	assert.Equal(t, 120000.0, row[7])
}

func TestRowCache(t *testing.T) {
	s := &SheetsService{rowCache: make(map[int64]int)}

	_, ok := s.cachedRow(1)
	assert.False(t, ok)

	s.setCachedRow(1, 5)
	row, ok := s.cachedRow(1)
	assert.True(t, ok)
	assert.Equal(t, 5, row)

	s.deleteCachedRow(1)
	_, ok = s.cachedRow(1)
	assert.False(t, ok)
}
