// Package schedule holds the pure interval and pricing rules for the
// single studio timeline.
package schedule

// Studio operating hours. Bookings start no earlier than OpenHour and
// no later than CloseHour; intervals are half-open on the hour grid.
const (
	OpenHour  = 8
	CloseHour = 23
)

// BaseRate is the hourly rental price in rupiah.
const BaseRate = 50000

// Peak hours attract a 20% surcharge on the whole booking.
const (
	PeakStartHour = 18
	PeakEndHour   = 22
	PeakFactor    = 1.2
)

// Overlaps reports whether [aStart, aStart+aDur) and
// [bStart, bStart+bDur) intersect. Adjacent intervals do not overlap.
func Overlaps(aStart, aDur, bStart, bDur int) bool {
	return aStart < bStart+bDur && aStart+aDur > bStart
}

// TouchesPeak reports whether any occupied hour of
// [startHour, startHour+duration) falls in the peak set.
func TouchesPeak(startHour, duration int) bool {
	return Overlaps(startHour, duration, PeakStartHour, PeakEndHour-PeakStartHour+1)
}

// ComputePrice returns the total price and whether the peak surcharge
// applied. The surcharge is all-or-nothing for the whole booking, not
// prorated per hour.
func ComputePrice(startHour, duration int) (float64, bool) {
	total := float64(BaseRate * duration)
	if TouchesPeak(startHour, duration) {
		return total * PeakFactor, true
	}
	return total, false
}

// ValidStartHour reports whether an extracted hour may open a booking.
func ValidStartHour(h int) bool {
	return h >= OpenHour && h <= CloseHour
}
