package database

import "errors"

var (
	// ErrSlotTaken means the requested interval overlaps an existing
	// booking. Losing a concurrent race surfaces as this same error.
	ErrSlotTaken = errors.New("time slot already booked")

	// ErrNotFound means no booking matched the given id or name.
	ErrNotFound = errors.New("booking not found")
)
