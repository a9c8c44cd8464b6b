package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smartstudio/internal/models"
	"smartstudio/internal/schedule"
)

const bookingColumns = `id, customer_name, phone, date, start_hour, duration, equipment, price, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.CustomerName,
		&b.Phone,
		&b.Date,
		&b.StartHour,
		&b.DurationHours,
		&b.Equipment,
		&b.Price,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// slotTakenInTx reports whether the interval clashes with any booking
// on the date, inside the given transaction.
func slotTakenInTx(ctx context.Context, tx *sql.Tx, date string, startHour, duration int, excludeID int64) (bool, error) {
	query := `SELECT id, start_hour, duration FROM bookings WHERE date = ? AND id != ?`
	rows, err := tx.QueryContext(ctx, query, date, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.BookingSlot
		if err := rows.Scan(&s.ID, &s.StartHour, &s.DurationHours); err != nil {
			return false, err
		}
		if schedule.Overlaps(startHour, duration, s.StartHour, s.DurationHours) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// CreateBookingWithLock checks for overlapping intervals and inserts
// in one transaction, so at most one of two racing bookings for the
// same slot can win.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	taken, err := slotTakenInTx(ctx, tx, booking.Date, booking.StartHour, booking.DurationHours, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	now := time.Now()
	query := `INSERT INTO bookings (customer_name, phone, date, start_hour, duration, equipment, price, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, query,
		booking.CustomerName,
		booking.Phone,
		booking.Date,
		booking.StartHour,
		booking.DurationHours,
		booking.Equipment,
		booking.Price,
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return tx.Commit()
}

// RescheduleBookingWithLock moves a booking to a new slot, re-checking
// conflicts (excluding the booking's own interval) inside the same
// transaction as the update.
func (db *DB) RescheduleBookingWithLock(ctx context.Context, id int64, newDate string, newHour int, newPrice float64) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var duration int
	err = tx.QueryRowContext(ctx, `SELECT duration FROM bookings WHERE id = ?`, id).Scan(&duration)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}

	taken, err := slotTakenInTx(ctx, tx, newDate, newHour, duration, id)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET date = ?, start_hour = ?, price = ?, updated_at = ? WHERE id = ?`,
		newDate, newHour, newPrice, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	return tx.Commit()
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) ListBookingsForDate(ctx context.Context, date string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE date = ? ORDER BY start_hour`
	return db.queryBookings(ctx, query, date)
}

// ListBookingSlots returns the minimal interval projection for a date,
// excluding one booking id when excludeID is non-zero.
func (db *DB) ListBookingSlots(ctx context.Context, date string, excludeID int64) ([]models.BookingSlot, error) {
	query := `SELECT id, start_hour, duration FROM bookings WHERE date = ? AND id != ?`
	rows, err := db.db.QueryContext(ctx, query, date, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var slots []models.BookingSlot
	for rows.Next() {
		var s models.BookingSlot
		if err := rows.Scan(&s.ID, &s.StartHour, &s.DurationHours); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// FindBookingsByNameLike matches the customer name as a
// case-insensitive substring, most recent first.
func (db *DB) FindBookingsByNameLike(ctx context.Context, pattern string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_name LIKE ? ORDER BY id DESC`
	return db.queryBookings(ctx, query, "%"+pattern+"%")
}

func (db *DB) SumDurationByPhone(ctx context.Context, phone string) (int, error) {
	var total sql.NullInt64
	err := db.db.QueryRowContext(ctx, `SELECT SUM(duration) FROM bookings WHERE phone = ?`, phone).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum durations: %w", err)
	}
	return int(total.Int64), nil
}

// HourlyOccupancy maps each operating hour of a date to the number of
// bookings covering it.
func (db *DB) HourlyOccupancy(ctx context.Context, date string) (map[int]int, error) {
	slots, err := db.ListBookingSlots(ctx, date, 0)
	if err != nil {
		return nil, err
	}

	occupancy := make(map[int]int, schedule.CloseHour-schedule.OpenHour+1)
	for h := schedule.OpenHour; h <= schedule.CloseHour; h++ {
		occupancy[h] = 0
	}
	for _, s := range slots {
		for h := s.StartHour; h < s.StartHour+s.DurationHours; h++ {
			if _, ok := occupancy[h]; ok {
				occupancy[h]++
			}
		}
	}
	return occupancy, nil
}

func (db *DB) Stats(ctx context.Context) (*models.StudioStats, error) {
	var stats models.StudioStats

	var revenue sql.NullFloat64
	if err := db.db.QueryRowContext(ctx, `SELECT SUM(price) FROM bookings`).Scan(&revenue); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.Revenue = revenue.Float64

	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&stats.Bookings); err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&stats.Students); err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}

	return &stats, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
