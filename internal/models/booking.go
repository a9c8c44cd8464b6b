package models

import "time"

type Booking struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	Date          string    `json:"date"` // YYYY-MM-DD, studio-local
	StartHour     int       `json:"start_hour"`
	DurationHours int       `json:"duration_hours"`
	Equipment     string    `json:"equipment"` // comma-joined display string
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EndHour returns the first hour after the booked interval.
func (b *Booking) EndHour() int {
	return b.StartHour + b.DurationHours
}

// BookingSlot is the minimal projection used for conflict checks.
type BookingSlot struct {
	ID            int64
	StartHour     int
	DurationHours int
}

type Equipment struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Course struct {
	ID           int64     `json:"id"`
	StudentName  string    `json:"student_name"`
	Instrument   string    `json:"instrument"`
	ScheduleDay  string    `json:"schedule_day"`
	ScheduleTime string    `json:"schedule_time"`
	Duration     int       `json:"duration"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuditEntry struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Receipt is the structured payload handed to the presentation layer
// after a successful booking.
type Receipt struct {
	BookingID     int64   `json:"booking_id"`
	CustomerName  string  `json:"customer_name"`
	Phone         string  `json:"phone"`
	Date          string  `json:"date"`
	StartHour     int     `json:"start_hour"`
	DurationHours int     `json:"duration_hours"`
	Equipment     string  `json:"equipment"`
	Price         float64 `json:"price"`
	IsPeak        bool    `json:"is_peak"`
	ContactLink   string  `json:"contact_link"`
}

// StudioStats aggregates numbers for the admin overview.
type StudioStats struct {
	Revenue  float64 `json:"revenue"`
	Bookings int     `json:"bookings"`
	Students int     `json:"students"`
}
