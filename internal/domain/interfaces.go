package domain

import (
	"context"
	"time"

	"smartstudio/internal/loyalty"
	"smartstudio/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Repository is the persistence contract for the studio schedule.
type Repository interface {
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	RescheduleBookingWithLock(ctx context.Context, id int64, newDate string, newHour int, newPrice float64) error
	DeleteBooking(ctx context.Context, id int64) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookingsForDate(ctx context.Context, date string) ([]models.Booking, error)
	ListBookingSlots(ctx context.Context, date string, excludeID int64) ([]models.BookingSlot, error)
	FindBookingsByNameLike(ctx context.Context, pattern string) ([]models.Booking, error)
	SumDurationByPhone(ctx context.Context, phone string) (int, error)
	HourlyOccupancy(ctx context.Context, date string) (map[int]int, error)
	Stats(ctx context.Context) (*models.StudioStats, error)

	ListEquipmentNames(ctx context.Context) ([]string, error)
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	AddEquipment(ctx context.Context, name string) error

	CreateCourse(ctx context.Context, course *models.Course) error
	ListCourses(ctx context.Context) ([]models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error

	RecordAudit(ctx context.Context, action, details string) error
	ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// StateRepository stores per-conversation drafts.
type StateRepository interface {
	GetSession(ctx context.Context, userID int64) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// SessionManager is the service-level view of StateRepository.
type SessionManager interface {
	GetSession(ctx context.Context, userID int64) (*models.Session, error)
	SaveSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// BookingService is the scheduling engine consumed by the dialogue
// controller, the bot admin commands, and the HTTP API.
type BookingService interface {
	FinalizeBooking(ctx context.Context, draft *models.Draft) (*models.Receipt, error)
	CommitReschedule(ctx context.Context, bookingID int64, newDate string, newHour int) (*models.Booking, error)
	HasConflict(ctx context.Context, date string, startHour, duration int, excludeID int64) (bool, error)
	FindLatestBookingByName(ctx context.Context, name string) (*models.Booking, error)
	EquipmentNames(ctx context.Context) ([]string, error)
	LevelForPhone(ctx context.Context, phone string) (loyalty.Level, int, error)
	Occupancy(ctx context.Context, date string) (map[int]int, error)
	BookingsForDate(ctx context.Context, date string) ([]models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.StudioStats, error)
}

// EventPublisher fans booking lifecycle events out in-process.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SheetsClient mirrors bookings into a spreadsheet.
type SheetsClient interface {
	UpsertBooking(ctx context.Context, booking *models.Booking) error
	DeleteBookingRow(ctx context.Context, bookingID int64) error
}

// SyncWorker schedules spreadsheet mirror tasks.
type SyncWorker interface {
	EnqueueUpsert(ctx context.Context, booking *models.Booking) error
	EnqueueDelete(ctx context.Context, bookingID int64) error
}

// TelegramSender is the raw bot API surface the service layer needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// TelegramService wraps the bot API surface used by handlers.
type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
