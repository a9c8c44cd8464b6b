package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartstudio/internal/database"
	"smartstudio/internal/domain"
	"smartstudio/internal/events"
	"smartstudio/internal/loyalty"
	"smartstudio/internal/models"
	"smartstudio/internal/schedule"

	"github.com/rs/zerolog"
)

var (
	// ErrDraftIncomplete means FinalizeBooking was handed a draft with
	// a required field still missing.
	ErrDraftIncomplete = errors.New("booking draft is incomplete")
)

// BookingService is the scheduling engine: it owns conflict checks,
// pricing and the write path for bookings.
type BookingService struct {
	repo         domain.Repository
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	contactLink  string
	logger       *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, sheetsWorker domain.SyncWorker, contactLink string, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:         repo,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		contactLink:  contactLink,
		logger:       logger,
	}
}

// FinalizeBooking prices the draft and commits it. The conflict check
// runs inside the repository transaction, so a race between two drafts
// for the same slot resolves to one winner and one ErrSlotTaken.
func (s *BookingService) FinalizeBooking(ctx context.Context, draft *models.Draft) (*models.Receipt, error) {
	if draft.CustomerName == "" || draft.Phone == "" || draft.Date == "" ||
		draft.StartHour == nil || draft.DurationHours == nil {
		return nil, ErrDraftIncomplete
	}

	startHour := *draft.StartHour
	duration := *draft.DurationHours
	price, isPeak := schedule.ComputePrice(startHour, duration)

	booking := &models.Booking{
		CustomerName:  draft.CustomerName,
		Phone:         draft.Phone,
		Date:          draft.Date,
		StartHour:     startHour,
		DurationHours: duration,
		Equipment:     equipmentLabel(draft.Equipment),
		Price:         price,
		Status:        models.StatusConfirmed,
	}

	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		return nil, err
	}

	s.audit(ctx, models.AuditNewBooking,
		fmt.Sprintf("%s (%s) %s jam %d durasi %d jam", booking.CustomerName, booking.Phone, booking.Date, booking.StartHour, booking.DurationHours))
	s.publish(events.EventBookingCreated, booking)
	s.enqueueUpsert(ctx, booking)

	return &models.Receipt{
		BookingID:     booking.ID,
		CustomerName:  booking.CustomerName,
		Phone:         booking.Phone,
		Date:          booking.Date,
		StartHour:     booking.StartHour,
		DurationHours: booking.DurationHours,
		Equipment:     booking.Equipment,
		Price:         booking.Price,
		IsPeak:        isPeak,
		ContactLink:   s.contactLink,
	}, nil
}

// CommitReschedule moves an existing booking to a new slot, repricing
// it for the new hours. The duration never changes on reschedule.
func (s *BookingService) CommitReschedule(ctx context.Context, bookingID int64, newDate string, newHour int) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	newPrice, _ := schedule.ComputePrice(newHour, booking.DurationHours)
	if err := s.repo.RescheduleBookingWithLock(ctx, bookingID, newDate, newHour, newPrice); err != nil {
		return nil, err
	}

	booking.Date = newDate
	booking.StartHour = newHour
	booking.Price = newPrice

	s.audit(ctx, models.AuditReschedule,
		fmt.Sprintf("ID %d (%s) pindah ke %s jam %d", booking.ID, booking.CustomerName, newDate, newHour))
	s.publish(events.EventBookingRescheduled, booking)
	s.enqueueUpsert(ctx, booking)

	return booking, nil
}

// HasConflict reports whether the interval clashes with an existing
// booking. It is advisory: the authoritative check runs inside the
// write transaction.
func (s *BookingService) HasConflict(ctx context.Context, date string, startHour, duration int, excludeID int64) (bool, error) {
	slots, err := s.repo.ListBookingSlots(ctx, date, excludeID)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if schedule.Overlaps(startHour, duration, slot.StartHour, slot.DurationHours) {
			return true, nil
		}
	}
	return false, nil
}

// FindLatestBookingByName returns the most recent booking whose
// customer name contains the given fragment.
func (s *BookingService) FindLatestBookingByName(ctx context.Context, name string) (*models.Booking, error) {
	bookings, err := s.repo.FindBookingsByNameLike(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, database.ErrNotFound
	}
	return &bookings[0], nil
}

func (s *BookingService) EquipmentNames(ctx context.Context) ([]string, error) {
	return s.repo.ListEquipmentNames(ctx)
}

// LevelForPhone sums all hours ever booked under the phone number and
// maps them onto a loyalty level.
func (s *BookingService) LevelForPhone(ctx context.Context, phone string) (loyalty.Level, int, error) {
	hours, err := s.repo.SumDurationByPhone(ctx, phone)
	if err != nil {
		return loyalty.Level{}, 0, err
	}
	return loyalty.LevelFor(hours), hours, nil
}

func (s *BookingService) Occupancy(ctx context.Context, date string) (map[int]int, error) {
	return s.repo.HourlyOccupancy(ctx, date)
}

func (s *BookingService) BookingsForDate(ctx context.Context, date string) ([]models.Booking, error) {
	return s.repo.ListBookingsForDate(ctx, date)
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, models.AuditDeleteBooking,
		fmt.Sprintf("ID %d (%s) %s jam %d", booking.ID, booking.CustomerName, booking.Date, booking.StartHour))
	s.publish(events.EventBookingDeleted, booking)
	if s.sheetsWorker != nil {
		if err := s.sheetsWorker.EnqueueDelete(ctx, id); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", id).Msg("failed to enqueue sheets delete")
		}
	}
	return nil
}

func (s *BookingService) Stats(ctx context.Context) (*models.StudioStats, error) {
	return s.repo.Stats(ctx)
}

func (s *BookingService) audit(ctx context.Context, action, details string) {
	if err := s.repo.RecordAudit(ctx, action, details); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to record audit entry")
	}
}

func (s *BookingService) publish(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID:     booking.ID,
		CustomerName:  booking.CustomerName,
		Phone:         booking.Phone,
		Date:          booking.Date,
		StartHour:     booking.StartHour,
		DurationHours: booking.DurationHours,
		Price:         booking.Price,
		Status:        booking.Status,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}

func (s *BookingService) enqueueUpsert(ctx context.Context, booking *models.Booking) {
	if s.sheetsWorker == nil {
		return
	}
	if err := s.sheetsWorker.EnqueueUpsert(ctx, booking); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("failed to enqueue sheets sync")
	}
}

// equipmentLabel collapses the selected gear into a display string,
// dropping duplicates and capitalizing each word.
func equipmentLabel(gear []string) string {
	if len(gear) == 0 {
		return models.DefaultEquipmentLabel
	}

	seen := make(map[string]bool, len(gear))
	var parts []string
	for _, g := range gear {
		key := strings.ToLower(strings.TrimSpace(g))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		parts = append(parts, titleCase(key))
	}
	if len(parts) == 0 {
		return models.DefaultEquipmentLabel
	}
	return strings.Join(parts, ", ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
