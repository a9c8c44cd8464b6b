package service

import (
	"context"
	"io"
	"testing"

	"smartstudio/internal/database"
	"smartstudio/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateBookingWithLock(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockRepo) RescheduleBookingWithLock(ctx context.Context, id int64, d string, h int, p float64) error {
	return m.Called(ctx, id, d, h, p).Error(0)
}
func (m *mockRepo) DeleteBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) ListBookingsForDate(ctx context.Context, date string) ([]models.Booking, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockRepo) ListBookingSlots(ctx context.Context, date string, excludeID int64) ([]models.BookingSlot, error) {
	args := m.Called(ctx, date, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingSlot), args.Error(1)
}
func (m *mockRepo) FindBookingsByNameLike(ctx context.Context, pattern string) ([]models.Booking, error) {
	args := m.Called(ctx, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockRepo) SumDurationByPhone(ctx context.Context, phone string) (int, error) {
	args := m.Called(ctx, phone)
	return args.Int(0), args.Error(1)
}
func (m *mockRepo) HourlyOccupancy(ctx context.Context, date string) (map[int]int, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}
func (m *mockRepo) Stats(ctx context.Context) (*models.StudioStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudioStats), args.Error(1)
}
func (m *mockRepo) ListEquipmentNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *mockRepo) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Equipment), args.Error(1)
}
func (m *mockRepo) AddEquipment(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *mockRepo) CreateCourse(ctx context.Context, c *models.Course) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockRepo) ListCourses(ctx context.Context) ([]models.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}
func (m *mockRepo) DeleteCourse(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) RecordAudit(ctx context.Context, action, details string) error {
	return m.Called(ctx, action, details).Error(0)
}
func (m *mockRepo) ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditEntry), args.Error(1)
}

type mockSyncWorker struct {
	mock.Mock
}

func (m *mockSyncWorker) EnqueueUpsert(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockSyncWorker) EnqueueDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func intPtr(v int) *int { return &v }

func newTestService(repo *mockRepo, worker *mockSyncWorker) *BookingService {
	logger := zerolog.New(io.Discard)
	return NewBookingService(repo, nil, worker, "https://wa.me/6281234567890", &logger)
}

func completeDraft() *models.Draft {
	return &models.Draft{
		Mode:          models.ModeBooking,
		CustomerName:  "Budi",
		Phone:         "081234567890",
		Date:          "2025-03-11",
		StartHour:     intPtr(19),
		DurationHours: intPtr(2),
		Equipment:     []string{"gitar elektrik", "bass", "gitar elektrik"},
	}
}

func TestFinalizeBooking(t *testing.T) {
	repo := new(mockRepo)
	worker := new(mockSyncWorker)
	svc := newTestService(repo, worker)
	ctx := context.Background()

	repo.On("CreateBookingWithLock", ctx, mock.AnythingOfType("*models.Booking")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Booking).ID = 7
		}).Return(nil).Once()
	repo.On("RecordAudit", ctx, models.AuditNewBooking, mock.AnythingOfType("string")).Return(nil).Once()
	worker.On("EnqueueUpsert", ctx, mock.AnythingOfType("*models.Booking")).Return(nil).Once()

	receipt, err := svc.FinalizeBooking(ctx, completeDraft())
	require.NoError(t, err)
	assert.Equal(t, int64(7), receipt.BookingID)
	assert.Equal(t, "Gitar Elektrik, Bass", receipt.Equipment)
	// 2 peak hours at 50000 * 1.2
	assert.Equal(t, 120000.0, receipt.Price)
	assert.True(t, receipt.IsPeak)
	assert.Equal(t, "https://wa.me/6281234567890", receipt.ContactLink)

	repo.AssertExpectations(t)
	worker.AssertExpectations(t)
}

func TestFinalizeBookingOffPeakDefaultGear(t *testing.T) {
	repo := new(mockRepo)
	worker := new(mockSyncWorker)
	svc := newTestService(repo, worker)
	ctx := context.Background()

	draft := completeDraft()
	draft.StartHour = intPtr(10)
	draft.DurationHours = intPtr(3)
	draft.Equipment = nil

	repo.On("CreateBookingWithLock", ctx, mock.AnythingOfType("*models.Booking")).Return(nil).Once()
	repo.On("RecordAudit", ctx, models.AuditNewBooking, mock.AnythingOfType("string")).Return(nil).Once()
	worker.On("EnqueueUpsert", ctx, mock.AnythingOfType("*models.Booking")).Return(nil).Once()

	receipt, err := svc.FinalizeBooking(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEquipmentLabel, receipt.Equipment)
	assert.Equal(t, 150000.0, receipt.Price)
	assert.False(t, receipt.IsPeak)
}

func TestFinalizeBookingIncompleteDraft(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo, new(mockSyncWorker))

	draft := completeDraft()
	draft.Phone = ""

	_, err := svc.FinalizeBooking(context.Background(), draft)
	assert.ErrorIs(t, err, ErrDraftIncomplete)
	repo.AssertNotCalled(t, "CreateBookingWithLock")
}

func TestFinalizeBookingSlotTaken(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo, new(mockSyncWorker))
	ctx := context.Background()

	repo.On("CreateBookingWithLock", ctx, mock.AnythingOfType("*models.Booking")).
		Return(database.ErrSlotTaken).Once()

	_, err := svc.FinalizeBooking(ctx, completeDraft())
	assert.ErrorIs(t, err, database.ErrSlotTaken)
	repo.AssertNotCalled(t, "RecordAudit")
}

func TestCommitReschedule(t *testing.T) {
	repo := new(mockRepo)
	worker := new(mockSyncWorker)
	svc := newTestService(repo, worker)
	ctx := context.Background()

	existing := &models.Booking{
		ID:            5,
		CustomerName:  "Budi",
		Date:          "2025-03-11",
		StartHour:     10,
		DurationHours: 2,
		Price:         100000,
	}
	repo.On("GetBooking", ctx, int64(5)).Return(existing, nil).Once()
	// New slot touches the peak window, so the price is repriced at 1.2x.
	repo.On("RescheduleBookingWithLock", ctx, int64(5), "2025-03-12", 20, 120000.0).Return(nil).Once()
	repo.On("RecordAudit", ctx, models.AuditReschedule, mock.AnythingOfType("string")).Return(nil).Once()
	worker.On("EnqueueUpsert", ctx, mock.AnythingOfType("*models.Booking")).Return(nil).Once()

	moved, err := svc.CommitReschedule(ctx, 5, "2025-03-12", 20)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", moved.Date)
	assert.Equal(t, 20, moved.StartHour)
	assert.Equal(t, 120000.0, moved.Price)

	repo.AssertExpectations(t)
}

func TestCommitRescheduleNotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo, new(mockSyncWorker))
	ctx := context.Background()

	repo.On("GetBooking", ctx, int64(404)).Return(nil, database.ErrNotFound).Once()

	_, err := svc.CommitReschedule(ctx, 404, "2025-03-12", 20)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestHasConflict(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo, new(mockSyncWorker))
	ctx := context.Background()

	slots := []models.BookingSlot{{ID: 1, StartHour: 14, DurationHours: 2}}
	repo.On("ListBookingSlots", ctx, "2025-03-11", int64(0)).Return(slots, nil)

	conflict, err := svc.HasConflict(ctx, "2025-03-11", 15, 2, 0)
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = svc.HasConflict(ctx, "2025-03-11", 16, 2, 0)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestFindLatestBookingByName(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo, new(mockSyncWorker))
	ctx := context.Background()

	bookings := []models.Booking{{ID: 9, CustomerName: "Budi"}, {ID: 3, CustomerName: "Budi"}}
	repo.On("FindBookingsByNameLike", ctx, "budi").Return(bookings, nil).Once()

	found, err := svc.FindLatestBookingByName(ctx, "budi")
	require.NoError(t, err)
	assert.Equal(t, int64(9), found.ID)

	repo.On("FindBookingsByNameLike", ctx, "joko").Return([]models.Booking{}, nil).Once()
	_, err = svc.FindLatestBookingByName(ctx, "joko")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestLevelForPhone(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo, new(mockSyncWorker))
	ctx := context.Background()

	repo.On("SumDurationByPhone", ctx, "081234567890").Return(23, nil).Once()

	level, hours, err := svc.LevelForPhone(ctx, "081234567890")
	require.NoError(t, err)
	assert.Equal(t, 23, hours)
	assert.Equal(t, "Pro Musician", level.Name)
}

func TestDeleteBooking(t *testing.T) {
	repo := new(mockRepo)
	worker := new(mockSyncWorker)
	svc := newTestService(repo, worker)
	ctx := context.Background()

	booking := &models.Booking{ID: 4, CustomerName: "Budi", Date: "2025-03-11", StartHour: 14}
	repo.On("GetBooking", ctx, int64(4)).Return(booking, nil).Once()
	repo.On("DeleteBooking", ctx, int64(4)).Return(nil).Once()
	repo.On("RecordAudit", ctx, models.AuditDeleteBooking, mock.AnythingOfType("string")).Return(nil).Once()
	worker.On("EnqueueDelete", ctx, int64(4)).Return(nil).Once()

	require.NoError(t, svc.DeleteBooking(ctx, 4))
	repo.AssertExpectations(t)
	worker.AssertExpectations(t)
}

func TestEquipmentLabel(t *testing.T) {
	tests := []struct {
		name string
		gear []string
		want string
	}{
		{"empty", nil, models.DefaultEquipmentLabel},
		{"single", []string{"drum set"}, "Drum Set"},
		{"dedup", []string{"bass", "Bass", "bass"}, "Bass"},
		{"multiple", []string{"gitar elektrik", "mic wireless"}, "Gitar Elektrik, Mic Wireless"},
		{"blank entries", []string{" ", ""}, models.DefaultEquipmentLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, equipmentLabel(tt.gear))
		})
	}
}
