package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"smartstudio/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSheets struct {
	upsertCalls int
	deleteCalls int
	err         error
}

func (f *fakeSheets) UpsertBooking(ctx context.Context, b *models.Booking) error {
	f.upsertCalls++
	return f.err
}

func (f *fakeSheets) DeleteBookingRow(ctx context.Context, id int64) error {
	f.deleteCalls++
	return f.err
}

func newTestWorker(t *testing.T, sheets *fakeSheets, redisClient *redis.Client) *SheetsWorker {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return NewSheetsWorker(sheets, redisClient, RetryPolicy{MaxRetries: 2, InitialDelay: time.Millisecond}, &logger)
}

func TestEnqueueUpsertMemoryQueue(t *testing.T) {
	sheets := &fakeSheets{}
	w := newTestWorker(t, sheets, nil)
	ctx := context.Background()

	booking := &models.Booking{ID: 1, CustomerName: "Budi", Date: "2025-03-11", StartHour: 14, DurationHours: 2}
	require.NoError(t, w.EnqueueUpsert(ctx, booking))

	task := <-w.queue
	assert.Equal(t, TaskUpsert, task.Type)
	assert.Equal(t, int64(1), task.BookingID)

	w.processTask(ctx, task)
	assert.Equal(t, 1, sheets.upsertCalls)
}

func TestEnqueueValidation(t *testing.T) {
	w := newTestWorker(t, &fakeSheets{}, nil)
	ctx := context.Background()

	assert.Error(t, w.EnqueueUpsert(ctx, nil))
	assert.Error(t, w.EnqueueUpsert(ctx, &models.Booking{}))
	assert.Error(t, w.EnqueueDelete(ctx, 0))
}

func TestEnqueuePrefersRedis(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	w := newTestWorker(t, &fakeSheets{}, client)
	ctx := context.Background()

	require.NoError(t, w.EnqueueDelete(ctx, 42))

	// The task must be on the redis list, not the memory channel.
	assert.Equal(t, 0, len(w.queue))
	llen, err := client.LLen(ctx, w.redisQueueKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), llen)

	task, ok := w.tryRedis(ctx)
	require.True(t, ok)
	assert.Equal(t, TaskDelete, task.Type)
	assert.Equal(t, int64(42), task.BookingID)
}

func TestProcessTaskDelete(t *testing.T) {
	sheets := &fakeSheets{}
	w := newTestWorker(t, sheets, nil)

	w.processTask(context.Background(), SyncTask{Type: TaskDelete, BookingID: 7})
	assert.Equal(t, 1, sheets.deleteCalls)
}

func TestExhaustedRetriesGoToDeadLetter(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	sheets := &fakeSheets{err: errors.New("sheets unavailable")}
	w := newTestWorker(t, sheets, client)
	ctx := context.Background()

	task := SyncTask{Type: TaskDelete, BookingID: 9, RetryCount: 1}
	w.processTask(ctx, task)

	llen, err := client.LLen(ctx, w.deadLetterKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), llen)
}

func TestRetryPolicyNextDelay(t *testing.T) {
	p := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
	assert.Equal(t, 4*time.Second, p.NextDelay(3))
	// Clamped at MaxDelay.
	assert.Equal(t, 5*time.Second, p.NextDelay(4))
	// Attempts below 1 behave like the first attempt.
	assert.Equal(t, time.Second, p.NextDelay(0))
}
