package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smartstudio/internal/domain"
	"smartstudio/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TaskUpsert = "upsert"
	TaskDelete = "delete"
)

// SyncTask is one unit of spreadsheet mirror work. Tasks are
// self-describing so they survive a round trip through redis.
type SyncTask struct {
	Type       string          `json:"type"`
	BookingID  int64           `json:"booking_id"`
	Booking    *models.Booking `json:"booking,omitempty"`
	RetryCount int             `json:"retry_count"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SheetsWorker drains the sync queue and applies each task to the
// spreadsheet mirror. Redis carries the queue when available; an
// in-memory channel is the fallback so booking commits never block on
// the mirror.
type SheetsWorker struct {
	sheets        domain.SheetsClient
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan SyncTask
	redisQueueKey string
	deadLetterKey string
	logger        *zerolog.Logger
}

func NewSheetsWorker(sheets domain.SheetsClient, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &SheetsWorker{
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan SyncTask, models.WorkerQueueSize),
		redisQueueKey: "sheets:queue",
		deadLetterKey: "sheets:deadletter",
		logger:        logger,
	}
}

// EnqueueUpsert schedules a booking append-or-update on the mirror.
func (w *SheetsWorker) EnqueueUpsert(ctx context.Context, booking *models.Booking) error {
	if booking == nil || booking.ID == 0 {
		return errors.New("booking id is required")
	}
	return w.enqueue(ctx, SyncTask{
		Type:      TaskUpsert,
		BookingID: booking.ID,
		Booking:   booking,
		CreatedAt: time.Now(),
	})
}

// EnqueueDelete schedules removal of a booking row from the mirror.
func (w *SheetsWorker) EnqueueDelete(ctx context.Context, bookingID int64) error {
	if bookingID == 0 {
		return errors.New("booking id is required")
	}
	return w.enqueue(ctx, SyncTask{
		Type:      TaskDelete,
		BookingID: bookingID,
		CreatedAt: time.Now(),
	})
}

func (w *SheetsWorker) enqueue(ctx context.Context, task SyncTask) error {
	// Redis first for durability across restarts.
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("redis push failed, falling back to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		return fmt.Errorf("sync queue full, dropping %s for booking %d", task.Type, task.BookingID)
	}
}

// Start runs the drain loop until ctx is done.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("sheets worker started")
	defer w.logger.Info().Msg("sheets worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.processTask(ctx, task)
		default:
			if task, ok := w.tryRedis(ctx); ok {
				w.processTask(ctx, task)
				continue
			}
			select {
			case <-ctx.Done():
				return
			case task := <-w.queue:
				w.processTask(ctx, task)
			case <-time.After(time.Second):
			}
		}
	}
}

func (w *SheetsWorker) tryRedis(ctx context.Context) (SyncTask, bool) {
	if w.redis == nil {
		return SyncTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled) {
			w.logger.Error().Err(err).Msg("redis BRPOP error")
		}
		return SyncTask{}, false
	}
	if len(res) != 2 {
		return SyncTask{}, false
	}
	var task SyncTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("failed to decode redis task")
		return SyncTask{}, false
	}
	return task, true
}

func (w *SheetsWorker) processTask(ctx context.Context, task SyncTask) {
	if err := w.applyTask(ctx, task); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}
}

func (w *SheetsWorker) applyTask(ctx context.Context, task SyncTask) error {
	switch task.Type {
	case TaskUpsert:
		if task.Booking == nil {
			return errors.New("booking payload missing")
		}
		return w.sheets.UpsertBooking(ctx, task.Booking)
	case TaskDelete:
		return w.sheets.DeleteBookingRow(ctx, task.BookingID)
	default:
		return fmt.Errorf("unknown task type: %s", task.Type)
	}
}

// retryOrFail requeues the task after a backoff delay, or parks it on
// the dead letter list once retries are exhausted.
func (w *SheetsWorker) retryOrFail(ctx context.Context, task SyncTask, cause error) {
	task.RetryCount++
	if task.RetryCount >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(cause).
			Str("task", task.Type).
			Int64("booking_id", task.BookingID).
			Msg("sync task exhausted retries")
		w.pushDeadLetter(ctx, task)
		return
	}

	delay := w.retryPolicy.NextDelay(task.RetryCount)
	w.logger.Warn().Err(cause).
		Str("task", task.Type).
		Int64("booking_id", task.BookingID).
		Int("retry", task.RetryCount).
		Dur("delay", delay).
		Msg("sync task failed, will retry")

	time.AfterFunc(delay, func() {
		if err := w.enqueue(context.Background(), task); err != nil {
			w.logger.Error().Err(err).Int64("booking_id", task.BookingID).Msg("failed to requeue sync task")
		}
	})
}

func (w *SheetsWorker) pushRedis(ctx context.Context, task SyncTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *SheetsWorker) pushDeadLetter(ctx context.Context, task SyncTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to encode deadletter task")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Msg("failed to push deadletter task")
	}
}
