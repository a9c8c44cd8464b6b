package bot

import (
	"context"
	"os"
	"time"

	"smartstudio/internal/clock"
	"smartstudio/internal/config"
	"smartstudio/internal/dialog"
	"smartstudio/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tgService domain.TelegramService
	config    *config.Config
	sessions  domain.SessionManager
	dialog    *dialog.Controller
	bookings  domain.BookingService
	repo      domain.Repository
	clk       clock.Clock
	metrics   *Metrics
	logger    *zerolog.Logger
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	sessions domain.SessionManager,
	dialogController *dialog.Controller,
	bookingService domain.BookingService,
	repo domain.Repository,
	clk clock.Clock,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	if clk == nil {
		clk = clock.Studio{}
	}

	return &Bot{
		tgService: tgService,
		config:    config,
		sessions:  sessions,
		dialog:    dialogController,
		bookings:  bookingService,
		repo:      repo,
		clk:       clk,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		if update.Message == nil || update.Message.From == nil {
			return
		}

		userID := update.Message.From.ID
		if userID == 0 {
			return
		}

		if b.metrics != nil {
			b.metrics.MessagesProcessed.Inc()
		}

		if !b.isManager(userID) {
			allowed, err := b.sessions.CheckRateLimit(updateCtx, userID, b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
			if err != nil {
				l.Error().Err(err).Int64("user_id", userID).Msg("Rate limit check failed")
			} else if !allowed {
				l.Warn().Int64("user_id", userID).Msg("Rate limit exceeded")
				b.sendMessage(update.Message.Chat.ID, "⚠️ Pesan kamu terlalu banyak. Tunggu sebentar ya.")
				return
			}
		}

		b.handleMessage(updateCtx, update)
	})
}

func (b *Bot) isManager(userID int64) bool {
	for _, managerID := range b.config.Managers {
		if userID == managerID {
			return true
		}
	}
	return false
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
