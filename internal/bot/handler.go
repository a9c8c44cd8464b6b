package bot

import (
	"context"
	"strings"

	"smartstudio/internal/clock"
	"smartstudio/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const welcomeText = `🎸 Halo! Selamat datang di SmartStudio.

Ketik aja mau ngapain, contohnya:
• "booking besok jam 5 sore selama 2 jam"
• "mau ganti jadwal"
• "jam rame hari ini"
• "cek level 0812xxxx"

Ketik "batal" kapan aja buat membatalkan.`

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}

	if update.Message.IsCommand() {
		b.handleCommand(ctx, update)
		return
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "jam rame"), strings.Contains(lower, "jam ramai"):
		b.showOccupancy(ctx, update.Message.Chat.ID, clock.Today(b.clk))
		return
	case strings.HasPrefix(lower, "cek level"):
		b.showLevel(ctx, update.Message.Chat.ID, strings.TrimSpace(lower[len("cek level"):]))
		return
	}

	b.handleChat(ctx, update)
}

func (b *Bot) handleCommand(ctx context.Context, update tgbotapi.Update) {
	if b.metrics != nil {
		b.metrics.CommandsProcessed.Inc()
	}

	if b.isManager(update.Message.From.ID) && b.handleManagerCommand(ctx, update) {
		return
	}

	switch update.Message.Command() {
	case "start", "help":
		b.sendMessage(update.Message.Chat.ID, welcomeText)
	case "batal":
		if err := b.sessions.ClearSession(ctx, update.Message.From.ID); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to clear session")
		}
		b.sendMessage(update.Message.Chat.ID, "Oke, obrolan di-reset. Mulai lagi kapan aja ya!")
	default:
		b.sendMessage(update.Message.Chat.ID, "Perintah tidak dikenal. Coba /help ya.")
	}
}

// handleChat runs one turn of the booking dialogue.
func (b *Bot) handleChat(ctx context.Context, update tgbotapi.Update) {
	l := zerolog.Ctx(ctx)
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	session, err := b.sessions.GetSession(ctx, userID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	reply, err := b.dialog.Handle(ctx, session, update.Message.Text)
	if err != nil {
		l.Error().Err(err).Int64("user_id", userID).Msg("Dialogue turn failed")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if err := b.sessions.SaveSession(ctx, session); err != nil {
		l.Error().Err(err).Int64("user_id", userID).Msg("Failed to save session")
	}

	if reply.Receipt != nil {
		if b.metrics != nil {
			b.metrics.BookingsCreated.Inc()
		}
		b.sendMarkdown(chatID, renderReceipt(reply.Receipt))
		return
	}

	b.sendMessage(chatID, reply.Text)
}

func (b *Bot) showOccupancy(ctx context.Context, chatID int64, date string) {
	occupancy, err := b.bookings.Occupancy(ctx, date)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, renderOccupancy(date, occupancy))
}

func (b *Bot) showLevel(ctx context.Context, chatID int64, phone string) {
	if phone == "" {
		b.sendMessage(chatID, "Format: cek level <nomor hp>")
		return
	}

	level, totalHours, err := b.bookings.LevelForPhone(ctx, phone)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMarkdown(chatID, renderLevel(phone, level, totalHours))
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
