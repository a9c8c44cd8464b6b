package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"smartstudio/internal/clock"
	"smartstudio/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleManagerCommand dispatches admin-only commands. Returns false
// when the command is not an admin one so normal routing continues.
func (b *Bot) handleManagerCommand(ctx context.Context, update tgbotapi.Update) bool {
	chatID := update.Message.Chat.ID
	args := strings.TrimSpace(update.Message.CommandArguments())

	switch update.Message.Command() {
	case "stats":
		b.showStats(ctx, chatID)
	case "bookings":
		date := args
		if date == "" {
			date = clock.Today(b.clk)
		}
		b.showBookings(ctx, chatID, date)
	case "hapus":
		b.deleteBooking(ctx, chatID, args)
	case "pindah":
		b.adminReschedule(ctx, chatID, args)
	case "export":
		b.exportBookings(ctx, chatID)
	case "additem":
		b.addEquipment(ctx, chatID, args)
	case "items":
		b.showEquipment(ctx, chatID)
	case "kursus":
		b.handleCourseCommand(ctx, chatID, args)
	case "audit":
		b.showAudit(ctx, chatID)
	default:
		return false
	}
	return true
}

func (b *Bot) showStats(ctx context.Context, chatID int64) {
	stats, err := b.bookings.Stats(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.sendMarkdown(chatID, fmt.Sprintf(
		"📈 *Statistik Studio*\n\n💰 Pendapatan: %s\n🎫 Booking: %d\n🎓 Murid kursus: %d",
		formatRupiah(stats.Revenue), stats.Bookings, stats.Students))
}

func (b *Bot) showBookings(ctx context.Context, chatID int64, date string) {
	if _, err := time.Parse(clock.DateLayout, date); err != nil {
		b.sendMessage(chatID, "Format tanggal: /bookings 2025-03-10")
		return
	}

	bookings, err := b.bookings.BookingsForDate(ctx, date)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if len(bookings) == 0 {
		b.sendMessage(chatID, fmt.Sprintf("Tidak ada booking di tanggal %s.", date))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Booking %s:\n\n", date))
	for i := range bookings {
		sb.WriteString(renderBookingLine(&bookings[i]))
		sb.WriteString("\n")
	}
	b.sendMessage(chatID, sb.String())
}

func (b *Bot) deleteBooking(ctx context.Context, chatID int64, args string) {
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		b.sendMessage(chatID, "Format: /hapus <id booking>")
		return
	}

	if err := b.bookings.DeleteBooking(ctx, id); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("🗑 Booking #%d dihapus.", id))
}

func (b *Bot) adminReschedule(ctx context.Context, chatID int64, args string) {
	parts := strings.Fields(args)
	if len(parts) != 3 {
		b.sendMessage(chatID, "Format: /pindah <id> <tanggal> <jam>, contoh: /pindah 7 2025-03-11 14")
		return
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		b.sendMessage(chatID, "ID booking harus angka.")
		return
	}
	if _, err := time.Parse(clock.DateLayout, parts[1]); err != nil {
		b.sendMessage(chatID, "Format tanggal: 2025-03-11")
		return
	}
	hour, err := strconv.Atoi(parts[2])
	if err != nil {
		b.sendMessage(chatID, "Jam harus angka, contoh 14.")
		return
	}

	booking, err := b.bookings.CommitReschedule(ctx, id, parts[1], hour)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("✅ Booking #%d dipindah ke %s jam %02d:00. Harga baru: %s.",
		booking.ID, booking.Date, booking.StartHour, formatRupiah(booking.Price)))
}

func (b *Bot) addEquipment(ctx context.Context, chatID int64, name string) {
	if name == "" {
		b.sendMessage(chatID, "Format: /additem <nama alat>")
		return
	}

	if err := b.repo.AddEquipment(ctx, name); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("name", name).Msg("Failed to add equipment")
		b.sendMessage(chatID, "Gagal menambah alat. Mungkin sudah terdaftar?")
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("🎸 Alat \"%s\" ditambahkan.", strings.ToLower(name)))
}

func (b *Bot) showEquipment(ctx context.Context, chatID int64) {
	equipment, err := b.repo.ListEquipment(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var sb strings.Builder
	sb.WriteString("🎸 Alat tersedia:\n\n")
	for _, e := range equipment {
		sb.WriteString(fmt.Sprintf("• %s\n", e.Name))
	}
	b.sendMessage(chatID, sb.String())
}

func (b *Bot) handleCourseCommand(ctx context.Context, chatID int64, args string) {
	const usage = "Format:\n/kursus list\n/kursus hapus <id>\n/kursus tambah <nama>|<instrumen>|<hari>|<jam>|<durasi>"

	sub, rest, _ := strings.Cut(args, " ")
	switch sub {
	case "list":
		courses, err := b.repo.ListCourses(ctx)
		if err != nil {
			b.sendMessage(chatID, b.getErrorMessage(err))
			return
		}
		if len(courses) == 0 {
			b.sendMessage(chatID, "Belum ada murid kursus.")
			return
		}
		var sb strings.Builder
		sb.WriteString("🎓 Murid kursus:\n\n")
		for _, c := range courses {
			sb.WriteString(fmt.Sprintf("#%d %s (%s) tiap %s %s, %d jam\n",
				c.ID, c.StudentName, c.Instrument, c.ScheduleDay, c.ScheduleTime, c.Duration))
		}
		b.sendMessage(chatID, sb.String())

	case "hapus":
		id, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
		if err != nil {
			b.sendMessage(chatID, usage)
			return
		}
		if err := b.repo.DeleteCourse(ctx, id); err != nil {
			b.sendMessage(chatID, b.getErrorMessage(err))
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("🗑 Kursus #%d dihapus.", id))

	case "tambah":
		parts := strings.Split(rest, "|")
		if len(parts) != 5 {
			b.sendMessage(chatID, usage)
			return
		}
		duration, err := strconv.Atoi(strings.TrimSpace(parts[4]))
		if err != nil || duration < 1 {
			b.sendMessage(chatID, "Durasi kursus harus angka jam.")
			return
		}
		course := &models.Course{
			StudentName:  strings.TrimSpace(parts[0]),
			Instrument:   strings.TrimSpace(parts[1]),
			ScheduleDay:  strings.TrimSpace(parts[2]),
			ScheduleTime: strings.TrimSpace(parts[3]),
			Duration:     duration,
		}
		if err := b.repo.CreateCourse(ctx, course); err != nil {
			b.sendMessage(chatID, b.getErrorMessage(err))
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("🎓 Kursus #%d untuk %s terdaftar.", course.ID, course.StudentName))

	default:
		b.sendMessage(chatID, usage)
	}
}

func (b *Bot) showAudit(ctx context.Context, chatID int64) {
	entries, err := b.repo.ListAudit(ctx, 20)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var sb strings.Builder
	sb.WriteString("📜 Aktivitas terakhir:\n\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s  %s  %s\n",
			e.Timestamp.In(clock.WIB).Format("02/01 15:04"), e.Action, e.Details))
	}
	if len(entries) == 0 {
		sb.WriteString("Belum ada aktivitas.")
	}
	b.sendMessage(chatID, sb.String())
}

func (b *Bot) exportBookings(ctx context.Context, chatID int64) {
	end := b.clk.Now()
	start := end.AddDate(0, 0, -6)

	filePath, err := b.exportToExcel(ctx, start, end)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Excel export failed")
		b.sendMessage(chatID, "Gagal membuat file export.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	doc.Caption = fmt.Sprintf("Export booking %s s/d %s",
		start.Format(clock.DateLayout), end.Format(clock.DateLayout))
	if _, err := b.tgService.Send(doc); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send export document")
		b.sendMessage(chatID, "File export dibuat tapi gagal dikirim.")
	}
}
