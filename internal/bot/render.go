package bot

import (
	"fmt"
	"strings"

	"smartstudio/internal/loyalty"
	"smartstudio/internal/models"
	"smartstudio/internal/schedule"
)

func renderReceipt(r *models.Receipt) string {
	var sb strings.Builder
	sb.WriteString("✅ *BOOKING BERHASIL!*\n\n")
	sb.WriteString(fmt.Sprintf("🎫 Tiket #%d\n", r.BookingID))
	sb.WriteString(fmt.Sprintf("👤 Nama: %s\n", r.CustomerName))
	sb.WriteString(fmt.Sprintf("📱 HP: %s\n", r.Phone))
	sb.WriteString(fmt.Sprintf("📅 Tanggal: %s\n", r.Date))
	sb.WriteString(fmt.Sprintf("⏰ Jam: %02d:00 - %02d:00 (%d jam)\n", r.StartHour, r.StartHour+r.DurationHours, r.DurationHours))
	sb.WriteString(fmt.Sprintf("🎸 Alat: %s\n", r.Equipment))
	sb.WriteString(fmt.Sprintf("💰 Total: %s", formatRupiah(r.Price)))
	if r.IsPeak {
		sb.WriteString(" _(jam sibuk +20%)_")
	}
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Ada pertanyaan? Hubungi admin: %s", r.ContactLink))
	return sb.String()
}

func renderOccupancy(date string, occupancy map[int]int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Jadwal studio %s:\n\n", date))
	for hour := schedule.OpenHour; hour <= schedule.CloseHour; hour++ {
		marker := "🟢 kosong"
		if occupancy[hour] > 0 {
			marker = "🔴 penuh"
		} else if hour >= schedule.PeakStartHour && hour <= schedule.PeakEndHour {
			marker = "🟡 kosong (jam sibuk)"
		}
		sb.WriteString(fmt.Sprintf("%02d:00  %s\n", hour, marker))
	}
	return sb.String()
}

func renderLevel(phone string, level loyalty.Level, totalHours int) string {
	bar := progressBar(level.Progress)
	return fmt.Sprintf("🏆 *Level Member*\n\n📱 %s\n⭐ %s\n%s\n🎵 Total main: %d jam\n🎁 %s",
		phone, level.Name, bar, totalHours, level.Benefit)
}

func renderBookingLine(b *models.Booking) string {
	return fmt.Sprintf("#%d %s (%s) %s %02d:00-%02d:00 %s %s",
		b.ID, b.CustomerName, b.Phone, b.Date, b.StartHour, b.EndHour(),
		b.Equipment, formatRupiah(b.Price))
}

// progressBar renders a 10-segment bar for a 0..1 value.
func progressBar(progress float64) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * 10)
	return strings.Repeat("▓", filled) + strings.Repeat("░", 10-filled)
}

// formatRupiah renders a price with Indonesian thousand separators.
func formatRupiah(price float64) string {
	digits := fmt.Sprintf("%d", int64(price))
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}
	return "Rp" + sb.String()
}
