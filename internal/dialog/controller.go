// Package dialog implements the slot-filling conversation that turns
// free-form Indonesian chat messages into committed bookings. One
// Controller serves all conversations; per-conversation state lives in
// the session passed to Handle.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"smartstudio/internal/clock"
	"smartstudio/internal/database"
	"smartstudio/internal/domain"
	"smartstudio/internal/models"
	"smartstudio/internal/nlu"

	"github.com/rs/zerolog"
)

// Reply is what one turn of the dialogue produces. Receipt is non-nil
// only when a booking was just committed, so the presentation layer
// can render a ticket instead of plain text.
type Reply struct {
	Text    string
	Receipt *models.Receipt
}

type Controller struct {
	bookings    domain.BookingService
	clk         clock.Clock
	contactLink string
	logger      *zerolog.Logger
}

func NewController(bookings domain.BookingService, clk clock.Clock, contactLink string, logger *zerolog.Logger) *Controller {
	return &Controller{
		bookings:    bookings,
		clk:         clk,
		contactLink: contactLink,
		logger:      logger,
	}
}

// slotMask says which extracted slots may merge into the draft while a
// given question is in flight. The extractor is a generic pattern
// matcher, so steps that collect free text must block slots it would
// otherwise misread (a phone number parses as an hour).
type slotMask struct {
	date      bool
	hour      bool
	duration  bool
	equipment bool
}

var defaultMask = slotMask{date: true, hour: true, duration: true, equipment: true}

var mergeMasks = map[models.Step]slotMask{
	models.StepAskPhone: {date: true, hour: false, duration: true, equipment: true},
}

const (
	replyCancel       = "⚠️ Pembatalan Booking\n\nHubungi Admin kami di %s ya."
	replyReset        = "🔄 Oke, diulang. Silakan ketik 'Booking' lagi."
	replyHelp         = "Halo! Ketik 'Booking' untuk sewa studio, 'Reschedule' untuk ganti jadwal, atau 'Batal'."
	replyAskTime      = "Siap booking tgl %s. Jam berapa mainnya?"
	replyRepromptTime = "Maaf, jam berapa mulainya? (Contoh: '16' atau 'jam 4 sore')"
	replyAskDuration  = "Jam oke. Mau sewa berapa jam?"
	replyTimeSafe     = "Jam aman. Mau main berapa jam?"
	replyBadDuration  = "Mohon masukkan angka durasi (contoh: '2' atau '2 jam')."
	replyAskGear      = "Siap %d jam. Ada tambahan alat? (Ketik 'Standar' jika tidak ada)."
	replyAskName      = "Oke, alat: %s. Atas nama siapa?"
	replyAskPhone     = "Halo Kak %s. Terakhir, berapa Nomor WhatsApp kamu? (Untuk update level member & diskon)."
	replyBadPhone     = "Nomor HP sepertinya kurang valid. Mohon masukkan nomor yang benar agar Level Member bertambah."
	replySlotFull     = "❌ Maaf, jam %d:00 di tanggal %s sudah penuh. Jam berapa lagi yang pas?"
	replyResName      = "Siap reschedule. Atas nama siapa booking lamanya?"
	replyResNotFound  = "Nama tidak ditemukan. Coba lagi atau hubungi Admin."
	replyResFound     = "Ketemu! Kak %s tgl %s jam %d:00. Mau pindah ke Hari & Jam berapa?"
	replyResReprompt  = "Mohon sebutkan Hari dan Jam baru ya. (Contoh: 'Besok jam 14')"
	replyResClash     = "❌ Gagal. Jam %d:00 di tanggal %s bentrok."
	replyResGone      = "❌ Data tidak ditemukan."
	replyResDone      = "✅ Reschedule Berhasil! Jadwal baru Kak %s: %s jam %d:00."
	replyBooked       = "✅ Booking berhasil atas nama %s! %s jam %d:00, %d jam. Total Rp %.0f."
)

var digitsRe = regexp.MustCompile(`\d+`)

// Handle processes one user message against the session's draft,
// mutating the draft in place. The caller persists the session after.
func (c *Controller) Handle(ctx context.Context, session *models.Session, text string) (Reply, error) {
	equipment, err := c.bookings.EquipmentNames(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to load equipment names")
		equipment = nil
	}

	res := nlu.Extract(text, equipment, c.clk.Now())
	draft := &session.Draft

	// Escape intents win over any in-progress question.
	switch res.Intent {
	case nlu.IntentCancel:
		draft.Reset()
		return Reply{Text: fmt.Sprintf(replyCancel, c.contactLink)}, nil
	case nlu.IntentReset:
		draft.Reset()
		return Reply{Text: replyReset}, nil
	}

	c.merge(draft, res)

	switch draft.Step {
	case models.StepAskPhone:
		return c.handleAskPhone(ctx, draft, text)
	case models.StepAskName:
		draft.CustomerName = titleCase(text)
		draft.Step = models.StepAskPhone
		return Reply{Text: fmt.Sprintf(replyAskPhone, draft.CustomerName)}, nil
	case models.StepAskGear:
		// "standar"/"tidak" means no extra gear; anything else keeps
		// whatever the extractor already matched.
		draft.Step = models.StepAskName
		return Reply{Text: fmt.Sprintf(replyAskName, gearSummary(draft.Equipment))}, nil
	case models.StepAskDuration:
		return c.handleAskDuration(draft, text)
	case models.StepAskTime:
		return c.handleAskTime(ctx, draft)
	case models.StepResName:
		return c.handleResName(ctx, draft, text)
	case models.StepResTime:
		return c.handleResTime(ctx, draft)
	}

	// No question in flight: route by intent and mode.
	switch {
	case res.Intent == nlu.IntentReschedule:
		draft.Mode = models.ModeReschedule
		draft.Step = models.StepResName
		return Reply{Text: replyResName}, nil
	case res.Intent == nlu.IntentBooking || draft.Mode == models.ModeBooking:
		return c.advanceBooking(ctx, draft)
	}

	return Reply{Text: replyHelp}, nil
}

func (c *Controller) merge(draft *models.Draft, res nlu.Result) {
	mask, ok := mergeMasks[draft.Step]
	if !ok {
		mask = defaultMask
	}
	if mask.date && res.Date != "" {
		draft.Date = res.Date
	}
	if mask.hour && res.Hour != nil {
		draft.StartHour = res.Hour
	}
	if mask.duration && res.Duration != nil {
		draft.DurationHours = res.Duration
	}
	if mask.equipment && len(res.Equipment) > 0 {
		draft.Equipment = append(draft.Equipment, res.Equipment...)
	}
}

// advanceBooking walks the fixed slot-filling ladder, asking for
// exactly one missing field per turn and finalizing when none remain.
func (c *Controller) advanceBooking(ctx context.Context, draft *models.Draft) (Reply, error) {
	draft.Mode = models.ModeBooking
	if draft.Date == "" {
		draft.Date = clock.Today(c.clk)
	}

	if reply, clashed, err := c.recheckSlot(ctx, draft); err != nil {
		return Reply{}, err
	} else if clashed {
		return reply, nil
	}

	switch {
	case draft.StartHour == nil:
		draft.Step = models.StepAskTime
		return Reply{Text: fmt.Sprintf(replyAskTime, draft.Date)}, nil
	case draft.DurationHours == nil:
		draft.Step = models.StepAskDuration
		return Reply{Text: replyAskDuration}, nil
	case len(draft.Equipment) == 0 && draft.Step != models.StepAskName && draft.Step != models.StepAskPhone:
		draft.Step = models.StepAskGear
		return Reply{Text: "Sip. Butuh alat apa saja? (Ketik 'Standar' jika tidak ada)."}, nil
	case draft.CustomerName == "":
		draft.Step = models.StepAskName
		return Reply{Text: "Siap. Atas nama siapa?"}, nil
	case draft.Phone == "":
		draft.Step = models.StepAskPhone
		return Reply{Text: "Terakhir, berapa nomor WA kamu? (Untuk update level member)."}, nil
	default:
		return c.finalize(ctx, draft)
	}
}

// recheckSlot is the early warning while fields are still being
// collected: as soon as a start time is known it is checked against
// the schedule, assuming 1 hour when the duration is not known yet.
// On a clash the time is cleared and re-asked. The authoritative check
// still happens at finalize time.
func (c *Controller) recheckSlot(ctx context.Context, draft *models.Draft) (Reply, bool, error) {
	if draft.StartHour == nil || draft.Date == "" {
		return Reply{}, false, nil
	}
	duration := 1
	if draft.DurationHours != nil {
		duration = *draft.DurationHours
	}

	conflict, err := c.bookings.HasConflict(ctx, draft.Date, *draft.StartHour, duration, 0)
	if err != nil {
		return Reply{}, false, err
	}
	if !conflict {
		return Reply{}, false, nil
	}

	hour := *draft.StartHour
	draft.StartHour = nil
	draft.Step = models.StepAskTime
	return Reply{Text: fmt.Sprintf(replySlotFull, hour, draft.Date)}, true, nil
}

func (c *Controller) handleAskTime(ctx context.Context, draft *models.Draft) (Reply, error) {
	if draft.StartHour == nil {
		return Reply{Text: replyRepromptTime}, nil
	}

	if reply, clashed, err := c.recheckSlot(ctx, draft); err != nil {
		return Reply{}, err
	} else if clashed {
		return reply, nil
	}

	if draft.DurationHours == nil {
		draft.Step = models.StepAskDuration
		return Reply{Text: replyTimeSafe}, nil
	}
	draft.Step = models.StepAskGear
	return Reply{Text: fmt.Sprintf(replyAskGear, *draft.DurationHours)}, nil
}

func (c *Controller) handleAskDuration(draft *models.Draft, text string) (Reply, error) {
	m := digitsRe.FindString(text)
	if m == "" {
		return Reply{Text: replyBadDuration}, nil
	}
	d, err := strconv.Atoi(m)
	if err != nil || d <= 0 {
		return Reply{Text: replyBadDuration}, nil
	}
	draft.DurationHours = &d
	draft.Step = models.StepAskGear
	return Reply{Text: fmt.Sprintf(replyAskGear, d)}, nil
}

func (c *Controller) handleAskPhone(ctx context.Context, draft *models.Draft, text string) (Reply, error) {
	if !validPhone(text) {
		return Reply{Text: replyBadPhone}, nil
	}
	draft.Phone = strings.TrimSpace(text)
	if draft.DurationHours == nil {
		one := 1
		draft.DurationHours = &one
	}
	return c.finalize(ctx, draft)
}

func (c *Controller) finalize(ctx context.Context, draft *models.Draft) (Reply, error) {
	receipt, err := c.bookings.FinalizeBooking(ctx, draft)
	if errors.Is(err, database.ErrSlotTaken) {
		hour := 0
		if draft.StartHour != nil {
			hour = *draft.StartHour
		}
		date := draft.Date
		draft.StartHour = nil
		draft.Step = models.StepAskTime
		return Reply{Text: fmt.Sprintf(replySlotFull, hour, date)}, nil
	}
	if err != nil {
		return Reply{}, err
	}

	draft.Reset()
	return Reply{
		Text: fmt.Sprintf(replyBooked, receipt.CustomerName, receipt.Date,
			receipt.StartHour, receipt.DurationHours, receipt.Price),
		Receipt: receipt,
	}, nil
}

func (c *Controller) handleResName(ctx context.Context, draft *models.Draft, text string) (Reply, error) {
	booking, err := c.bookings.FindLatestBookingByName(ctx, strings.TrimSpace(text))
	if errors.Is(err, database.ErrNotFound) {
		return Reply{Text: replyResNotFound}, nil
	}
	if err != nil {
		return Reply{}, err
	}

	draft.TargetBookingID = booking.ID
	draft.Step = models.StepResTime
	return Reply{Text: fmt.Sprintf(replyResFound, booking.CustomerName, booking.Date, booking.StartHour)}, nil
}

func (c *Controller) handleResTime(ctx context.Context, draft *models.Draft) (Reply, error) {
	if draft.Date == "" || draft.StartHour == nil {
		return Reply{Text: replyResReprompt}, nil
	}

	newDate, newHour := draft.Date, *draft.StartHour
	moved, err := c.bookings.CommitReschedule(ctx, draft.TargetBookingID, newDate, newHour)
	draft.Reset()
	switch {
	case errors.Is(err, database.ErrSlotTaken):
		return Reply{Text: fmt.Sprintf(replyResClash, newHour, newDate)}, nil
	case errors.Is(err, database.ErrNotFound):
		return Reply{Text: replyResGone}, nil
	case err != nil:
		return Reply{}, err
	}

	return Reply{Text: fmt.Sprintf(replyResDone, moved.CustomerName, moved.Date, moved.StartHour)}, nil
}

func gearSummary(gear []string) string {
	if len(gear) == 0 {
		return "Standar"
	}
	return strings.Join(gear, ", ")
}

func validPhone(text string) bool {
	trimmed := strings.TrimSpace(text)
	return len(trimmed) > 8 && strings.ContainsAny(trimmed, "0123456789")
}

func titleCase(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
