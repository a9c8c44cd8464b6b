// Package nlu turns one raw Indonesian chat line into a structured
// partial update for the booking draft. Extraction is deterministic
// keyword and pattern matching; identical input always yields
// identical output.
package nlu

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"smartstudio/internal/clock"
	"smartstudio/internal/schedule"
)

type Intent string

const (
	IntentUnknown    Intent = "unknown"
	IntentCancel     Intent = "cancel"
	IntentReset      Intent = "reset"
	IntentReschedule Intent = "reschedule"
	IntentBooking    Intent = "booking"
)

// Result is the unfiltered candidate set extracted from one message.
// The dialogue controller decides which slots are eligible to merge.
type Result struct {
	Intent    Intent
	Date      string // YYYY-MM-DD, empty when no date was mentioned
	Hour      *int
	Duration  *int
	Equipment []string
}

var (
	cancelWords     = []string{"batal", "cancel", "gak jadi"}
	resetWords      = []string{"ulang", "reset", "salah"}
	rescheduleWords = []string{"reschedule", "ganti", "ubah"}
	bookingWords    = []string{"booking", "sewa", "pesan"}
)

var (
	dayOfMonthRe   = regexp.MustCompile(`(tanggal|tgl)\s*(\d{1,2})`)
	durationRe     = regexp.MustCompile(`(\d+)\s*(jam|hour)`)
	explicitHourRe = regexp.MustCompile(`(jam|pukul)\s*(\d{1,2})\s*(pagi|siang|sore|malam)?`)
	colonHourRe    = regexp.MustCompile(`(\d{1,2})[:.]\d{2}`)
	bareHourRe     = regexp.MustCompile(`(\d{1,2})\s*(pagi|siang|sore|malam)?`)
)

// Extract parses one message. The caller passes the studio-local "now"
// used to resolve relative dates, and the known equipment names.
func Extract(text string, equipment []string, now time.Time) Result {
	txt := strings.ToLower(text)
	res := Result{Intent: detectIntent(txt)}

	today := now.In(clock.WIB)
	cleanTxt := txt

	switch {
	case strings.Contains(txt, "hari ini"):
		res.Date = today.Format(clock.DateLayout)
	case strings.Contains(txt, "besok"):
		res.Date = today.AddDate(0, 0, 1).Format(clock.DateLayout)
	case strings.Contains(txt, "lusa"):
		res.Date = today.AddDate(0, 0, 2).Format(clock.DateLayout)
	default:
		if m := dayOfMonthRe.FindStringSubmatch(cleanTxt); m != nil {
			if day, err := strconv.Atoi(m[2]); err == nil && validDayOfMonth(today, day) {
				res.Date = time.Date(today.Year(), today.Month(), day, 0, 0, 0, 0, clock.WIB).Format(clock.DateLayout)
				cleanTxt = strings.Replace(cleanTxt, m[0], "", 1)
			}
		}
	}

	if m := durationRe.FindStringSubmatch(cleanTxt); m != nil {
		if d, err := strconv.Atoi(m[1]); err == nil {
			res.Duration = &d
			cleanTxt = strings.Replace(cleanTxt, m[0], "", 1)
		}
	}

	if h, ok := findHour(cleanTxt); ok && schedule.ValidStartHour(h) {
		res.Hour = &h
	}

	for _, name := range equipment {
		lower := strings.ToLower(name)
		first, _, _ := strings.Cut(lower, " ")
		if strings.Contains(txt, lower) || strings.Contains(txt, first) {
			res.Equipment = append(res.Equipment, lower)
		}
	}

	return res
}

func detectIntent(txt string) Intent {
	switch {
	case containsAny(txt, cancelWords):
		return IntentCancel
	case containsAny(txt, resetWords):
		return IntentReset
	case containsAny(txt, rescheduleWords):
		return IntentReschedule
	case containsAny(txt, bookingWords):
		return IntentBooking
	default:
		return IntentUnknown
	}
}

func containsAny(txt string, words []string) bool {
	for _, w := range words {
		if strings.Contains(txt, w) {
			return true
		}
	}
	return false
}

// findHour tries, in order: "jam 5" / "pukul 17", then "17:30" /
// "17.30", then a bare number. Day-part words convert to the 24h
// clock: sore/malam add 12 for hours up to 12, siang only below 11 so
// "12 siang" stays noon.
func findHour(txt string) (int, bool) {
	if m := explicitHourRe.FindStringSubmatch(txt); m != nil {
		if h, err := strconv.Atoi(m[2]); err == nil {
			return applyDayPart(h, m[3]), true
		}
	}

	if m := colonHourRe.FindStringSubmatch(txt); m != nil {
		if h, err := strconv.Atoi(m[1]); err == nil {
			return h, true
		}
	}

	if m := bareHourRe.FindStringSubmatch(txt); m != nil {
		if h, err := strconv.Atoi(m[1]); err == nil {
			return applyDayPart(h, m[2]), true
		}
	}

	return 0, false
}

func applyDayPart(h int, part string) int {
	switch part {
	case "sore", "malam":
		if h <= 12 {
			return h + 12
		}
	case "siang":
		if h < 11 {
			return h + 12
		}
	}
	return h
}

func validDayOfMonth(today time.Time, day int) bool {
	if day < 1 {
		return false
	}
	lastDay := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, clock.WIB).Day()
	return day <= lastDay
}
