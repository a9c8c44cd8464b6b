package models

// Mode says which flow a conversation is in.
type Mode string

const (
	ModeIdle       Mode = "idle"
	ModeBooking    Mode = "booking"
	ModeReschedule Mode = "reschedule"
)

// Step is the dialogue question currently being collected. The zero
// value StepNone means no multi-turn question is in flight.
type Step string

const (
	StepNone        Step = ""
	StepAskTime     Step = "ask_time"
	StepAskDuration Step = "ask_duration"
	StepAskGear     Step = "ask_gear"
	StepAskName     Step = "ask_name"
	StepAskPhone    Step = "ask_phone"
	StepResName     Step = "res_name"
	StepResTime     Step = "res_time"
)

// Draft is the booking-in-progress for one conversation. Fields fill
// monotonically as the dialogue advances; Reset zeroes everything.
type Draft struct {
	Mode            Mode     `json:"mode"`
	Step            Step     `json:"step"`
	CustomerName    string   `json:"customer_name,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Date            string   `json:"date,omitempty"` // YYYY-MM-DD
	StartHour       *int     `json:"start_hour,omitempty"`
	DurationHours   *int     `json:"duration_hours,omitempty"`
	Equipment       []string `json:"equipment,omitempty"`
	TargetBookingID int64    `json:"target_booking_id,omitempty"`
}

// Reset returns the draft to the all-empty idle state.
func (d *Draft) Reset() {
	*d = Draft{Mode: ModeIdle}
}

// Session is one conversation's persisted state.
type Session struct {
	UserID int64 `json:"user_id"`
	Draft  Draft `json:"draft"`
}

func NewSession(userID int64) *Session {
	return &Session{UserID: userID, Draft: Draft{Mode: ModeIdle}}
}
