package models

const (
	StatusConfirmed = "Confirmed"
	StatusActive    = "Active"
)

const (
	// DefaultEquipmentLabel is shown when a booking carries no gear.
	DefaultEquipmentLabel = "Standard Room"
)

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

// Audit actions.
const (
	AuditNewBooking    = "NEW_BOOKING"
	AuditReschedule    = "RESCHEDULE"
	AuditDeleteBooking = "DELETE_BOOKING"
	AuditNewCourse     = "NEW_COURSE"
	AuditDeleteCourse  = "DELETE_COURSE"
	AuditNewEquipment  = "NEW_EQUIPMENT"
)

const (
	// DefaultSessionTTL is how long an in-flight draft survives in Redis.
	DefaultSessionTTL = 24 * 60 * 60 // seconds

	// RateLimitMessages is how many messages one user may send per window.
	RateLimitMessages = 20
	// RateLimitWindow is the rate-limit window in seconds.
	RateLimitWindow = 60

	// WorkerQueueSize bounds the in-memory sync queue.
	WorkerQueueSize = 128
)
