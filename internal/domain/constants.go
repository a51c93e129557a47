package domain

// Default configuration values
const (
	DefaultHoldMinutes      = 20 // grace window for unpaid pending holds
	DefaultSlotStepMinutes  = 15
	DefaultMinNoticeMinutes = 60
	DefaultMaxRangeDays     = 31
)

// Business validation constants
const (
	MinutesPerDay               = 24 * 60
	MaxServiceDurationMinutes   = 720
	MaxBufferMinutes            = 240
	MaxReferenceImages          = 10
	MaxBriefDescriptionLength   = 2000
	MaxPlacementLength          = 200
	MaxCustomerNameLength       = 200
	MaxCancellationReasonLength = 500
	MaxOverrideNoteLength       = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Cancellation reasons written by the system
const (
	ReasonSlotConflict    = "slot_conflict"
	ReasonCheckoutExpired = "checkout_expired"
	ReasonPaymentFailed   = "payment_failed"
)

// InactiveStatuses statuses that never occupy a slot
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusRefunded,
}

// BlockingStatuses statuses that may occupy a slot (pending only while its hold is fresh)
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
