package domain

// Notification kinds handled by the mail worker.
const (
	NotificationRaffleWinner           = "raffle_winner"
	NotificationAttendanceConfirmation = "attendance_confirmation"
	NotificationWelcome                = "welcome"
	NotificationReminder               = "reminder"
	NotificationCustomMessage          = "custom_message"
	NotificationEventSummary           = "event_summary"
)

// Reminder lead time bounds, in hours.
const (
	MinReminderHours = 1
	MaxReminderHours = 168
)

type Notification struct {
	Kind        string           `json:"kind"`
	EventID     uint             `json:"event_id"`
	GuestID     uint             `json:"guest_id,omitempty"`
	GuestName   string           `json:"guest_name"`
	Email       string           `json:"email"`
	PrizeID     uint             `json:"prize_id,omitempty"`
	PrizeName   string           `json:"prize_name,omitempty"`
	EventName   string           `json:"event_name,omitempty"`
	QRCode      string           `json:"qr_code,omitempty"`
	Subject     string           `json:"subject,omitempty"`
	Message     string           `json:"message,omitempty"`
	HoursBefore int              `json:"hours_before,omitempty"`
	Summary     *AttendanceStats `json:"summary,omitempty"`
}

// MarksEmailSent reports whether delivering n sets the guest's email_sent flag.
func (n Notification) MarksEmailSent() bool {
	return n.GuestID != 0 && (n.Kind == NotificationWelcome || n.Kind == NotificationAttendanceConfirmation)
}

// MailingResult counts what one mailing put on the queue.
type MailingResult struct {
	Queued  int `json:"queued"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type EmailStats struct {
	TotalGuests        int     `json:"total_guests"`
	GuestsWithEmail    int     `json:"guests_with_email"`
	GuestsWithoutEmail int     `json:"guests_without_email"`
	EmailsSent         int     `json:"emails_sent"`
	CoverageRate       float64 `json:"email_coverage_percentage"`
}
