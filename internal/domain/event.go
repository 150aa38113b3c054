package domain

import "time"

const (
	EventStatusActive   = "active"
	EventStatusInactive = "inactive"
)

type Event struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	PublicToken string    `json:"public_token,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e Event) IsActive() bool {
	return e.Status == EventStatusActive
}

// PublicEvent is the subset of an event shown on its public page.
type PublicEvent struct {
	Event      Event           `json:"event"`
	Attendance AttendanceStats `json:"attendance"`
}
