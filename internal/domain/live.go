package domain

import "time"

// Topics carried by the in-process bus, the live feed and the outbound broker.
const (
	TopicWinnerDrawn        = "raffle.winner.drawn"
	TopicDrawCancelled      = "raffle.draw.cancelled"
	TopicRaffleReset        = "raffle.reset"
	TopicAttendanceRecorded = "attendance.recorded"
	TopicAuditRecorded      = "audit.recorded"
)

type LiveMessage struct {
	Type      string      `json:"type"`
	EventID   uint        `json:"event_id"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}
