package domain

import (
	"errors"
	"time"
)

type EntryStatus string

const (
	EntryStatusPending EntryStatus = "pending"
	EntryStatusWon     EntryStatus = "won"
	EntryStatusLost    EntryStatus = "lost"
)

type RaffleMode string

const (
	RaffleModePublic  RaffleMode = "public"
	RaffleModeGeneral RaffleMode = "general"
)

// RaffleTypeManual tags raffle log rows written by a manual winner selection.
const RaffleTypeManual = "manual"

var ErrInvalidRaffleMode = errors.New("invalid raffle mode")

func ParseRaffleMode(s string) (RaffleMode, error) {
	switch RaffleMode(s) {
	case RaffleModePublic, RaffleModeGeneral:
		return RaffleMode(s), nil
	case "":
		return RaffleModePublic, nil
	}
	return "", ErrInvalidRaffleMode
}

type RaffleEntry struct {
	ID             uint                   `json:"id"`
	EventID        uint                   `json:"event_id"`
	GuestID        uint                   `json:"guest_id"`
	PrizeID        *uint                  `json:"prize_id"`
	Status         EntryStatus            `json:"status"`
	Position       *int                   `json:"position,omitempty"`
	ParticipatedAt time.Time              `json:"participated_at"`
	DrawnAt        *time.Time             `json:"drawn_at,omitempty"`
	PrizeDelivered bool                   `json:"prize_delivered"`
	DeliveredAt    *time.Time             `json:"delivered_at,omitempty"`
	DeliveredBy    *uint                  `json:"delivered_by,omitempty"`
	Metadata       map[string]interface{} `json:"raffle_metadata,omitempty"`
	Guest          *Guest                 `json:"guest,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

func (e RaffleEntry) IsPending() bool {
	return e.Status == EntryStatusPending
}

func (e RaffleEntry) IsWinner() bool {
	return e.Status == EntryStatusWon
}

func (e RaffleEntry) BelongsTo(prizeID uint) bool {
	return e.PrizeID != nil && *e.PrizeID == prizeID
}

// RaffleLog is one row of the draw history.
type RaffleLog struct {
	ID         uint      `json:"id"`
	DrawID     string    `json:"draw_id"`
	EventID    uint      `json:"event_id"`
	UserID     *uint     `json:"user_id,omitempty"`
	PrizeID    uint      `json:"prize_id"`
	GuestID    uint      `json:"guest_id"`
	EntryID    uint      `json:"entry_id"`
	RaffleType string    `json:"raffle_type"`
	Seed       int64     `json:"seed"`
	Candidates int       `json:"candidates"`
	Confirmed  bool      `json:"confirmed"`
	CreatedAt  time.Time `json:"created_at"`
	Guest      *Guest    `json:"guest,omitempty"`
	Prize      *Prize    `json:"prize,omitempty"`
}

// DrawCommit describes the winner chosen outside the transaction that records it.
type DrawCommit struct {
	DrawID     string
	EventID    uint
	PrizeID    uint
	EntryID    uint
	ActorID    *uint
	RaffleType string
	Seed       int64
	Candidates int
	DrawnAt    time.Time

	// Exclusive is set for public draws: the winner may hold no other public prize and the
	// event at most one IMEX winner. Both are re-checked when the draw is recorded.
	Exclusive bool
}

type DrawResult struct {
	DrawID              string      `json:"draw_id"`
	Winner              Guest       `json:"winner"`
	Entry               RaffleEntry `json:"entry"`
	PrizeRemainingStock int         `json:"prize_remaining_stock"`
	Seed                int64       `json:"seed"`
	Candidates          int         `json:"candidates"`
}

type EntriesResult struct {
	Created        int `json:"entries_created"`
	TotalEligible  int `json:"total_eligible"`
	AlreadyEntered int `json:"already_entered"`
}

type GeneralDrawResult struct {
	Winners []DrawResult `json:"winners"`
	Count   int          `json:"winners_count"`
}

// RaffleReset reports what resetting every raffle of an event undid.
type RaffleReset struct {
	EventID        uint  `json:"event_id"`
	EntriesDeleted int64 `json:"entries_deleted"`
	LogsDeleted    int64 `json:"logs_deleted"`
	StockRestored  int64 `json:"stock_restored"`
}
