package domain

import (
	"strings"
	"time"
)

// GeneralRafflePrizeName names the per-event prize that backs the general raffle pool.
const GeneralRafflePrizeName = "Rifa General"

type Prize struct {
	ID           uint      `json:"id"`
	EventID      uint      `json:"event_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     *string   `json:"category"`
	Stock        int       `json:"stock"`
	InitialStock int       `json:"initial_stock"`
	Value        float64   `json:"value"`
	Image        string    `json:"image"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p Prize) IsGeneralPool() bool {
	return strings.TrimSpace(p.Name) == GeneralRafflePrizeName
}

// IsReservedPrizeName reports whether name, in any case, is the general pool prize name.
func IsReservedPrizeName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), GeneralRafflePrizeName)
}

func (p Prize) IsAvailable() bool {
	return p.Active && p.Stock > 0
}

// Mode returns the raffle mode a prize is drawn under.
func (p Prize) Mode() RaffleMode {
	if p.IsGeneralPool() {
		return RaffleModeGeneral
	}
	return RaffleModePublic
}
