package response

import "github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type Message struct {
	Message string `json:"message"`
}

type DrawResponse struct {
	Winner              domain.Guest `json:"winner"`
	PrizeRemainingStock int          `json:"prize_remaining_stock"`
	EntryID             uint         `json:"entry_id"`
	DrawID              string       `json:"draw_id"`
	Seed                int64        `json:"seed"`
	Candidates          int          `json:"candidates"`
}

func NewDrawResponse(res domain.DrawResult) DrawResponse {
	return DrawResponse{
		Winner:              res.Winner,
		PrizeRemainingStock: res.PrizeRemainingStock,
		EntryID:             res.Entry.ID,
		DrawID:              res.DrawID,
		Seed:                res.Seed,
		Candidates:          res.Candidates,
	}
}

type ImageResponse struct {
	Image string `json:"image"`
}

type Healthcheck struct {
	Status string `json:"status"`
}
