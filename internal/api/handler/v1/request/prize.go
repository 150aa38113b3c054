package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type PrizeRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
	Stock       int     `json:"stock"`
	Value       float64 `json:"value"`
}

func (req *PrizeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Stock, validation.Min(0)),
		validation.Field(&req.Value, validation.Min(0.0)),
	)
}

func (req *PrizeRequest) ToDomain(eventID, prizeID uint) domain.Prize {
	return domain.Prize{
		ID:          prizeID,
		EventID:     eventID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Stock:       req.Stock,
		Value:       req.Value,
	}
}
