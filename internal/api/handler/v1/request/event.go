package request

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

var clockTimeExp = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type EventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
}

func (req *EventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.EventDate, validation.Required),
		validation.Field(&req.StartTime, validation.Match(clockTimeExp)),
		validation.Field(&req.EndTime, validation.Match(clockTimeExp)),
		validation.Field(&req.Location, validation.Length(0, 255)),
		validation.Field(&req.Status, validation.In(domain.EventStatusActive, domain.EventStatusInactive)),
	)
}

func (req *EventRequest) ToDomain(id uint) domain.Event {
	return domain.Event{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		EventDate:   req.EventDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Status:      req.Status,
	}
}
