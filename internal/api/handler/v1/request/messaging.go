package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type ReminderRequest struct {
	HoursBeforeEvent int `json:"hours_before_event"`
}

func (req *ReminderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.HoursBeforeEvent, validation.Required,
			validation.Min(domain.MinReminderHours), validation.Max(domain.MaxReminderHours)),
	)
}

type CustomMessageRequest struct {
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	GuestIDs []uint `json:"guest_ids"`
}

func (req *CustomMessageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Subject, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Message, validation.Required, validation.Length(1, 5000)),
		validation.Field(&req.GuestIDs, validation.Each(validation.Required)),
	)
}
