package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type DrawRequest struct {
	Mode             string `json:"mode"`
	SendNotification bool   `json:"send_notification"`
}

func (req *DrawRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Mode, validation.In("public", "general")),
	)
}

type SelectWinnerRequest struct {
	GuestID          uint `json:"guest_id"`
	SendNotification bool `json:"send_notification"`
}

func (req *SelectWinnerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GuestID, validation.Required),
	)
}

type GeneralDrawRequest struct {
	Count            int  `json:"count"`
	SendNotification bool `json:"send_notification"`
	ResetPrevious    bool `json:"reset_previous"`
}

func (req *GeneralDrawRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Count, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

type ReselectRequest struct {
	GuestID          uint `json:"guest_id"`
	SendNotification bool `json:"send_notification"`
}

func (req *ReselectRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GuestID, validation.Required),
	)
}
