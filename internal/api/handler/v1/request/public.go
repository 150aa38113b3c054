package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// GuestLookupRequest carries the company and employee number a guest types, e.g. "FXE-1234".
type GuestLookupRequest struct {
	Credentials string `json:"credentials"`
}

func (req *GuestLookupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Credentials, validation.Required, validation.Length(1, 100)),
	)
}
