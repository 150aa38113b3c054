package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ScanRequest struct {
	QRData   string                 `json:"qr_data"`
	Metadata map[string]interface{} `json:"metadata"`
}

func (req *ScanRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QRData, validation.Required, validation.Length(1, 255)),
	)
}

type ManualAttendanceRequest struct {
	EmployeeNumber string                 `json:"employee_number"`
	Metadata       map[string]interface{} `json:"metadata"`
}

func (req *ManualAttendanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EmployeeNumber, validation.Required, validation.Length(1, 50)),
	)
}
