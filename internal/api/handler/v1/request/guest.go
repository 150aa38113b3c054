package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type GuestRequest struct {
	Company        string     `json:"compania"`
	EmployeeNumber string     `json:"numero_empleado"`
	FullName       string     `json:"nombre_completo"`
	Email          string     `json:"correo"`
	WorkArea       string     `json:"puesto"`
	JobLevel       string     `json:"nivel_de_puesto"`
	Location       string     `json:"localidad"`
	HireDate       *time.Time `json:"fecha_alta"`
	Description    string     `json:"descripcion"`
	RaffleCategory string     `json:"categoria_rifa"`
}

func (req *GuestRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Company, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.EmployeeNumber, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.FullName, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Email, is.Email),
	)
}

func (req *GuestRequest) ToDomain(eventID, guestID uint) domain.Guest {
	return domain.Guest{
		ID:             guestID,
		EventID:        eventID,
		Company:        req.Company,
		EmployeeNumber: req.EmployeeNumber,
		FullName:       req.FullName,
		Email:          req.Email,
		WorkArea:       req.WorkArea,
		JobLevel:       req.JobLevel,
		Location:       req.Location,
		HireDate:       req.HireDate,
		Description:    req.Description,
		RaffleCategory: req.RaffleCategory,
	}
}
