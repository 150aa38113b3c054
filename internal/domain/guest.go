package domain

import "time"

// Company codes and guest descriptions that drive raffle eligibility.
const (
	CompanyINV  = "INV"
	CompanyIMEX = "IMEX"

	DescriptionGeneral         = "General"
	DescriptionSubdirectors    = "Subdirectores"
	DescriptionIMEX            = "IMEX"
	DescriptionPreviousWinners = "Ganadores previos"
	DescriptionNewHire         = "Nuevo ingreso"
	DescriptionDirectors       = "Directores"
	DescriptionNoParticipation = "No participa"
)

type Guest struct {
	ID             uint       `json:"id"`
	EventID        uint       `json:"event_id"`
	Company        string     `json:"company"`
	EmployeeNumber string     `json:"employee_number"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	WorkArea       string     `json:"work_area"`
	JobLevel       string     `json:"job_level"`
	Location       string     `json:"location"`
	HireDate       *time.Time `json:"hire_date,omitempty"`
	Description    string     `json:"description"`
	RaffleCategory string     `json:"raffle_category"`
	QRCode         string     `json:"qr_code"`
	EmailSent      bool       `json:"email_sent"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (g Guest) HasEmail() bool {
	return g.Email != ""
}

// PublicGuest is what a guest sees after identifying themselves on the event's public page.
type PublicGuest struct {
	Event          Event      `json:"event"`
	FullName       string     `json:"full_name"`
	Company        string     `json:"company"`
	EmployeeNumber string     `json:"employee_number"`
	Email          string     `json:"email"`
	WorkArea       string     `json:"work_area"`
	Location       string     `json:"location"`
	RaffleCategory string     `json:"raffle_category"`
	QRCode         string     `json:"qr_code"`
	HasAttended    bool       `json:"has_attended"`
	AttendedAt     *time.Time `json:"attended_at,omitempty"`
}
