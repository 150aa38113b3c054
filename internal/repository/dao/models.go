package dao

import (
	"time"

	"gorm.io/datatypes"
)

type Event struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	Name        string `gorm:"not null"`
	Description string
	EventDate   time.Time `gorm:"not null"`
	StartTime   string
	EndTime     string
	Location    string
	Status      string `gorm:"not null;default:active"`
	PublicToken string `gorm:"size:32;uniqueIndex"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Guest struct {
	ID             uint   `gorm:"primaryKey"`
	EventID        uint   `gorm:"not null;uniqueIndex:idx_guests_event_employee"`
	Company        string `gorm:"size:32"`
	EmployeeNumber string `gorm:"size:64;not null;uniqueIndex:idx_guests_event_employee"`
	FullName       string `gorm:"not null"`
	Email          string
	WorkArea       string
	JobLevel       string
	Location       string
	HireDate       *time.Time
	Description    string `gorm:"size:64"`
	RaffleCategory string
	QRCode         string `gorm:"size:32;not null;uniqueIndex:idx_guests_qr_code"`
	EmailSent      bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Prize struct {
	ID           uint   `gorm:"primaryKey"`
	EventID      uint   `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	Description  string
	Category     *string
	Stock        int     `gorm:"not null;default:0;check:chk_prizes_stock,stock >= 0"`
	InitialStock int     `gorm:"not null;default:0"`
	Value        float64 `gorm:"not null;default:0"`
	Image        string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Attendance struct {
	ID            uint   `gorm:"primaryKey"`
	EventID       uint   `gorm:"not null;uniqueIndex:idx_attendances_event_guest"`
	GuestID       uint   `gorm:"not null;uniqueIndex:idx_attendances_event_guest"`
	Guest         *Guest `gorm:"foreignKey:GuestID"`
	ScannedAt     time.Time
	ScannedBy     string
	ScanCount     int `gorm:"not null;default:1"`
	LastScannedAt time.Time
	ScanMetadata  datatypes.JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RaffleEntry struct {
	ID             uint   `gorm:"primaryKey"`
	EventID        uint   `gorm:"not null;index"`
	GuestID        uint   `gorm:"not null;uniqueIndex:idx_raffle_entries_guest_prize"`
	Guest          *Guest `gorm:"foreignKey:GuestID"`
	PrizeID        *uint  `gorm:"uniqueIndex:idx_raffle_entries_guest_prize"`
	Status         string `gorm:"size:16;not null;default:pending;index"`
	Position       *int
	ParticipatedAt time.Time
	DrawnAt        *time.Time
	PrizeDelivered bool `gorm:"not null;default:false"`
	DeliveredAt    *time.Time
	DeliveredBy    *uint
	Metadata       datatypes.JSON `gorm:"column:raffle_metadata"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RaffleLog struct {
	ID         uint   `gorm:"primaryKey"`
	DrawID     string `gorm:"size:36;index"`
	EventID    uint   `gorm:"not null;index"`
	UserID     *uint
	PrizeID    uint   `gorm:"not null;index:idx_raffle_logs_prize_guest"`
	Prize      *Prize `gorm:"foreignKey:PrizeID"`
	GuestID    uint   `gorm:"not null;index:idx_raffle_logs_prize_guest"`
	Guest      *Guest `gorm:"foreignKey:GuestID"`
	EntryID    uint
	RaffleType string `gorm:"size:16;not null"`
	Seed       int64
	Candidates int
	Confirmed  bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
}

type AuditLog struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      *uint  `gorm:"index"`
	EventID     uint   `gorm:"index"`
	Action      string `gorm:"size:32;not null;index"`
	Model       string `gorm:"size:32;not null;index:idx_audit_logs_model"`
	ModelID     uint   `gorm:"index:idx_audit_logs_model"`
	Description string
	OldValues   datatypes.JSON
	NewValues   datatypes.JSON
	IPAddress   string `gorm:"size:64"`
	UserAgent   string
	CreatedAt   time.Time
}
