package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/clock"
)

type AttendanceRepository interface {
	RecordScan(ctx context.Context, eventID, guestID uint, scannedBy string, metadata map[string]interface{}, at time.Time, maxScans int) (domain.Attendance, bool, error)
	FindByID(ctx context.Context, id uint) (domain.Attendance, error)
	FindByEvent(ctx context.Context, eventID uint) ([]domain.Attendance, error)
	Delete(ctx context.Context, id uint) error
}

type AttendanceGuestRepository interface {
	FindByQRCode(ctx context.Context, eventID uint, qrCode string) (domain.Guest, error)
	FindByEmployeeNumber(ctx context.Context, eventID uint, employeeNumber string) (domain.Guest, error)
}

// AutoEntrant enters a newly arrived guest into the event's raffles.
type AutoEntrant interface {
	AutoEnter(ctx context.Context, guest domain.Guest, attendanceID uint) int
}

type AttendanceService struct {
	repo     AttendanceRepository
	guests   AttendanceGuestRepository
	events   RaffleEventRepository
	entrant  AutoEntrant
	clock    clock.Clock
	maxScans int

	notifier  Notifier
	auditor   Auditor
	publisher Publisher
}

func NewAttendanceService(
	repo AttendanceRepository,
	guests AttendanceGuestRepository,
	events RaffleEventRepository,
	entrant AutoEntrant,
	clk clock.Clock,
	maxScans int,
	notifier Notifier,
	auditor Auditor,
	publisher Publisher,
) *AttendanceService {
	if maxScans <= 0 {
		maxScans = domain.MaxScanCount
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if auditor == nil {
		auditor = noopAuditor{}
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}

	return &AttendanceService{
		repo:      repo,
		guests:    guests,
		events:    events,
		entrant:   entrant,
		clock:     clk,
		maxScans:  maxScans,
		notifier:  notifier,
		auditor:   auditor,
		publisher: publisher,
	}
}

// Scan records the arrival of the guest owning qrData. The first scan creates the attendance and
// enters the guest into the raffles; one more scan is allowed for a companion.
func (s *AttendanceService) Scan(ctx context.Context, eventID uint, qrData, scannedBy string, metadata map[string]interface{}) (domain.ScanResult, error) {
	event, err := s.activeEvent(ctx, eventID)
	if err != nil {
		return domain.ScanResult{}, err
	}

	guest, err := s.guests.FindByQRCode(ctx, eventID, strings.TrimSpace(qrData))
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("s.guests.FindByQRCode -> %w", err)
	}

	return s.record(ctx, event, guest, scannedBy, metadata)
}

// RegisterManual records attendance by employee number, for guests who arrive without their QR code.
func (s *AttendanceService) RegisterManual(ctx context.Context, eventID uint, employeeNumber, registeredBy string, metadata map[string]interface{}) (domain.ScanResult, error) {
	event, err := s.activeEvent(ctx, eventID)
	if err != nil {
		return domain.ScanResult{}, err
	}

	guest, err := s.guests.FindByEmployeeNumber(ctx, eventID, strings.TrimSpace(employeeNumber))
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("s.guests.FindByEmployeeNumber -> %w", err)
	}

	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["manual"] = true

	return s.record(ctx, event, guest, registeredBy, metadata)
}

func (s *AttendanceService) activeEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}
	if !event.IsActive() {
		return domain.Event{}, ErrEventInactive
	}

	return event, nil
}

func (s *AttendanceService) record(ctx context.Context, event domain.Event, guest domain.Guest, scannedBy string, metadata map[string]interface{}) (domain.ScanResult, error) {
	now := s.clock.Now()

	attendance, first, err := s.repo.RecordScan(ctx, event.ID, guest.ID, scannedBy, metadata, now, s.maxScans)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("s.repo.RecordScan -> %w", err)
	}
	attendance.Guest = &guest

	result := domain.ScanResult{
		Attendance: attendance,
		Guest:      guest,
		FirstScan:  first,
	}

	if first {
		if guest.HasEmail() {
			s.notifier.Dispatch(ctx, domain.Notification{
				Kind:      domain.NotificationAttendanceConfirmation,
				EventID:   event.ID,
				GuestID:   guest.ID,
				GuestName: guest.FullName,
				Email:     guest.Email,
				EventName: event.Name,
			})
		}
		result.AutoEntries = s.entrant.AutoEnter(ctx, guest, attendance.ID)
	}

	s.auditor.Record(ctx, domain.ChangeRecord{
		Action:      domain.AuditActionScan,
		EntityType:  domain.EntityAttendance,
		EntityID:    attendance.ID,
		EventID:     event.ID,
		Description: fmt.Sprintf("%s scanned (%d/%d)", guest.FullName, attendance.ScanCount, s.maxScans),
		NewValues:   domain.AuditValues(attendance),
		Actor:       ActorFromContext(ctx),
		Timestamp:   now,
	})

	s.publisher.Publish(ctx, domain.TopicAttendanceRecorded, event.ID, result)

	return result, nil
}

func (s *AttendanceService) List(ctx context.Context, eventID uint) ([]domain.Attendance, error) {
	attendances, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEvent -> %w", err)
	}

	return attendances, nil
}

func (s *AttendanceService) Delete(ctx context.Context, eventID, attendanceID uint) error {
	attendance, err := s.repo.FindByID(ctx, attendanceID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if attendance.EventID != eventID {
		return ErrAttendanceNotFound
	}

	if err = s.repo.Delete(ctx, attendanceID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.auditor.Record(ctx, domain.ChangeRecord{
		Action:     domain.AuditActionDeleted,
		EntityType: domain.EntityAttendance,
		EntityID:   attendance.ID,
		EventID:    eventID,
		OldValues:  domain.AuditValues(attendance),
		Actor:      ActorFromContext(ctx),
		Timestamp:  s.clock.Now(),
	})

	return nil
}
