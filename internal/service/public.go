package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type PublicEventRepository interface {
	FindByPublicToken(ctx context.Context, token string) (domain.Event, error)
}

type PublicGuestRepository interface {
	FindByCredentials(ctx context.Context, eventID uint, credentials string) (domain.Guest, error)
	FindByQRCode(ctx context.Context, eventID uint, qrCode string) (domain.Guest, error)
}

type PublicAttendanceRepository interface {
	FindByGuest(ctx context.Context, eventID, guestID uint) (domain.Attendance, error)
}

// PublicGuestService lets guests find their own invitation through the event's public token.
type PublicGuestService struct {
	events     PublicEventRepository
	guests     PublicGuestRepository
	attendance PublicAttendanceRepository
}

func NewPublicGuestService(events PublicEventRepository, guests PublicGuestRepository, attendance PublicAttendanceRepository) *PublicGuestService {
	return &PublicGuestService{
		events:     events,
		guests:     guests,
		attendance: attendance,
	}
}

// LookupGuest resolves credentials of the form company and employee number, joined by a dash,
// a space or nothing, e.g. "FXE-1234".
func (s *PublicGuestService) LookupGuest(ctx context.Context, token, credentials string) (domain.PublicGuest, error) {
	event, err := s.event(ctx, token)
	if err != nil {
		return domain.PublicGuest{}, err
	}

	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return domain.PublicGuest{}, ErrGuestNotFound
	}

	guest, err := s.guests.FindByCredentials(ctx, event.ID, credentials)
	if err != nil {
		return domain.PublicGuest{}, fmt.Errorf("s.guests.FindByCredentials -> %w", err)
	}

	return s.details(ctx, event, guest)
}

// GuestDetails returns the invitation of the guest holding qrCode.
func (s *PublicGuestService) GuestDetails(ctx context.Context, token, qrCode string) (domain.PublicGuest, error) {
	event, err := s.event(ctx, token)
	if err != nil {
		return domain.PublicGuest{}, err
	}

	guest, err := s.guests.FindByQRCode(ctx, event.ID, qrCode)
	if err != nil {
		return domain.PublicGuest{}, fmt.Errorf("s.guests.FindByQRCode -> %w", err)
	}

	return s.details(ctx, event, guest)
}

func (s *PublicGuestService) event(ctx context.Context, token string) (domain.Event, error) {
	event, err := s.events.FindByPublicToken(ctx, token)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.events.FindByPublicToken -> %w", err)
	}
	event.PublicToken = ""

	return event, nil
}

func (s *PublicGuestService) details(ctx context.Context, event domain.Event, guest domain.Guest) (domain.PublicGuest, error) {
	out := domain.PublicGuest{
		Event:          event,
		FullName:       guest.FullName,
		Company:        guest.Company,
		EmployeeNumber: guest.EmployeeNumber,
		Email:          guest.Email,
		WorkArea:       guest.WorkArea,
		Location:       guest.Location,
		RaffleCategory: guest.RaffleCategory,
		QRCode:         guest.QRCode,
	}

	attendance, err := s.attendance.FindByGuest(ctx, event.ID, guest.ID)
	switch {
	case errors.Is(err, ErrAttendanceNotFound):
	case err != nil:
		return domain.PublicGuest{}, fmt.Errorf("s.attendance.FindByGuest -> %w", err)
	default:
		scannedAt := attendance.ScannedAt
		out.HasAttended = true
		out.AttendedAt = &scannedAt
	}

	return out, nil
}
