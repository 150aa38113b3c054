package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/clock"
)

const qrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type GuestRepository interface {
	Create(ctx context.Context, guest domain.Guest) (domain.Guest, error)
	FindByID(ctx context.Context, id uint) (domain.Guest, error)
	FindByEvent(ctx context.Context, eventID uint) ([]domain.Guest, error)
	Update(ctx context.Context, guest domain.Guest) (domain.Guest, error)
	Delete(ctx context.Context, id uint) error
}

type GuestService struct {
	repo    GuestRepository
	events  RaffleEventRepository
	auditor Auditor
	clock   clock.Clock
}

func NewGuestService(repo GuestRepository, events RaffleEventRepository, auditor Auditor, clk clock.Clock) *GuestService {
	if auditor == nil {
		auditor = noopAuditor{}
	}

	return &GuestService{
		repo:    repo,
		events:  events,
		auditor: auditor,
		clock:   clk,
	}
}

// CreateGuest registers a guest and issues their QR code. Employee numbers are unique per event.
func (s *GuestService) CreateGuest(ctx context.Context, guest domain.Guest) (domain.Guest, error) {
	if _, err := s.events.FindByID(ctx, guest.EventID); err != nil {
		return domain.Guest{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	qr, err := newQRCode()
	if err != nil {
		return domain.Guest{}, err
	}
	guest.QRCode = qr
	guest.EmployeeNumber = strings.TrimSpace(guest.EmployeeNumber)

	created, err := s.repo.Create(ctx, guest)
	if err != nil {
		return domain.Guest{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.auditor.Record(ctx, domain.ChangeRecord{
		Action:      domain.AuditActionCreated,
		EntityType:  domain.EntityGuest,
		EntityID:    created.ID,
		EventID:     created.EventID,
		Description: created.FullName,
		NewValues:   domain.AuditValues(created),
		Actor:       ActorFromContext(ctx),
		Timestamp:   s.clock.Now(),
	})

	return created, nil
}

func (s *GuestService) GetGuest(ctx context.Context, eventID, guestID uint) (domain.Guest, error) {
	guest, err := s.repo.FindByID(ctx, guestID)
	if err != nil {
		return domain.Guest{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if guest.EventID != eventID {
		return domain.Guest{}, ErrGuestNotFound
	}

	return guest, nil
}

func (s *GuestService) ListGuests(ctx context.Context, eventID uint) ([]domain.Guest, error) {
	guests, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEvent -> %w", err)
	}

	return guests, nil
}

// UpdateGuest keeps the QR code and email state of the stored guest.
func (s *GuestService) UpdateGuest(ctx context.Context, guest domain.Guest) (domain.Guest, error) {
	current, err := s.GetGuest(ctx, guest.EventID, guest.ID)
	if err != nil {
		return domain.Guest{}, err
	}
	guest.QRCode = current.QRCode
	guest.EmailSent = current.EmailSent
	guest.EmployeeNumber = strings.TrimSpace(guest.EmployeeNumber)

	updated, err := s.repo.Update(ctx, guest)
	if err != nil {
		return domain.Guest{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.auditor.Record(ctx, domain.ChangeRecord{
		Action:      domain.AuditActionUpdated,
		EntityType:  domain.EntityGuest,
		EntityID:    updated.ID,
		EventID:     updated.EventID,
		Description: updated.FullName,
		OldValues:   domain.AuditValues(current),
		NewValues:   domain.AuditValues(updated),
		Actor:       ActorFromContext(ctx),
		Timestamp:   s.clock.Now(),
	})

	return updated, nil
}

// DeleteGuest removes a guest with their attendance and raffle entries. Guests holding a won
// entry are refused until the draw is cancelled.
func (s *GuestService) DeleteGuest(ctx context.Context, eventID, guestID uint) error {
	current, err := s.GetGuest(ctx, eventID, guestID)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, guestID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.auditor.Record(ctx, domain.ChangeRecord{
		Action:      domain.AuditActionDeleted,
		EntityType:  domain.EntityGuest,
		EntityID:    current.ID,
		EventID:     current.EventID,
		Description: current.FullName,
		OldValues:   domain.AuditValues(current),
		Actor:       ActorFromContext(ctx),
		Timestamp:   s.clock.Now(),
	})

	return nil
}

func newQRCode() (string, error) {
	var b strings.Builder
	b.WriteString("QR-")

	max := big.NewInt(int64(len(qrAlphabet)))
	for i := 0; i < 10; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("rand.Int -> %w", err)
		}
		b.WriteByte(qrAlphabet[n.Int64()])
	}

	return b.String(), nil
}
