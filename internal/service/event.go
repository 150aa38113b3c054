package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/clock"
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindByPublicToken(ctx context.Context, token string) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
}

type EventStatsRepository interface {
	AttendanceCounts(ctx context.Context, eventID uint) (guests, attendances int64, err error)
}

type EventService struct {
	repo    EventRepository
	stats   EventStatsRepository
	auditor Auditor
	clock   clock.Clock
}

func NewEventService(repo EventRepository, stats EventStatsRepository, auditor Auditor, clk clock.Clock) *EventService {
	if auditor == nil {
		auditor = noopAuditor{}
	}

	return &EventService{
		repo:    repo,
		stats:   stats,
		auditor: auditor,
		clock:   clk,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	token, err := publicToken()
	if err != nil {
		return domain.Event{}, err
	}
	event.PublicToken = token
	if event.Status == "" {
		event.Status = domain.EventStatusActive
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.audit(ctx, domain.AuditActionCreated, created.ID, nil, &created)

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	current, err := s.repo.FindByID(ctx, event.ID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	event.UserID = current.UserID
	event.PublicToken = current.PublicToken
	if event.Status == "" {
		event.Status = current.Status
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.audit(ctx, domain.AuditActionUpdated, updated.ID, &current, &updated)

	return updated, nil
}

// DeleteEvent removes the event with its guests, prizes, attendances and entries.
func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.audit(ctx, domain.AuditActionDeleted, id, &current, nil)

	return nil
}

// PublicSummary resolves the public page of an event by its token.
func (s *EventService) PublicSummary(ctx context.Context, token string) (domain.PublicEvent, error) {
	event, err := s.repo.FindByPublicToken(ctx, token)
	if err != nil {
		return domain.PublicEvent{}, fmt.Errorf("s.repo.FindByPublicToken -> %w", err)
	}

	guests, attendances, err := s.stats.AttendanceCounts(ctx, event.ID)
	if err != nil {
		return domain.PublicEvent{}, fmt.Errorf("s.stats.AttendanceCounts -> %w", err)
	}
	event.PublicToken = ""

	return domain.PublicEvent{
		Event:      event,
		Attendance: attendanceStats(guests, attendances),
	}, nil
}

func (s *EventService) audit(ctx context.Context, action string, id uint, before, after *domain.Event) {
	rec := domain.ChangeRecord{
		Action:     action,
		EntityType: domain.EntityEvent,
		EntityID:   id,
		EventID:    id,
		Actor:      ActorFromContext(ctx),
		Timestamp:  s.clock.Now(),
	}
	if before != nil {
		rec.OldValues = domain.AuditValues(before)
	}
	if after != nil {
		rec.NewValues = domain.AuditValues(after)
		rec.Description = after.Name
	}

	s.auditor.Record(ctx, rec)
}

func publicToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read -> %w", err)
	}
	return hex.EncodeToString(b), nil
}
