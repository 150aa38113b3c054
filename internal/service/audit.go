package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/eventbus"
)

type AuditRepository interface {
	Create(ctx context.Context, rec domain.ChangeRecord) (domain.AuditLog, error)
	Find(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLog, error)
}

// AuditExporter ships change records to an external stream.
type AuditExporter interface {
	Export(ctx context.Context, rec domain.ChangeRecord) error
}

// AuditService filters change records through the entity field policies and
// hands them to the bus. Persistence happens in the bus subscribers.
type AuditService struct {
	repo      AuditRepository
	publisher Publisher
}

func NewAuditService(repo AuditRepository, publisher Publisher) *AuditService {
	if publisher == nil {
		publisher = noopPublisher{}
	}

	return &AuditService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *AuditService) Record(ctx context.Context, rec domain.ChangeRecord) {
	policy := domain.PolicyFor(rec.EntityType)
	rec.OldValues = policy.Filter(rec.OldValues)
	rec.NewValues = policy.Filter(rec.NewValues)

	s.publisher.Publish(ctx, domain.TopicAuditRecorded, rec.EventID, rec)
}

func (s *AuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLog, error) {
	logs, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return logs, nil
}

// Store is the bus handler that persists audit records.
func (s *AuditService) Store(ctx context.Context, msg eventbus.Message) {
	rec, ok := msg.Payload.(domain.ChangeRecord)
	if !ok {
		return
	}

	if _, err := s.repo.Create(ctx, rec); err != nil {
		zap.L().Error("audit: store record failed",
			zap.String("entity", rec.EntityType), zap.Uint("entity_id", rec.EntityID), zap.Error(err))
	}
}

// ExportTo returns a bus handler forwarding audit records to exp.
func ExportTo(exp AuditExporter) eventbus.Handler {
	return func(ctx context.Context, msg eventbus.Message) {
		rec, ok := msg.Payload.(domain.ChangeRecord)
		if !ok {
			return
		}

		if err := exp.Export(ctx, rec); err != nil {
			zap.L().Warn("audit: export failed",
				zap.String("entity", rec.EntityType), zap.Uint("entity_id", rec.EntityID), zap.Error(err))
		}
	}
}
