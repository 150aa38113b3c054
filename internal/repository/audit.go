package repository

import (
	"context"
	"fmt"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository/dao"
)

type AuditDAO interface {
	Insert(ctx context.Context, log dao.AuditLog) (dao.AuditLog, error)
	Find(ctx context.Context, filter dao.AuditFilter) ([]dao.AuditLog, error)
}

type AuditRepository struct {
	dao AuditDAO
}

func NewAuditRepository(dao AuditDAO) *AuditRepository {
	return &AuditRepository{
		dao: dao,
	}
}

func (r *AuditRepository) Create(ctx context.Context, rec domain.ChangeRecord) (domain.AuditLog, error) {
	created, err := r.dao.Insert(ctx, dao.AuditLog{
		UserID:      rec.Actor.UserID,
		EventID:     rec.EventID,
		Action:      rec.Action,
		Model:       rec.EntityType,
		ModelID:     rec.EntityID,
		Description: rec.Description,
		OldValues:   toJSON(rec.OldValues),
		NewValues:   toJSON(rec.NewValues),
		IPAddress:   rec.Actor.IPAddress,
		UserAgent:   rec.Actor.UserAgent,
		CreatedAt:   rec.Timestamp,
	})
	if err != nil {
		return domain.AuditLog{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return auditLogToDomain(created), nil
}

func (r *AuditRepository) Find(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLog, error) {
	found, err := r.dao.Find(ctx, dao.AuditFilter{
		EventID: filter.EventID,
		Model:   filter.Model,
		Action:  filter.Action,
		UserID:  filter.UserID,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	logs := make([]domain.AuditLog, 0, len(found))
	for _, l := range found {
		logs = append(logs, auditLogToDomain(l))
	}

	return logs, nil
}
