package dao

import (
	"context"

	"gorm.io/gorm"
)

type AuditFilter struct {
	EventID *uint
	Model   string
	Action  string
	UserID  *uint
	Limit   int
	Offset  int
}

type AuditDAO struct {
	db *gorm.DB
}

func NewAuditDAO(db *gorm.DB) *AuditDAO {
	return &AuditDAO{
		db: db,
	}
}

func (d *AuditDAO) Insert(ctx context.Context, log AuditLog) (AuditLog, error) {
	if err := d.db.WithContext(ctx).Create(&log).Error; err != nil {
		return AuditLog{}, err
	}

	return log, nil
}

func (d *AuditDAO) Find(ctx context.Context, filter AuditFilter) ([]AuditLog, error) {
	var logs []AuditLog

	q := d.db.WithContext(ctx).Model(&AuditLog{})
	if filter.EventID != nil {
		q = q.Where("event_id = ?", *filter.EventID)
	}
	if filter.Model != "" {
		q = q.Where("model = ?", filter.Model)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(filter.Offset).Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}
