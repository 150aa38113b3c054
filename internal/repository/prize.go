package repository

import (
	"context"
	"fmt"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository/dao"
)

type PrizeDAO interface {
	Insert(ctx context.Context, prize dao.Prize) (dao.Prize, error)
	FindByID(ctx context.Context, id uint) (dao.Prize, error)
	FindByName(ctx context.Context, eventID uint, name string) (dao.Prize, error)
	FindByEvent(ctx context.Context, eventID uint, activeOnly bool, excludeName string) ([]dao.Prize, error)
	Update(ctx context.Context, prize dao.Prize) (dao.Prize, error)
	UpdateImage(ctx context.Context, id uint, image string) error
	Deactivate(ctx context.Context, id uint) error
}

type PrizeRepository struct {
	dao PrizeDAO
}

func NewPrizeRepository(dao PrizeDAO) *PrizeRepository {
	return &PrizeRepository{
		dao: dao,
	}
}

func (r *PrizeRepository) Create(ctx context.Context, prize domain.Prize) (domain.Prize, error) {
	created, err := r.dao.Insert(ctx, prizeToDAO(prize))
	if err != nil {
		return domain.Prize{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return prizeToDomain(created), nil
}

func (r *PrizeRepository) FindByID(ctx context.Context, id uint) (domain.Prize, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return prizeToDomain(found), nil
}

func (r *PrizeRepository) FindGeneralPool(ctx context.Context, eventID uint) (domain.Prize, error) {
	found, err := r.dao.FindByName(ctx, eventID, domain.GeneralRafflePrizeName)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return prizeToDomain(found), nil
}

// FindByEvent lists prizes of the event. The general pool prize is included only when asked for.
func (r *PrizeRepository) FindByEvent(ctx context.Context, eventID uint, activeOnly, includeGeneral bool) ([]domain.Prize, error) {
	exclude := domain.GeneralRafflePrizeName
	if includeGeneral {
		exclude = ""
	}

	found, err := r.dao.FindByEvent(ctx, eventID, activeOnly, exclude)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	prizes := make([]domain.Prize, 0, len(found))
	for _, p := range found {
		prizes = append(prizes, prizeToDomain(p))
	}

	return prizes, nil
}

func (r *PrizeRepository) Update(ctx context.Context, prize domain.Prize) (domain.Prize, error) {
	updated, err := r.dao.Update(ctx, prizeToDAO(prize))
	if err != nil {
		return domain.Prize{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return prizeToDomain(updated), nil
}

func (r *PrizeRepository) UpdateImage(ctx context.Context, id uint, image string) error {
	if err := r.dao.UpdateImage(ctx, id, image); err != nil {
		return fmt.Errorf("r.dao.UpdateImage -> %w", err)
	}

	return nil
}

func (r *PrizeRepository) Deactivate(ctx context.Context, id uint) error {
	if err := r.dao.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Deactivate -> %w", err)
	}

	return nil
}
