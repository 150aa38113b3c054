package dao

import (
	"context"

	"gorm.io/gorm"
)

type PrizeDAO struct {
	db *gorm.DB
}

func NewPrizeDAO(db *gorm.DB) *PrizeDAO {
	return &PrizeDAO{
		db: db,
	}
}

func (d *PrizeDAO) Insert(ctx context.Context, prize Prize) (Prize, error) {
	if err := d.db.WithContext(ctx).Create(&prize).Error; err != nil {
		return Prize{}, err
	}

	return prize, nil
}

func (d *PrizeDAO) FindByID(ctx context.Context, id uint) (Prize, error) {
	var prize Prize

	if err := d.db.WithContext(ctx).First(&prize, id).Error; err != nil {
		return Prize{}, notFound(err, ErrPrizeNotFound)
	}

	return prize, nil
}

func (d *PrizeDAO) FindByName(ctx context.Context, eventID uint, name string) (Prize, error) {
	var prize Prize

	err := d.db.WithContext(ctx).
		Where("event_id = ? AND name = ?", eventID, name).
		Order("id").
		First(&prize).Error
	if err != nil {
		return Prize{}, notFound(err, ErrPrizeNotFound)
	}

	return prize, nil
}

// FindByEvent lists the event's prizes. excludeName, when set, filters out prizes with that name.
func (d *PrizeDAO) FindByEvent(ctx context.Context, eventID uint, activeOnly bool, excludeName string) ([]Prize, error) {
	var prizes []Prize

	q := d.db.WithContext(ctx).Where("event_id = ?", eventID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if excludeName != "" {
		q = q.Where("name <> ?", excludeName)
	}

	if err := q.Order("id").Find(&prizes).Error; err != nil {
		return nil, err
	}

	return prizes, nil
}

// Update never touches stock; that column belongs to the draw transactions.
func (d *PrizeDAO) Update(ctx context.Context, prize Prize) (Prize, error) {
	result := d.db.WithContext(ctx).Model(&Prize{ID: prize.ID}).
		Select("name", "description", "category", "value", "active").
		Updates(&prize)
	if result.Error != nil {
		return Prize{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Prize{}, ErrPrizeNotFound
	}

	return d.FindByID(ctx, prize.ID)
}

func (d *PrizeDAO) UpdateImage(ctx context.Context, id uint, image string) error {
	result := d.db.WithContext(ctx).Model(&Prize{}).Where("id = ?", id).Update("image", image)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPrizeNotFound
	}

	return nil
}

func (d *PrizeDAO) Deactivate(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Model(&Prize{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPrizeNotFound
	}

	return nil
}
