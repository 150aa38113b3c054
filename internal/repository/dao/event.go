package dao

import (
	"context"

	"gorm.io/gorm"
)

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	if err := d.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return Event{}, notFound(err, ErrEventNotFound)
	}

	return event, nil
}

func (d *EventDAO) FindByPublicToken(ctx context.Context, token string) (Event, error) {
	var event Event

	if err := d.db.WithContext(ctx).First(&event, "public_token = ?", token).Error; err != nil {
		return Event{}, notFound(err, ErrEventNotFound)
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	if err := d.db.WithContext(ctx).Order("event_date DESC, id DESC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Model(&Event{ID: event.ID}).
		Select("name", "description", "event_date", "start_time", "end_time", "location", "status").
		Updates(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, event.ID)
}

// Delete removes the event together with everything it owns.
func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&RaffleLog{}, &RaffleEntry{}, &Attendance{}, &Prize{}, &Guest{}} {
			if err := tx.Where("event_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}

		return nil
	})
}
