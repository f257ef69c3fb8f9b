package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
)

// EventRepository event storage. Events are never updated or deleted.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	// List returns events newest-first by id; a non-nil creatorID restricts to that creator
	List(ctx context.Context, creatorID *uint64) ([]model.Event, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates an EventRepository
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) List(ctx context.Context, creatorID *uint64) ([]model.Event, error) {
	var events []model.Event
	db := r.db.WithContext(ctx)

	if creatorID != nil {
		db = db.Where("creator_id = ?", *creatorID)
	}

	err := db.Order("id DESC").Find(&events).Error
	return events, err
}
