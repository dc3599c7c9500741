package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
)

type CalendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

func (r *CalendarRepository) Create(ctx context.Context, event *domain.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *CalendarRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	var event domain.CalendarEvent
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *CalendarRepository) Update(ctx context.Context, event *domain.CalendarEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *CalendarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.CalendarEvent{}, "id = ?", id).Error
}

// ListInRange returns events whose start time falls inside the window,
// both endpoints inclusive, ordered by start time ascending. Nil bounds
// leave that side of the window open.
func (r *CalendarRepository) ListInRange(ctx context.Context, from, to *time.Time) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent

	query := r.db.WithContext(ctx).Model(&domain.CalendarEvent{})
	if from != nil {
		query = query.Where("start_time >= ?", *from)
	}
	if to != nil {
		query = query.Where("start_time <= ?", *to)
	}

	err := query.Order("start_time ASC").Find(&events).Error
	return events, err
}
