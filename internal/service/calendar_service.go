package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/mapper"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
)

// OutlookSync mirrors calendar events to the creator's Outlook calendar.
// Implementations surface ErrMicrosoftAuthExpired when the token refresh
// fails; any other error is logged and ignored so local state stays
// authoritative.
type OutlookSync interface {
	CreateEvent(ctx context.Context, userEmail string, event *domain.CalendarEvent) (string, error)
	DeleteEvent(ctx context.Context, userEmail string, outlookEventID string) error
}

// CalendarService handles business logic for calendar events
type CalendarService struct {
	calendarRepo *repository.CalendarRepository
	userRepo     *repository.UserRepository
	outlook      OutlookSync
	logger       *zap.Logger
}

// NewCalendarService creates a new CalendarService. The outlook sync may be
// nil when Outlook integration is disabled.
func NewCalendarService(
	calendarRepo *repository.CalendarRepository,
	userRepo *repository.UserRepository,
	outlook OutlookSync,
	logger *zap.Logger,
) *CalendarService {
	return &CalendarService{
		calendarRepo: calendarRepo,
		userRepo:     userRepo,
		outlook:      outlook,
		logger:       logger,
	}
}

// Create registers a calendar event. End time must lie strictly after
// start time.
func (s *CalendarService) Create(ctx context.Context, req *domain.CreateEventRequest, createdByID uuid.UUID) (*domain.CalendarEventDTO, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	status := req.Status
	if status == "" {
		status = domain.EventStatusPlanned
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown event status %q", ErrInvalidInput, status)
	}

	event := &domain.CalendarEvent{
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		Status:          status,
		LinkedInquiryID: req.LinkedInquiryID,
		AssignedToID:    req.AssignedToID,
		CreatedByID:     createdByID,
	}

	if err := s.calendarRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := s.syncToOutlook(ctx, event); err != nil {
		return nil, err
	}

	dto := mapper.ToCalendarEventDTO(event)
	return &dto, nil
}

// GetByID retrieves a calendar event
func (s *CalendarService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEventDTO, error) {
	event, err := s.calendarRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	dto := mapper.ToCalendarEventDTO(event)
	return &dto, nil
}

// Update applies a partial update. When only one of the two times is
// supplied, it is validated against the stored value of the other.
func (s *CalendarService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateEventRequest) (*domain.CalendarEventDTO, error) {
	event, err := s.calendarRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	start := event.StartTime
	end := event.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown event status %q", ErrInvalidInput, *req.Status)
		}
		event.Status = *req.Status
	}
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.LinkedInquiryID != nil {
		event.LinkedInquiryID = req.LinkedInquiryID
	}
	if req.AssignedToID != nil {
		event.AssignedToID = req.AssignedToID
	}
	event.StartTime = start
	event.EndTime = end

	if err := s.calendarRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	dto := mapper.ToCalendarEventDTO(event)
	return &dto, nil
}

// Delete removes a calendar event, dropping the Outlook mirror when one
// exists.
func (s *CalendarService) Delete(ctx context.Context, id uuid.UUID) error {
	event, err := s.calendarRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}

	if s.outlook != nil && event.OutlookEventID != "" {
		creator, err := s.userRepo.GetByID(ctx, event.CreatedByID)
		if err == nil {
			if err := s.outlook.DeleteEvent(ctx, creator.Email, event.OutlookEventID); err != nil {
				if errors.Is(err, ErrMicrosoftAuthExpired) {
					return err
				}
				s.logger.Warn("failed to delete outlook mirror",
					zap.String("eventID", id.String()),
					zap.Error(err))
			}
		}
	}

	if err := s.calendarRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// List returns events inside an optional start-time window, both ends
// inclusive, earliest first.
func (s *CalendarService) List(ctx context.Context, from, to *time.Time) ([]domain.CalendarEventDTO, error) {
	events, err := s.calendarRepo.ListInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return toEventDTOs(events), nil
}

// ByDay returns the events of a single calendar day
func (s *CalendarService) ByDay(ctx context.Context, date time.Time) ([]domain.CalendarEventDTO, error) {
	from, to := dayWindow(date)
	return s.List(ctx, &from, &to)
}

// ByWeek returns the events of the 7-day window starting at the given day
func (s *CalendarService) ByWeek(ctx context.Context, start time.Time) ([]domain.CalendarEventDTO, error) {
	from, _ := dayWindow(start)
	_, to := dayWindow(start.AddDate(0, 0, 6))
	return s.List(ctx, &from, &to)
}

// ByMonth returns the events of a calendar month
func (s *CalendarService) ByMonth(ctx context.Context, year int, month time.Month) ([]domain.CalendarEventDTO, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Millisecond)
	return s.List(ctx, &from, &to)
}

// syncToOutlook mirrors a freshly created event when the creator has an
// Outlook session. An expired session is surfaced; other sync errors only
// log.
func (s *CalendarService) syncToOutlook(ctx context.Context, event *domain.CalendarEvent) error {
	if s.outlook == nil {
		return nil
	}

	creator, err := s.userRepo.GetByID(ctx, event.CreatedByID)
	if err != nil {
		s.logger.Warn("cannot resolve event creator for outlook sync",
			zap.String("eventID", event.ID.String()),
			zap.Error(err))
		return nil
	}

	outlookID, err := s.outlook.CreateEvent(ctx, creator.Email, event)
	if err != nil {
		if errors.Is(err, ErrMicrosoftAuthExpired) {
			return err
		}
		s.logger.Warn("outlook sync failed",
			zap.String("eventID", event.ID.String()),
			zap.Error(err))
		return nil
	}

	event.OutlookEventID = outlookID
	if err := s.calendarRepo.Update(ctx, event); err != nil {
		s.logger.Warn("failed to store outlook event id",
			zap.String("eventID", event.ID.String()),
			zap.Error(err))
	}
	return nil
}

// dayWindow returns the inclusive bounds of a calendar day
func dayWindow(date time.Time) (time.Time, time.Time) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1).Add(-time.Millisecond)
	return from, to
}

func toEventDTOs(events []domain.CalendarEvent) []domain.CalendarEventDTO {
	dtos := make([]domain.CalendarEventDTO, len(events))
	for i, event := range events {
		dtos[i] = mapper.ToCalendarEventDTO(&event)
	}
	return dtos
}
