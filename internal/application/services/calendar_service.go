package services

import (
	"context"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// CalendarService manages events that belong to a single user
type CalendarService struct {
	eventRepo ports.CalendarEventRepository
	logger    *logger.Logger
	now       Clock
}

// NewCalendarService creates a new calendar service
func NewCalendarService(eventRepo ports.CalendarEventRepository, logger *logger.Logger) *CalendarService {
	return &CalendarService{
		eventRepo: eventRepo,
		logger:    logger.WithComponent("calendar_service"),
		now:       UTCClock,
	}
}

// CreateEvent always records the actor as owner
func (s *CalendarService) CreateEvent(ctx context.Context, actor entities.Actor, req ports.CreateCalendarEventRequest) (*entities.CalendarEvent, error) {
	title, err := requiredText("title", req.Title)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := &entities.CalendarEvent{
		Title:       title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		OwnerID:     actor.UserID,
		CalendarID:  req.CalendarID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Infow("Calendar event created", "event_id", event.ID, "user_id", actor.UserID)
	return event, nil
}

func (s *CalendarService) ListEvents(ctx context.Context, actor entities.Actor, filter ports.CalendarEventFilter) ([]*entities.CalendarEvent, int, error) {
	filter.OwnerID = actor.UserID
	return s.eventRepo.List(ctx, filter)
}

func (s *CalendarService) GetEvent(ctx context.Context, actor entities.Actor, id int64) (*entities.CalendarEvent, error) {
	return s.eventRepo.GetByID(ctx, id, actor.UserID)
}

func (s *CalendarService) UpdateEvent(ctx context.Context, actor entities.Actor, id int64, req ports.UpdateCalendarEventRequest) (*entities.CalendarEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if event.Title, err = requiredText("title", *req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartTime != nil {
		event.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime.UTC()
	}
	if req.CalendarID != nil {
		event.CalendarID = *req.CalendarID
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *CalendarService) DeleteEvent(ctx context.Context, actor entities.Actor, id int64) error {
	return s.eventRepo.Delete(ctx, id, actor.UserID)
}
