package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Anirudha-Sai/Event-Attendance/internal/dto"
	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
	"github.com/Anirudha-Sai/Event-Attendance/internal/policy"
	"github.com/Anirudha-Sai/Event-Attendance/internal/repository"
	pkgerrors "github.com/Anirudha-Sai/Event-Attendance/pkg/errors"
)

// ── event errors ──

var (
	ErrEventNotFound      = fmt.Errorf("%w: event", pkgerrors.ErrNotFound)
	ErrEventTitleRequired = fmt.Errorf("%w: title is required", pkgerrors.ErrInvalidInput)
	ErrEventWhenInvalid   = fmt.Errorf("%w: when must be RFC3339 or YYYY-MM-DDTHH:MM", pkgerrors.ErrInvalidInput)
)

// datetimeLocalLayout value format of an HTML datetime-local input
const datetimeLocalLayout = "2006-01-02T15:04"

// calendarEventLength events carry no end time; feeds render them as one hour
const calendarEventLength = time.Hour

// EventService event registry
type EventService interface {
	Create(ctx context.Context, caller *policy.Caller, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	// ListFor returns the caller's visible events newest-first: conductors see
	// the events they created, HODs see all events.
	ListFor(ctx context.Context, caller *policy.Caller) ([]dto.EventResponse, error)
	Get(ctx context.Context, caller *policy.Caller, id uint64) (*dto.EventResponse, error)
	// View returns the event together with its enriched ledger
	View(ctx context.Context, caller *policy.Caller, id uint64) (*dto.EventDetailResponse, error)
	// Calendar renders ListFor as an iCalendar feed
	Calendar(ctx context.Context, caller *policy.Caller) ([]byte, error)
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewEventService creates an EventService
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger, now: utcNow}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, caller *policy.Caller, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if err := policy.Authorize(caller, policy.OpCreateEvent); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEventTitleRequired
	}
	when, err := parseEventTime(req.When)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		WhenAt:      when,
		CreatorID:   caller.ID,
		CreatedAt:   s.now(),
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("create event failed", zap.Uint64("creator_id", caller.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("event created", zap.Uint64("event_id", event.ID), zap.Uint64("creator_id", caller.ID))
	resp := toEventResponse(event)
	return &resp, nil
}

// ────────────────────── ListFor ──────────────────────

func (s *eventService) ListFor(ctx context.Context, caller *policy.Caller) ([]dto.EventResponse, error) {
	events, err := s.visibleEvents(ctx, caller)
	if err != nil {
		return nil, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, toEventResponse(&events[i]))
	}
	return result, nil
}

// ────────────────────── Get / View ──────────────────────

func (s *eventService) Get(ctx context.Context, caller *policy.Caller, id uint64) (*dto.EventResponse, error) {
	if err := policy.Authorize(caller, policy.OpViewEvent); err != nil {
		return nil, err
	}

	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) View(ctx context.Context, caller *policy.Caller, id uint64) (*dto.EventDetailResponse, error) {
	if err := policy.Authorize(caller, policy.OpViewEvent); err != nil {
		return nil, err
	}

	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Attendance.ListForEvent(ctx, id)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Uint64("event_id", id), zap.Error(err))
		return nil, err
	}

	return &dto.EventDetailResponse{
		Event:      toEventResponse(event),
		Attendance: toAttendanceRowResponses(rows),
	}, nil
}

// ────────────────────── Calendar ──────────────────────

func (s *eventService) Calendar(ctx context.Context, caller *policy.Caller) ([]byte, error) {
	events, err := s.visibleEvents(ctx, caller)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Event Attendance//Events//EN")

	for i := range events {
		e := &events[i]
		start := e.CreatedAt
		if e.WhenAt != nil {
			start = *e.WhenAt
		}

		vevent := cal.AddEvent(fmt.Sprintf("event-%d@event-attendance", e.ID))
		vevent.SetCreatedTime(e.CreatedAt)
		vevent.SetDtStampTime(s.now())
		vevent.SetStartAt(start)
		vevent.SetEndAt(start.Add(calendarEventLength))
		vevent.SetSummary(e.Title)
		if e.Location != "" {
			vevent.SetLocation(e.Location)
		}
		if e.Description != "" {
			vevent.SetDescription(e.Description)
		}
	}

	return []byte(cal.Serialize()), nil
}

// ── helpers ──

func (s *eventService) visibleEvents(ctx context.Context, caller *policy.Caller) ([]model.Event, error) {
	if err := policy.Authorize(caller, policy.OpListEvents); err != nil {
		return nil, err
	}

	var creator *uint64
	if caller.Role != model.RoleHOD {
		creator = &caller.ID
	}

	events, err := s.repo.Event.List(ctx, creator)
	if err != nil {
		s.logger.Error("list events failed", zap.Uint64("caller_id", caller.ID), zap.Error(err))
		return nil, err
	}
	return events, nil
}

func (s *eventService) getEvent(ctx context.Context, id uint64) (*model.Event, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("get event failed", zap.Uint64("event_id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

// parseEventTime accepts RFC3339 or a datetime-local value (read as UTC); blank means unscheduled
func parseEventTime(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, datetimeLocalLayout} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, ErrEventWhenInvalid
}
