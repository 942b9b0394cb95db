package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/events"
	"github.com/eventhub/event-service/internal/policy"
	"github.com/eventhub/event-service/internal/repository"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

const (
	eventNotFound    = "Event not found."
	viewCountTimeout = 5 * time.Second
	statsWindow      = 6
)

// EventService owns event listing, detail, authoring and per-event stats.
type EventService struct {
	events     repository.EventRepository
	categories repository.CategoryRepository
	stats      repository.StatsRepository
	publisher  publisher
	logger     *zap.Logger
	now        Clock
}

// EventDependencies bundles requirements for the event service.
type EventDependencies struct {
	EventRepo    repository.EventRepository
	CategoryRepo repository.CategoryRepository
	StatsRepo    repository.StatsRepository
	Dispatcher   events.Dispatcher
	Clock        Clock
	Logger       *zap.Logger
}

// NewEventService builds the service.
func NewEventService(deps EventDependencies) *EventService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock.orDefault()
	return &EventService{
		events:     deps.EventRepo,
		categories: deps.CategoryRepo,
		stats:      deps.StatsRepo,
		publisher:  publisher{dispatcher: deps.Dispatcher, logger: logger, now: now},
		logger:     logger,
		now:        now,
	}
}

// EventListInput carries parsed listing parameters. Zero values disable a
// filter.
type EventListInput struct {
	Search     string
	Categories []int64
	City       string
	StartDate  *time.Time
	EndDate    *time.Time
	Ongoing    bool
	Completed  domain.CompletedFilter
	Sort       domain.EventSort
	LikedOnly  bool
	OwnerID    int64
	Owned      bool
	RegisterID int64
	Page       domain.Page
}

// List composes the visible subset of events for the requester.
func (s *EventService) List(ctx context.Context, p domain.Principal, input EventListInput) ([]domain.EventView, error) {
	scope, err := policy.ResolveRegisterScope(p, input.RegisterID)
	if err != nil {
		return nil, err
	}

	ownerID := input.OwnerID
	if input.Owned {
		ownerID = p.ID
	}

	filter := repository.EventFilter{
		ViewerID:         p.ID,
		Suspended:        policy.SuspendedVisibility(p.AccountType),
		Search:           input.Search,
		Categories:       input.Categories,
		City:             input.City,
		StartFrom:        input.StartDate,
		EndUntil:         input.EndDate,
		Ongoing:          input.Ongoing,
		Completed:        input.Completed,
		Today:            domain.DateOf(s.now()),
		LikedOnly:        input.LikedOnly,
		OwnerID:          ownerID,
		OrganizerScopeID: scope.OrganizerID,
		RegisteredUserID: scope.UserID,
		Sort:             input.Sort,
		Limit:            input.Page.Limit,
		Offset:           input.Page.Offset,
	}
	return s.events.List(ctx, filter)
}

// Get returns one event and counts the view. The counter update runs after
// the response is decided and its failures are only logged.
func (s *EventService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.EventView, error) {
	view, err := s.events.GetView(ctx, id, p.ID)
	if err != nil {
		return nil, notFoundAs(err, eventNotFound)
	}
	if view.Status == domain.EventDeleted {
		return nil, apperrors.NewNotFound(eventNotFound)
	}
	if !policy.CanViewEvent(p, &view.Event) {
		return nil, apperrors.NewForbidden("Not authorized to view this event.")
	}

	s.recordView(id)
	return view, nil
}

func (s *EventService) recordView(id int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), viewCountTimeout)
		defer cancel()
		if err := s.events.IncrementViews(ctx, id); err != nil {
			s.logger.Warn("failed to increment views_count", zap.Int64("event_id", id), zap.Error(err))
		}
	}()
}

// EventCreateInput describes a new event.
type EventCreateInput struct {
	Title                    string
	Description              string
	CategoryID               int64
	Banner                   string
	StartDate                time.Time
	StartTime                string
	EndDate                  time.Time
	EndTime                  string
	Country                  string
	City                     string
	FullAddress              string
	RegistrationDeadlineDate time.Time
	RegistrationDeadlineTime string
	CancellationDeadlineDate time.Time
	CancellationDeadlineTime string
	Tags                     *string
	MaxCapacity              *int
}

// CanCreate rejects principals that may not create events. Handlers call it
// before validating the request body so role errors take precedence.
func (s *EventService) CanCreate(p domain.Principal) error {
	if err := policy.Authorize(p, policy.ResourceEvent, policy.ActionCreate, p.ID); err != nil {
		return apperrors.NewForbidden("Only organizers can create events.")
	}
	return nil
}

// Create stores a new active event owned by the requesting organizer.
func (s *EventService) Create(ctx context.Context, p domain.Principal, input EventCreateInput) (*domain.Event, error) {
	if err := s.CanCreate(p); err != nil {
		return nil, err
	}
	if err := checkSchedule(input.RegistrationDeadlineDate, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if input.MaxCapacity != nil && *input.MaxCapacity < 1 {
		return nil, apperrors.NewValidationError("max_capacity must be at least 1")
	}

	exists, err := s.categories.Exists(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewValidationError("Category does not exist")
	}

	event := &domain.Event{
		OrganizerID:              p.ID,
		DateCreated:              domain.DateOf(s.now()),
		Banner:                   input.Banner,
		CategoryID:               input.CategoryID,
		Title:                    sanitizePlain(input.Title),
		Description:              sanitizeRich(input.Description),
		Country:                  sanitizePlain(input.Country),
		City:                     sanitizePlain(input.City),
		FullAddress:              sanitizePlain(input.FullAddress),
		StartDate:                input.StartDate,
		StartTime:                input.StartTime,
		EndDate:                  input.EndDate,
		EndTime:                  input.EndTime,
		Tags:                     sanitizePlainPtr(input.Tags),
		MaxCapacity:              input.MaxCapacity,
		RegistrationDeadlineDate: input.RegistrationDeadlineDate,
		RegistrationDeadlineTime: input.RegistrationDeadlineTime,
		CancellationDeadlineDate: input.CancellationDeadlineDate,
		CancellationDeadlineTime: input.CancellationDeadlineTime,
		Status:                   domain.EventActive,
	}
	if event.Title == "" {
		return nil, apperrors.NewValidationError("Missing required field: title")
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// checkSchedule enforces registration deadline <= start <= end.
func checkSchedule(deadline, start, end time.Time) error {
	if deadline.After(start) {
		return apperrors.NewValidationError("Registration deadline must not be after the start date")
	}
	if end.Before(start) {
		return apperrors.NewValidationError("End date must not be before the start date")
	}
	return nil
}

// EventUpdateInput is a partial update. Suspended is the raw admin moderation
// value; Fields are the organizer-editable columns.
type EventUpdateInput struct {
	Suspended *string
	Fields    repository.EventPatch
}

// Update applies an admin moderation change or an owner edit.
func (s *EventService) Update(ctx context.Context, p domain.Principal, id int64, input EventUpdateInput) error {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, eventNotFound)
	}

	if p.Is(domain.AccountAdmin) {
		return s.moderate(ctx, p, event, input.Suspended)
	}

	if err := policy.Authorize(p, policy.ResourceEvent, policy.ActionUpdate, event.OrganizerID); err != nil {
		return apperrors.NewForbidden("Not authorized to update this event")
	}
	if event.Status == domain.EventDeleted || event.Suspended {
		return apperrors.NewValidationError("Cannot update inactive events")
	}
	startsAt, err := event.StartsAt()
	if err != nil {
		return fmt.Errorf("event %d: %w", id, err)
	}
	if startsAt.Before(s.now()) {
		return apperrors.NewValidationError("Cannot update an event that has already started")
	}

	patch := input.Fields
	if patch.Empty() {
		return apperrors.NewValidationError("No valid fields to update")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return apperrors.NewValidationError("Invalid value for field: status")
	}
	if patch.MaxCapacity != nil && *patch.MaxCapacity < 1 {
		return apperrors.NewValidationError("max_capacity must be at least 1")
	}
	if err := checkSchedule(
		pick(patch.RegistrationDeadlineDate, event.RegistrationDeadlineDate),
		pick(patch.StartDate, event.StartDate),
		pick(patch.EndDate, event.EndDate),
	); err != nil {
		return err
	}

	patch.City = sanitizePlainPtr(patch.City)
	patch.FullAddress = sanitizePlainPtr(patch.FullAddress)
	patch.Tags = sanitizePlainPtr(patch.Tags)
	if patch.Description != nil {
		description := sanitizeRich(*patch.Description)
		patch.Description = &description
	}

	return notFoundAs(s.events.Update(ctx, id, patch), eventNotFound)
}

func pick(value *time.Time, fallback time.Time) time.Time {
	if value != nil {
		return *value
	}
	return fallback
}

// moderate lets admins toggle the suspended flag and nothing else.
func (s *EventService) moderate(ctx context.Context, p domain.Principal, event *domain.Event, suspended *string) error {
	if suspended == nil || *suspended == "" {
		return apperrors.NewForbidden("Admin can only update 'suspended' field")
	}
	var value bool
	switch *suspended {
	case "true":
		value = true
	case "false":
	default:
		return apperrors.NewValidationError("Incorrect value for field 'suspended'")
	}

	if err := s.events.SetSuspended(ctx, event.ID, value); err != nil {
		return notFoundAs(err, eventNotFound)
	}

	eventType := events.EventEventUnsuspended
	if value {
		eventType = events.EventEventSuspended
	}
	s.publisher.publish(ctx, events.Event{
		Type:      eventType,
		SubjectID: event.ID,
		Actor:     events.ActorFrom(p),
		Payload:   events.EventModeratedPayload{OrganizerID: event.OrganizerID, Title: event.Title},
	})
	return nil
}

// Stats builds the dashboard report of one event for its owner or an admin.
func (s *EventService) Stats(ctx context.Context, p domain.Principal, id int64) (*domain.EventStats, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, eventNotFound)
	}
	if err := policy.Authorize(p, policy.ResourceEvent, policy.ActionStats, event.OrganizerID); err != nil {
		return nil, err
	}

	scope := repository.StatsScope{EventID: id}
	likes, err := s.stats.CountLikes(ctx, scope)
	if err != nil {
		return nil, err
	}
	regs, err := s.stats.Registrations(ctx, scope)
	if err != nil {
		return nil, err
	}
	since := domain.DateOf(s.now()).AddDate(0, -statsWindow, 0)
	byMonth, err := s.stats.RegistrationsByMonth(ctx, scope, since)
	if err != nil {
		return nil, err
	}

	return &domain.EventStats{
		TotalLikes:                  likes,
		TotalViews:                  event.ViewsCount,
		TotalRegistrations:          regs.Total,
		TotalActiveRegistrations:    regs.Active,
		TotalCancelledRegistrations: regs.Cancelled,
		TotalDeniedRegistrations:    regs.Denied,
		ConversionRate:              domain.Percent(float64(regs.Total), float64(event.ViewsCount)),
		RegistrationsLast6Months:    nonNilMonths(byMonth),
		TotalAttendants:             regs.Attendants,
		AttendanceRate:              domain.Percent(float64(regs.Attendants), float64(regs.Active)),
		FemaleRegistrations:         regs.Female,
		MaleRegistrations:           regs.Male,
	}, nil
}

func nonNilMonths(series []domain.MonthCount) []domain.MonthCount {
	if series == nil {
		return []domain.MonthCount{}
	}
	return series
}

func nonNilCategories(series []domain.CategoryCount) []domain.CategoryCount {
	if series == nil {
		return []domain.CategoryCount{}
	}
	return series
}
