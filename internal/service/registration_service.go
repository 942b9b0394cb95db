package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/events"
	"github.com/eventhub/event-service/internal/policy"
	"github.com/eventhub/event-service/internal/repository"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

const registrationNotFound = "Registration not found"

// RegistrationService owns registering, cancelling and organizer-side
// registration management.
type RegistrationService struct {
	registrations repository.RegistrationRepository
	events        repository.EventRepository
	publisher     publisher
	now           Clock
}

// RegistrationDependencies bundles requirements for the registration service.
type RegistrationDependencies struct {
	RegistrationRepo repository.RegistrationRepository
	EventRepo        repository.EventRepository
	Dispatcher       events.Dispatcher
	Clock            Clock
	Logger           *zap.Logger
}

// NewRegistrationService builds the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock.orDefault()
	return &RegistrationService{
		registrations: deps.RegistrationRepo,
		events:        deps.EventRepo,
		publisher:     publisher{dispatcher: deps.Dispatcher, logger: logger, now: now},
		now:           now,
	}
}

// Register creates an active registration for the requester. Checks run in
// a fixed order; the first failing one decides the response.
func (s *RegistrationService) Register(ctx context.Context, p domain.Principal, eventID int64) (*domain.Registration, error) {
	if p.Is(domain.AccountAdmin) {
		return nil, apperrors.NewForbidden("Admins cannot register for events")
	}

	switch _, err := s.registrations.Get(ctx, p.ID, eventID); {
	case err == nil:
		return nil, apperrors.NewConflict("Already registered")
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundAs(err, eventNotFound)
	}
	if event.Status != domain.EventActive || event.Suspended {
		return nil, apperrors.NewValidationError("Event is inactive")
	}
	if !policy.Permits(p, policy.ResourceRegistration, policy.ActionCreate, event.OrganizerID) {
		return nil, apperrors.NewForbidden("Cannot register for your own event")
	}

	today := domain.DateOf(s.now())
	if today.After(event.RegistrationDeadlineDate) {
		return nil, apperrors.NewValidationError("Registration deadline has passed")
	}

	reg := &domain.Registration{
		UserID:           p.ID,
		EventID:          eventID,
		RegistrationDate: today,
		Status:           domain.RegistrationActive,
	}
	switch err := s.registrations.Create(ctx, reg, event.MaxCapacity); {
	case errors.Is(err, repository.ErrCapacityReached):
		return nil, apperrors.NewValidationError("Event is full")
	case errors.Is(err, repository.ErrDuplicate):
		return nil, apperrors.NewConflict("Already registered")
	case err != nil:
		return nil, notFoundAs(err, eventNotFound)
	}
	return reg, nil
}

// Cancel marks the requester's registration cancelled. A registration that
// is already cancelled counts as missing.
func (s *RegistrationService) Cancel(ctx context.Context, p domain.Principal, eventID int64) error {
	return notFoundAs(s.registrations.Cancel(ctx, p.ID, eventID), registrationNotFound)
}

// ListForEvent returns the registrants of an event to its owner or an admin.
func (s *RegistrationService) ListForEvent(ctx context.Context, p domain.Principal, eventID int64, page domain.Page) ([]domain.RegistrationView, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundAs(err, eventNotFound)
	}
	if err := policy.Authorize(p, policy.ResourceEvent, policy.ActionRegistrations, event.OrganizerID); err != nil {
		return nil, err
	}
	return s.registrations.ListByEvent(ctx, eventID, page.Limit, page.Offset)
}

// RegistrationManageInput is the organizer's change to one registrant. Values
// are raw request strings.
type RegistrationManageInput struct {
	UserID     int64
	Status     *string
	Attendance *string
}

// Manage lets the owning organizer change a registrant's status or record
// attendance once the event has started.
func (s *RegistrationService) Manage(ctx context.Context, p domain.Principal, eventID int64, input RegistrationManageInput) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return notFoundAs(err, eventNotFound)
	}
	if err := policy.Authorize(p, policy.ResourceRegistration, policy.ActionManage, event.OrganizerID); err != nil {
		return apperrors.NewForbidden("Only the event organizer can manage registrations")
	}
	if input.UserID <= 0 {
		return apperrors.NewValidationError("Missing required field: user_id")
	}

	var update repository.RegistrationUpdate
	if input.Status != nil {
		status := domain.RegistrationStatus(*input.Status)
		if status.Valid() {
			update.Status = &status
		}
	}
	if input.Attendance != nil && !event.StartDate.After(domain.DateOf(s.now())) {
		switch *input.Attendance {
		case domain.AttendancePresent, domain.AttendanceAbsent:
			attendance := *input.Attendance
			update.Attendance = &attendance
		}
	}
	if update.Status == nil && update.Attendance == nil {
		return apperrors.NewValidationError("No valid fields to update")
	}

	if err := s.registrations.Update(ctx, input.UserID, eventID, update); err != nil {
		return notFoundAs(err, registrationNotFound)
	}

	s.publisher.publish(ctx, events.Event{
		Type:      events.EventRegistrationUpdated,
		SubjectID: input.UserID,
		Actor:     events.ActorFrom(p),
		Payload: events.RegistrationUpdatedPayload{
			EventID:    eventID,
			Status:     update.Status,
			Attendance: update.Attendance,
		},
	})
	return nil
}
