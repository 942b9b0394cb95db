package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/events"
	"github.com/eventhub/event-service/internal/policy"
	"github.com/eventhub/event-service/internal/repository"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

const userNotFound = "User not found"

// UserService exposes profile reads and edits plus admin account moderation.
type UserService struct {
	users         repository.UserRepository
	registrations repository.RegistrationRepository
	stats         repository.StatsRepository
	publisher     publisher
	now           Clock
}

// UserDependencies bundles requirements for the user service.
type UserDependencies struct {
	UserRepo         repository.UserRepository
	RegistrationRepo repository.RegistrationRepository
	StatsRepo        repository.StatsRepository
	Dispatcher       events.Dispatcher
	Clock            Clock
	Logger           *zap.Logger
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock.orDefault()
	return &UserService{
		users:         deps.UserRepo,
		registrations: deps.RegistrationRepo,
		stats:         deps.StatsRepo,
		publisher:     publisher{dispatcher: deps.Dispatcher, logger: logger, now: now},
		now:           now,
	}
}

// Profile is a user record together with how much of it the requester may see.
type Profile struct {
	User       *domain.User
	Projection policy.Projection
}

// Get resolves the profile projection for requester and loads the target.
func (s *UserService) Get(ctx context.Context, requester domain.Principal, id int64) (*Profile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, userNotFound)
	}

	projection := policy.ProfileProjection(requester, user.ID, user.AccountType)
	if projection == policy.ProjectionFullIfRegistrant {
		registered, err := s.registrations.HasRegistrationWithOrganizer(ctx, user.ID, requester.ID)
		if err != nil {
			return nil, err
		}
		projection = policy.ProjectionDenied
		if registered {
			projection = policy.ProjectionFull
		}
	}
	if projection == policy.ProjectionDenied {
		return nil, apperrors.NewForbidden("Access denied")
	}
	return &Profile{User: user, Projection: projection}, nil
}

// UserUpdateInput holds raw profile edits. An unknown gender is ignored.
type UserUpdateInput struct {
	PhoneNumber *string
	Birthday    *time.Time
	ProfilePic  *string
	Gender      *string
}

// Update edits the requester's own profile.
func (s *UserService) Update(ctx context.Context, p domain.Principal, id int64, input UserUpdateInput) error {
	if !policy.Permits(p, policy.ResourceUser, policy.ActionUpdate, id) {
		return apperrors.NewForbidden("You can only update your own profile")
	}

	patch := repository.UserProfilePatch{
		PhoneNumber: sanitizePlainPtr(input.PhoneNumber),
		Birthday:    input.Birthday,
		ProfilePic:  input.ProfilePic,
	}
	if input.Gender != nil {
		if gender := domain.Gender(*input.Gender); gender.Valid() {
			patch.Gender = &gender
		}
	}
	if patch.Empty() {
		return apperrors.NewValidationError("No valid fields provided for update")
	}
	return notFoundAs(s.users.UpdateProfile(ctx, id, patch), userNotFound)
}

// UserListInput carries the raw admin listing parameters.
type UserListInput struct {
	Role   string
	Gender string
	MinAge *int
	MaxAge *int
	Search string
	SortBy string
	Page   domain.Page
}

// List returns non-admin accounts of one role for the admin console.
func (s *UserService) List(ctx context.Context, input UserListInput) ([]domain.User, error) {
	role := domain.AccountType(input.Role)
	if role != domain.AccountRegular && role != domain.AccountOrganizer {
		return nil, apperrors.NewValidationError("role (regular/organizer) field is required")
	}

	filter := repository.UserFilter{
		Role:   role,
		MinAge: input.MinAge,
		MaxAge: input.MaxAge,
		Search: input.Search,
		Today:  domain.DateOf(s.now()),
		Sort:   repository.UserSortJoinedRecent,
		Limit:  input.Page.Limit,
		Offset: input.Page.Offset,
	}
	if gender := domain.Gender(input.Gender); gender.Valid() {
		filter.Gender = &gender
	}
	if sort := repository.UserSort(input.SortBy); sort.Valid() {
		filter.Sort = sort
	}
	return s.users.List(ctx, filter)
}

// Suspend blocks an account from authenticating.
func (s *UserService) Suspend(ctx context.Context, admin domain.Principal, id int64) error {
	return s.setStatus(ctx, admin, id, domain.AccountSuspended, events.EventUserSuspended)
}

// Activate lifts a suspension.
func (s *UserService) Activate(ctx context.Context, admin domain.Principal, id int64) error {
	return s.setStatus(ctx, admin, id, domain.AccountActive, events.EventUserActivated)
}

func (s *UserService) setStatus(ctx context.Context, admin domain.Principal, id int64, status domain.AccountStatus, eventType events.EventType) error {
	if err := s.users.SetStatus(ctx, id, status); err != nil {
		return notFoundAs(err, userNotFound)
	}
	s.publisher.publish(ctx, events.Event{
		Type:      eventType,
		SubjectID: id,
		Actor:     events.ActorFrom(admin),
	})
	return nil
}

// OrganizerStats aggregates every event owned by organizerID.
func (s *UserService) OrganizerStats(ctx context.Context, p domain.Principal, organizerID int64) (*domain.OrganizerStats, error) {
	if err := policy.Authorize(p, policy.ResourceUser, policy.ActionOrganizerStats, organizerID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, organizerID)
	if err != nil {
		return nil, notFoundAs(err, userNotFound)
	}
	if user.AccountType != domain.AccountOrganizer {
		return nil, apperrors.NewValidationError("User is not an organizer")
	}

	scope := repository.StatsScope{OrganizerID: organizerID}
	out := &domain.OrganizerStats{}
	if out.TotalEvents, err = s.stats.CountEvents(ctx, scope); err != nil {
		return nil, err
	}
	if out.TotalViews, err = s.stats.SumViews(ctx, scope); err != nil {
		return nil, err
	}
	if out.TotalLikes, err = s.stats.CountLikes(ctx, scope); err != nil {
		return nil, err
	}
	byCategory, err := s.stats.EventsByCategory(ctx, scope)
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

	eventCount := float64(out.TotalEvents)
	out.EventsPerCategory = nonNilCategories(byCategory)
	out.TotalRegistrations = regs.Total
	out.TotalActiveRegistrations = regs.Active
	out.TotalCancelledRegistrations = regs.Cancelled
	out.TotalDeniedRegistrations = regs.Denied
	out.AvgRegistrantsPerEvent = domain.Average(float64(regs.Total), eventCount)
	out.ConversionRate = domain.Percent(float64(regs.Total), float64(out.TotalViews))
	out.FemaleRegistrations = regs.Female
	out.MaleRegistrations = regs.Male
	out.RegistrationsLast6Months = nonNilMonths(byMonth)
	out.TotalAttendants = regs.Attendants
	out.AvgAttendantsPerEvent = domain.Average(float64(regs.Attendants), eventCount)
	out.AttendanceRate = domain.Percent(float64(regs.Attendants), float64(regs.Active))
	return out, nil
}
