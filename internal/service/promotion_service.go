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

const promotionNotFound = "Pending promotion request not found"

// PromotionService runs the regular-to-organizer promotion workflow.
type PromotionService struct {
	promotions repository.PromotionRepository
	publisher  publisher
	now        Clock
}

// PromotionDependencies bundles requirements for the promotion service.
type PromotionDependencies struct {
	PromotionRepo repository.PromotionRepository
	Dispatcher    events.Dispatcher
	Clock         Clock
	Logger        *zap.Logger
}

// NewPromotionService builds the service.
func NewPromotionService(deps PromotionDependencies) *PromotionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock.orDefault()
	return &PromotionService{
		promotions: deps.PromotionRepo,
		publisher:  publisher{dispatcher: deps.Dispatcher, logger: logger, now: now},
		now:        now,
	}
}

// Pending returns userID's pending request, or nil when there is none.
func (s *PromotionService) Pending(ctx context.Context, p domain.Principal, userID int64) (*domain.PromotionRequest, error) {
	if err := policy.Authorize(p, policy.ResourcePromotion, policy.ActionView, userID); err != nil {
		return nil, err
	}
	req, err := s.promotions.GetPending(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return req, err
}

// PromotionInput is a regular user's request to become an organizer.
type PromotionInput struct {
	RequestedOrganizerName string
	WhyMessage             string
}

// Request files a pending promotion request for the requester.
func (s *PromotionService) Request(ctx context.Context, p domain.Principal, input PromotionInput) (*domain.PromotionRequest, error) {
	if !policy.Permits(p, policy.ResourcePromotion, policy.ActionCreate, p.ID) {
		return nil, apperrors.NewForbidden("Only regular users can request promotion")
	}
	name := sanitizePlain(input.RequestedOrganizerName)
	why := sanitizePlain(input.WhyMessage)
	if name == "" || why == "" {
		return nil, apperrors.NewValidationError("Missing required fields")
	}

	switch _, err := s.promotions.GetPending(ctx, p.ID); {
	case err == nil:
		return nil, apperrors.NewValidationError("You already have a pending request")
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}

	req := &domain.PromotionRequest{
		UserID:                 p.ID,
		Status:                 domain.PromotionPending,
		RequestDate:            domain.DateOf(s.now()),
		RequestedOrganizerName: name,
		WhyMessage:             why,
	}
	if err := s.promotions.Create(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewValidationError("You already have a pending request")
		}
		return nil, err
	}
	return req, nil
}

// ListPending returns open requests for the admin console.
func (s *PromotionService) ListPending(ctx context.Context, page domain.Page) ([]domain.PromotionRequestView, error) {
	return s.promotions.ListPending(ctx, page.Limit, page.Offset)
}

// Accept promotes userID to organizer under the requested organizer name.
func (s *PromotionService) Accept(ctx context.Context, admin domain.Principal, userID int64) error {
	req, err := s.promotions.Accept(ctx, userID, domain.DateOf(s.now()))
	if err != nil {
		return notFoundAs(err, promotionNotFound)
	}
	s.publisher.publish(ctx, events.Event{
		Type:      events.EventPromotionAccepted,
		SubjectID: userID,
		Actor:     events.ActorFrom(admin),
		Payload:   events.PromotionDecidedPayload{RequestedOrganizerName: req.RequestedOrganizerName},
	})
	return nil
}

// Reject closes userID's pending request.
func (s *PromotionService) Reject(ctx context.Context, admin domain.Principal, userID int64) error {
	if err := s.promotions.Reject(ctx, userID); err != nil {
		return notFoundAs(err, promotionNotFound)
	}
	s.publisher.publish(ctx, events.Event{
		Type:      events.EventPromotionRejected,
		SubjectID: userID,
		Actor:     events.ActorFrom(admin),
	})
	return nil
}
