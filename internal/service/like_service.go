package service

import (
	"context"
	"errors"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/policy"
	"github.com/eventhub/event-service/internal/repository"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

// LikeService toggles likes on events.
type LikeService struct {
	likes  repository.LikeRepository
	events repository.EventRepository
}

// NewLikeService builds the service.
func NewLikeService(likes repository.LikeRepository, events repository.EventRepository) *LikeService {
	return &LikeService{likes: likes, events: events}
}

// Like records that the requester likes the event.
func (s *LikeService) Like(ctx context.Context, p domain.Principal, eventID int64) error {
	if !policy.Permits(p, policy.ResourceLike, policy.ActionCreate, 0) {
		return apperrors.NewForbidden("Admins cannot like events")
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return notFoundAs(err, eventNotFound)
	}
	if event.Status == domain.EventDeleted {
		return apperrors.NewNotFound(eventNotFound)
	}

	if err := s.likes.Create(ctx, p.ID, eventID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.NewConflict("Already liked")
		}
		return err
	}
	return nil
}

// Unlike removes the requester's like.
func (s *LikeService) Unlike(ctx context.Context, p domain.Principal, eventID int64) error {
	return notFoundAs(s.likes.Delete(ctx, p.ID, eventID), "Like not found")
}
