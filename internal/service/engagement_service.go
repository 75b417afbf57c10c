package service

import (
	"context"

	"recipebox/internal/models"
	"recipebox/internal/observability"
	"recipebox/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// EngagementService flips likes, saves and follows for the calling user.
type EngagementService struct {
	repo repository.EngagementRepository
}

func NewEngagementService(repo repository.EngagementRepository) *EngagementService {
	return &EngagementService{repo: repo}
}

func (s *EngagementService) ToggleLike(ctx context.Context, userID, recipeID uint) (bool, error) {
	return s.toggle(ctx, "like", userID, recipeID, s.repo.ToggleLike)
}

func (s *EngagementService) ToggleSave(ctx context.Context, userID, recipeID uint) (bool, error) {
	return s.toggle(ctx, "save", userID, recipeID, s.repo.ToggleSave)
}

func (s *EngagementService) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, models.NewValidationError("You cannot follow yourself")
	}
	return s.toggle(ctx, "follow", followerID, followingID, s.repo.ToggleFollow)
}

func (s *EngagementService) toggle(
	ctx context.Context,
	kind string,
	userID, targetID uint,
	fn func(context.Context, uint, uint) (bool, error),
) (on bool, err error) {
	if userID == 0 {
		return false, models.NewUnauthorizedError("Authentication required")
	}

	ctx, span := observability.StartSpan(ctx, "engagement_service", "Toggle",
		attribute.String("engagement.kind", kind),
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("target.id", int64(targetID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	on, err = fn(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	span.SetAttributes(attribute.Bool("engagement.on", on))
	observability.EngagementToggles.WithLabelValues(kind, observability.ToggleState(on)).Inc()
	return on, nil
}
