package service

import (
	"context"
	"strings"
	"time"

	"recipebox/internal/models"
	"recipebox/internal/observability"
	"recipebox/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// AdService serves ad placements and records ad analytics. Activity is
// evaluated against the clock on every call; nothing is cached.
type AdService struct {
	repo repository.AdRepository
	now  func() time.Time
}

func NewAdService(repo repository.AdRepository) *AdService {
	return &AdService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// NormalizeLocation upper-cases a location query value and maps '-' to '_'.
func NormalizeLocation(location string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(location)), "-", "_")
}

// ListSpaces returns active ad spaces, optionally for one location. A
// location with no spaces yields an empty list.
func (s *AdService) ListSpaces(ctx context.Context, location string) ([]models.AdSpace, error) {
	now := s.now()
	spaces, err := s.repo.ListActiveSpaces(ctx, NormalizeLocation(location), now)
	if err != nil {
		return nil, err
	}

	for i := range spaces {
		space := &spaces[i]
		space.Placeholder = placeholderText(space)
		if !space.CurrentAd.ServableAt(now) {
			space.CurrentAd = nil
		}
		outcome := "empty"
		if space.CurrentAd != nil {
			space.CurrentAd.Creative = space.CurrentAd.CreativeKind()
			outcome = "served"
		}
		observability.AdDeliveriesTotal.WithLabelValues(space.Location, outcome).Inc()
	}
	return spaces, nil
}

// Track records one impression or click for an ad.
func (s *AdService) Track(ctx context.Context, adID uint, eventType string) (err error) {
	ctx, span := observability.StartSpan(ctx, "ad_service", "Track",
		attribute.Int64("ad.id", int64(adID)),
		attribute.String("ad.event", eventType),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err = s.repo.IncrementCounter(ctx, adID, eventType); err != nil {
		return err
	}
	observability.AdEventsTotal.WithLabelValues(eventType).Inc()
	return nil
}

func placeholderText(space *models.AdSpace) string {
	if len(space.Dimensions) == 0 {
		return space.Name
	}
	return space.Name + ": " + space.Dimensions.String()
}
