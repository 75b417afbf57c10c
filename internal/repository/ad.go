package repository

import (
	"context"
	"time"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// AdRepository reads ad placements and records ad analytics.
type AdRepository interface {
	ListActiveSpaces(ctx context.Context, location string, now time.Time) ([]models.AdSpace, error)
	IncrementCounter(ctx context.Context, adID uint, eventType string) error
}

type adRepository struct {
	db *gorm.DB
}

// NewAdRepository returns a new AdRepository implementation.
func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db: db}
}

// activeAt restricts ads to those servable at now.
func activeAt(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("is_active = ?", true).
			Where("(start_date IS NULL OR start_date <= ?)", now).
			Where("(end_date IS NULL OR end_date >= ?)", now)
	}
}

// ListActiveSpaces returns active spaces in display order. CurrentAd is left
// nil when the referenced ad is not servable at now. An empty location
// matches every location.
func (r *adRepository) ListActiveSpaces(ctx context.Context, location string, now time.Time) ([]models.AdSpace, error) {
	spaces := []models.AdSpace{}
	q := r.db.WithContext(ctx).
		Preload("CurrentAd", activeAt(now)).
		Where("is_active = ?", true)
	if location != "" {
		q = q.Where("location = ?", location)
	}
	if err := q.Order("display_order ASC, id ASC").Find(&spaces).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return spaces, nil
}

// IncrementCounter adds exactly one impression or click.
func (r *adRepository) IncrementCounter(ctx context.Context, adID uint, eventType string) error {
	var column string
	switch eventType {
	case models.TrackImpression:
		column = "impressions"
	case models.TrackClick:
		column = "clicks"
	default:
		return models.NewValidationError(`Invalid tracking type. Must be "impression" or "click"`)
	}

	res := r.db.WithContext(ctx).Model(&models.Ad{}).
		Where("id = ?", adID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Ad", adID)
	}
	return nil
}
