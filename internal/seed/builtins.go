package seed

import (
	"context"
	"fmt"

	"recipebox/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltIns upserts the fixture categories and ad spaces by slug. Running it
// again refreshes their descriptive columns. It leaves the isActive flag and
// the current ad of an ad space as an admin set them.
func BuiltIns(ctx context.Context, db *gorm.DB, fx *Fixtures) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range fx.Categories {
			category := models.Category{
				Name:        item.Name,
				Slug:        item.Slug,
				Description: optional(item.Description),
				Icon:        optional(item.Icon),
				Order:       item.Order,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "display_order", "updated_at"}),
			}).Create(&category).Error; err != nil {
				return fmt.Errorf("upsert category %s: %w", item.Slug, err)
			}
		}

		for _, item := range fx.AdSpaces {
			space := models.AdSpace{
				Name:        item.Name,
				Slug:        item.Slug,
				Description: optional(item.Description),
				Location:    item.Location,
				Dimensions:  models.DimensionList(item.Dimensions),
				IsActive:    true,
				Order:       item.Order,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "description", "location", "dimensions", "display_order", "updated_at"}),
			}).Create(&space).Error; err != nil {
				return fmt.Errorf("upsert ad space %s: %w", item.Slug, err)
			}
		}
		return nil
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
