package models

import "time"

// Category groups recipes for browsing.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description *string   `gorm:"type:text" json:"description"`
	Icon        *string   `json:"icon"`
	Order       int       `gorm:"column:display_order;not null;default:0" json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	// RecipeCount is computed at query time
	RecipeCount int64 `gorm:"->;-:migration" json:"recipeCount"`
}
