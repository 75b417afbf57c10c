package models

import "time"

// Comment belongs to a recipe; ParentID makes it a reply to a top-level comment.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	RecipeID  uint      `gorm:"not null;index" json:"recipeId"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ParentID  *uint     `gorm:"index" json:"parentId"`
	Replies   []Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
