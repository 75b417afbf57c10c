package models

import "time"

// Like marks a recipe as liked by a user. The row's existence is the state.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_recipe" json:"userId"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_like_user_recipe;index" json:"recipeId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// SavedRecipe bookmarks a recipe for a user.
type SavedRecipe struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_user_recipe" json:"userId"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_saved_user_recipe;index" json:"recipeId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Follow is a directed follower -> following edge between users.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"followerId"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"followingId"`
	Follower    *User     `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following   *User     `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
