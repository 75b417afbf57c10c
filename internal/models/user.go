// Package models contains data structures for the application's domain models.
package models

import "time"

// User roles.
const (
	RoleCreator = "CREATOR"
	RoleAdmin   = "ADMIN"
)

// User is an account that can publish and engage with recipes.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      *string   `json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Username  *string   `gorm:"uniqueIndex" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Bio       *string   `gorm:"type:text" json:"bio,omitempty"`
	Image     *string   `json:"image"`
	Role      string    `gorm:"size:16;not null;default:CREATOR" json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName returns the name, falling back to the username.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.Username != nil {
		return *u.Username
	}
	return ""
}

// UserStats aggregates a user's activity.
type UserStats struct {
	TotalRecipes int64 `json:"totalRecipes"`
	TotalLikes   int64 `json:"totalLikes"`
	TotalViews   int64 `json:"totalViews"`
	SavedRecipes int64 `json:"savedRecipes"`
	Followers    int64 `json:"followers"`
	Following    int64 `json:"following"`
}
