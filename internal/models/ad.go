package models

import "time"

// Ad space locations.
const (
	LocationAboutSection = "ABOUT_SECTION"
	LocationInlineBanner = "INLINE_BANNER"
	LocationFooterBanner = "FOOTER_BANNER"
)

// AdLocations lists every valid placement location.
var AdLocations = []string{LocationAboutSection, LocationInlineBanner, LocationFooterBanner}

// Tracking event types.
const (
	TrackImpression = "impression"
	TrackClick      = "click"
)

// Creative kinds, in serving precedence.
const (
	CreativeImage       = "image"
	CreativeHTML        = "html"
	CreativePlaceholder = "placeholder"
)

// AdSpace is a named placement that points at the ad it should serve.
type AdSpace struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Slug        string        `gorm:"uniqueIndex;not null" json:"slug"`
	Description *string       `gorm:"type:text" json:"description"`
	Location    string        `gorm:"size:32;not null;index" json:"location"`
	Dimensions  DimensionList `gorm:"type:text" json:"dimensions"`
	CurrentAdID *uint         `json:"currentAdId"`
	CurrentAd   *Ad           `gorm:"foreignKey:CurrentAdID;constraint:OnDelete:SET NULL" json:"currentAd"`
	IsActive    bool          `gorm:"not null;default:true" json:"isActive"`
	Order       int           `gorm:"column:display_order;not null;default:0" json:"order"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// Placeholder describes the accepted sizes for rendering an empty slot
	Placeholder string `gorm:"-" json:"placeholder"`
}

// Ad is a creative with an optional validity window and analytics counters.
type Ad struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	ImageURL        *string    `json:"imageUrl"`
	HTMLContent     *string    `gorm:"type:text" json:"htmlContent"`
	LinkURL         *string    `json:"linkUrl"`
	AltText         *string    `json:"altText"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	IsActive        bool       `gorm:"not null;default:true" json:"isActive"`
	AdSpaceID       *uint      `gorm:"index" json:"adSpaceId"`
	Impressions     int64      `gorm:"not null;default:0" json:"impressions"`
	Clicks          int64      `gorm:"not null;default:0" json:"clicks"`
	AdvertiserName  *string    `json:"advertiserName"`
	AdvertiserEmail *string    `json:"advertiserEmail"`
	CampaignID      *string    `json:"campaignId"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Creative is the kind of content the client should render
	Creative string `gorm:"-" json:"creative"`
}

// ServableAt reports whether the ad may be delivered at the given instant.
func (a *Ad) ServableAt(now time.Time) bool {
	if a == nil || !a.IsActive {
		return false
	}
	if a.StartDate != nil && a.StartDate.After(now) {
		return false
	}
	if a.EndDate != nil && a.EndDate.Before(now) {
		return false
	}
	return true
}

// CreativeKind returns the creative to render; an image wins over HTML.
func (a *Ad) CreativeKind() string {
	switch {
	case a.ImageURL != nil && *a.ImageURL != "":
		return CreativeImage
	case a.HTMLContent != nil && *a.HTMLContent != "":
		return CreativeHTML
	default:
		return CreativePlaceholder
	}
}
