package model

import "time"

// ListingStatus represents where a food listing is in the donation workflow.
type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusMatched   ListingStatus = "matched"
	// ListingStatusPickedUp has no transition into it yet.
	ListingStatusPickedUp ListingStatus = "picked_up"
)

// FoodListing is a surplus food offer posted by a user.
type FoodListing struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UserID      uint          `json:"user_id" gorm:"not null;index"`
	PhotoURL    *string       `json:"photo_url" gorm:"size:255"`
	Description string        `json:"description" gorm:"size:255;not null"`
	Location    string        `json:"location" gorm:"size:255;not null"`
	Quantity    *string       `json:"quantity" gorm:"size:50"`
	ShelfLife   *string       `json:"shelf_life" gorm:"size:50"`
	Status      ListingStatus `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	CreatedAt   time.Time     `json:"created_at" gorm:"index"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID"`
}
