package model

import "time"

// MatchStatus represents the status of a claim.
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusCompleted MatchStatus = "completed"
)

// Match records a partner taking responsibility for a food listing.
type Match struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	FoodID    uint        `json:"food_id" gorm:"not null;index"`
	PartnerID uint        `json:"partner_id" gorm:"not null;index"`
	Status    MatchStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time   `json:"created_at"`

	// Relations
	Food    *FoodListing `json:"-" gorm:"foreignKey:FoodID"`
	Partner *User        `json:"-" gorm:"foreignKey:PartnerID"`
}
