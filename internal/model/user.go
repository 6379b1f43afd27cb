package model

import "time"

// Role is the function a user plays in the donation workflow.
type Role string

const (
	RoleFarmer    Role = "farmer"
	RoleSupplier  Role = "supplier"
	RoleNGO       Role = "ngo"
	RoleLogistics Role = "logistics"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleSupplier, RoleNGO, RoleLogistics:
		return true
	}
	return false
}

// User represents a registered HarvestHub participant.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:200;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime;<-:create"`
}
