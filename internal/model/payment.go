package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment is a supplier payout record. The table is migrated but no
// operation writes to it yet.
type Payment struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	SupplierID uint            `json:"supplier_id" gorm:"not null;index"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Status     PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt  time.Time       `json:"created_at"`

	// Relations
	Supplier *User `json:"-" gorm:"foreignKey:SupplierID"`
}
