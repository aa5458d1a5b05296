package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation statuses. A reservation starts as a hold (or directly as
// "new" when auto-confirm is enabled); "cancelled" is terminal.
const (
	ReservationStatusHold      = "hold"
	ReservationStatusNew       = "new"
	ReservationStatusContacted = "contacted"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

// Cancellation reasons written by the engine itself. Back-office
// cancellations may carry free-form reasons.
const (
	CancellationHoldExpired  = "hold_expired_auto"
	CancellationConflictAuto = "conflict_rollback_auto"
	CancellationByCustomer   = "cancelled_by_customer"
	CancellationByBackOffice = "cancelled_by_backoffice"
)

// Reservation is one date-range block on a property. CheckIn/CheckOut
// are calendar dates forming the half-open range [CheckIn, CheckOut):
// the checkout day itself is free, which allows back-to-back stays.
type Reservation struct {
	gorm.Model
	PropertyID uint      `json:"propertyID" gorm:"index"`
	Reference  string    `json:"reference" gorm:"size:36;uniqueIndex"`
	Status     string    `json:"status" gorm:"size:16;index"`
	CheckIn    time.Time `json:"checkIn" gorm:"type:date"`
	CheckOut   time.Time `json:"checkOut" gorm:"type:date"`

	// Only meaningful while Status == hold; nil means "does not expire".
	HoldExpiresAt *time.Time `json:"holdExpiresAt"`

	CustomerID    *uint  `json:"customerID"`
	CustomerName  string `json:"customerName" gorm:"size:120"`
	CustomerPhone string `json:"customerPhone" gorm:"size:32"`
	CustomerEmail string `json:"customerEmail" gorm:"size:120"`

	ReservationOption      string `json:"reservationOption" gorm:"size:64"`
	ReservationOptionLabel string `json:"reservationOptionLabel" gorm:"size:120"`
	Message                string `json:"message" gorm:"size:1000"`
	Source                 string `json:"source" gorm:"size:32"`
	Lang                   string `json:"lang" gorm:"size:2;default:fr"`

	CancelledAt        *time.Time `json:"cancelledAt"`
	CancellationReason string     `json:"cancellationReason" gorm:"size:64"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Customer *User     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

// IsActiveAt reports whether the block occupies its date range at the
// given instant. Cancelled blocks never block; holds stop blocking the
// moment they expire, whether or not the janitor has already flipped
// them to cancelled.
func (r *Reservation) IsActiveAt(now time.Time) bool {
	if r.Status == ReservationStatusCancelled {
		return false
	}
	if r.Status == ReservationStatusHold && r.HoldExpiresAt != nil && !r.HoldExpiresAt.After(now) {
		return false
	}
	return true
}

// Nights returns the stay length in nights for the half-open range.
func (r *Reservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}
