package models

import (
	"gorm.io/gorm"
)

// Rental kinds. Only short-stay listings go through the date-range
// reservation engine; long-stay listings are contacted directly.
const (
	RentalKindShortStay = "short_stay"
	RentalKindLongStay  = "long_stay"
)

// Property is the local snapshot of a catalog listing. The catalog
// itself (search, media, editing) lives outside this service; the
// reservation engine only reads these rows through services.PropertyCatalog.
type Property struct {
	gorm.Model
	Ref        string  `json:"ref" gorm:"size:64;uniqueIndex"`
	Title      string  `json:"title" gorm:"size:200"`
	Location   string  `json:"location" gorm:"size:200"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency" gorm:"size:8;default:MAD"`
	RentalKind string  `json:"rentalKind" gorm:"size:16;default:short_stay;index"`
	HostID     uint    `json:"hostID" gorm:"index"`

	Host *User `json:"host,omitempty" gorm:"foreignKey:HostID"`
}
