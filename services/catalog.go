package services

import (
	"errors"

	"darkom-server/models"

	"gorm.io/gorm"
)

// PropertySnapshot is the narrow view of a catalog listing the engine
// consumes. Everything else about a property belongs to the catalog
// service.
type PropertySnapshot struct {
	ID         uint
	Ref        string
	Title      string
	Location   string
	Price      float64
	Currency   string
	RentalKind string
	HostID     uint
}

// PropertyCatalog resolves property references. The production
// implementation reads the locally synced catalog rows; tests provide
// their own.
type PropertyCatalog interface {
	FindByRef(ref string) (*PropertySnapshot, error)
}

type gormCatalog struct {
	db *gorm.DB
}

// NewPropertyCatalog returns a catalog backed by the properties table.
func NewPropertyCatalog(db *gorm.DB) PropertyCatalog {
	return &gormCatalog{db: db}
}

func (c *gormCatalog) FindByRef(ref string) (*PropertySnapshot, error) {
	var property models.Property
	if err := c.db.Where("ref = ?", ref).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &PropertySnapshot{
		ID:         property.ID,
		Ref:        property.Ref,
		Title:      property.Title,
		Location:   property.Location,
		Price:      property.Price,
		Currency:   property.Currency,
		RentalKind: property.RentalKind,
		HostID:     property.HostID,
	}, nil
}
