package services

import (
	"fmt"
	"testing"
	"time"

	"darkom-server/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Reservation{},
		&models.Notification{},
		&models.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

func seedHost(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	host := &models.User{
		FirstName:   "Amina",
		LastName:    "Benali",
		Email:       "amina@example.com",
		AccountKind: models.AccountKindAgency,
	}
	require.NoError(t, db.Create(host).Error)
	return host
}

func seedCustomer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	customer := &models.User{
		FirstName:   "Youssef",
		LastName:    "El Amrani",
		Email:       "youssef@example.com",
		PhoneNumber: "+212600000000",
		AccountKind: models.AccountKindCustomer,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedProperty(t *testing.T, db *gorm.DB, hostID uint) *models.Property {
	t.Helper()
	property := &models.Property{
		Ref:        "riad-marrakech-01",
		Title:      "Riad Dar Zitoune",
		Location:   "Marrakech",
		Price:      850,
		Currency:   "MAD",
		RentalKind: models.RentalKindShortStay,
		HostID:     hostID,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func seedBlock(t *testing.T, db *gorm.DB, propertyID uint, status, checkIn, checkOut string, holdExpiresAt *time.Time) *models.Reservation {
	t.Helper()
	in, err := time.Parse("2006-01-02", checkIn)
	require.NoError(t, err)
	out, err := time.Parse("2006-01-02", checkOut)
	require.NoError(t, err)

	block := &models.Reservation{
		PropertyID:    propertyID,
		Reference:     fmt.Sprintf("ref-%d-%s-%s-%s", propertyID, checkIn, checkOut, status),
		Status:        status,
		CheckIn:       in,
		CheckOut:      out,
		HoldExpiresAt: holdExpiresAt,
		CustomerName:  "Seed Customer",
	}
	require.NoError(t, db.Create(block).Error)
	return block
}

func newTestService(t *testing.T, db *gorm.DB, policy BookingPolicy, now time.Time) *BookingService {
	t.Helper()
	svc := NewBookingService(db, NewPropertyCatalog(db), nil, nil, policy)
	svc.now = func() time.Time { return now }
	return svc
}
