package services

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"darkom-server/models"
	"darkom-server/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingPolicy holds the environment-level booking knobs. It is built
// once at startup and handed to the service explicitly; the engine
// itself never reads the environment.
type BookingPolicy struct {
	HoldMinutes int
	AutoConfirm bool
}

const (
	defaultHoldMinutes = 15
	minHoldMinutes     = 1
	maxHoldMinutes     = 180
)

// PolicyFromEnv reads HOLD_MINUTES (clamped to [1,180], default 15) and
// AUTO_CONFIRM (default off).
func PolicyFromEnv() BookingPolicy {
	policy := BookingPolicy{HoldMinutes: defaultHoldMinutes}
	if raw := os.Getenv("HOLD_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil {
			policy.HoldMinutes = minutes
		}
	}
	if policy.HoldMinutes < minHoldMinutes {
		policy.HoldMinutes = minHoldMinutes
	}
	if policy.HoldMinutes > maxHoldMinutes {
		policy.HoldMinutes = maxHoldMinutes
	}
	switch strings.ToLower(os.Getenv("AUTO_CONFIRM")) {
	case "1", "true", "yes":
		policy.AutoConfirm = true
	}
	return policy
}

func (p BookingPolicy) holdDuration() time.Duration {
	return time.Duration(p.HoldMinutes) * time.Minute
}

// BookingService is the reservation orchestrator. Handlers are
// stateless; the reservation table is the only shared resource and the
// transactional create path is the only race-safe writer.
type BookingService struct {
	db       *gorm.DB
	catalog  PropertyCatalog
	notifier *NotificationService
	cache    *redis.Client
	policy   BookingPolicy
	now      func() time.Time
}

func NewBookingService(db *gorm.DB, catalog PropertyCatalog, notifier *NotificationService, cache *redis.Client, policy BookingPolicy) *BookingService {
	return &BookingService{
		db:       db,
		catalog:  catalog,
		notifier: notifier,
		cache:    cache,
		policy:   policy,
		now:      time.Now,
	}
}

// BookingRequest carries the raw create-reservation input. Dates arrive
// as YYYY-MM-DD strings and are validated here, not in the transport.
type BookingRequest struct {
	PropertyRef            string
	CheckIn                string
	CheckOut               string
	CustomerName           string
	CustomerPhone          string
	CustomerEmail          string
	ReservationOption      string
	ReservationOptionLabel string
	Message                string
	Lang                   string
	Source                 string
}

// BookingResult is a successful booking plus a snapshot computed after
// the write.
type BookingResult struct {
	Reservation *models.Reservation
	Nights      int
	Snapshot    *AvailabilitySnapshot
}

// Availability returns the derived availability view for a property,
// running the hold janitor first.
func (s *BookingService) Availability(propertyRef string) (*AvailabilitySnapshot, error) {
	property, err := s.catalog.FindByRef(propertyRef)
	if err != nil {
		return nil, err
	}

	now := s.now()
	SweepProperty(s.db, property.ID, now)

	blocks, err := activeBlocks(s.db, property.ID, now)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(blocks, now), nil
}

// CreateReservation validates the request, re-checks availability and
// performs the creation. The pre-check only exists to fail fast with a
// friendly conflict; the transactional path re-validates under a
// property-row lock because two requests can both pass the pre-check
// before either writes.
func (s *BookingService) CreateReservation(caller *models.User, req BookingRequest) (*BookingResult, error) {
	now := s.now()
	today := utils.DateOnly(now)

	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		return nil, &ValidationError{Field: "checkInDate", Reason: "must be a valid date in YYYY-MM-DD format"}
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		return nil, &ValidationError{Field: "checkOutDate", Reason: "must be a valid date in YYYY-MM-DD format"}
	}
	if !checkOut.After(checkIn) {
		return nil, &ValidationError{Field: "checkOutDate", Reason: "must be after checkInDate"}
	}
	if checkIn.Before(today) {
		return nil, &ValidationError{Field: "checkInDate", Reason: "must not be in the past"}
	}
	lang := req.Lang
	if lang == "" {
		lang = "fr"
	}
	if lang != "fr" && lang != "ar" {
		return nil, &ValidationError{Field: "lang", Reason: "must be fr or ar"}
	}
	if caller == nil {
		return nil, &ValidationError{Field: "caller", Reason: "caller identity is required"}
	}
	if caller.IsBackOffice() {
		return nil, ErrBackOfficeCaller
	}

	property, err := s.catalog.FindByRef(req.PropertyRef)
	if err != nil {
		return nil, err
	}
	if property.RentalKind != models.RentalKindShortStay {
		return nil, &ValidationError{Field: "propertyRef", Reason: "property is not a short-stay rental"}
	}

	SweepProperty(s.db, property.ID, now)

	// Fast-fail pre-check; not sufficient alone under concurrency.
	blocks, err := activeBlocks(s.db, property.ID, now)
	if err != nil {
		return nil, err
	}
	if blocked := FindFirstOverlap(blocks, checkIn, checkOut); blocked != nil {
		return nil, &ConflictError{
			ConflictingCheckIn:  blocked.CheckIn,
			ConflictingCheckOut: blocked.CheckOut,
			Snapshot:            buildSnapshot(blocks, now),
		}
	}

	reservation := s.newReservation(caller, property, req, checkIn, checkOut, lang, now)

	err = s.createAtomic(reservation, now)
	if errors.Is(err, errAtomicUnsupported) {
		err = s.createWithVerify(reservation, now)
	}
	if err != nil {
		return nil, err
	}

	// Best-effort side effects; failures never roll back the booking.
	if s.notifier != nil {
		go s.notifier.NotifyReservationCreated(reservation, property)
	}
	go func() {
		if _, err := ExpireAllStaleHolds(s.db, s.cache, s.now()); err != nil {
			log.Printf("booking: maintenance pass failed: %v", err)
		}
	}()

	blocks, err = activeBlocks(s.db, property.ID, now)
	if err != nil {
		return nil, err
	}
	return &BookingResult{
		Reservation: reservation,
		Nights:      reservation.Nights(),
		Snapshot:    buildSnapshot(blocks, now),
	}, nil
}

func (s *BookingService) newReservation(caller *models.User, property *PropertySnapshot, req BookingRequest, checkIn, checkOut time.Time, lang string, now time.Time) *models.Reservation {
	reservation := &models.Reservation{
		PropertyID:             property.ID,
		Reference:              uuid.NewString(),
		CheckIn:                checkIn,
		CheckOut:               checkOut,
		CustomerID:             &caller.ID,
		CustomerName:           req.CustomerName,
		CustomerPhone:          req.CustomerPhone,
		CustomerEmail:          req.CustomerEmail,
		ReservationOption:      req.ReservationOption,
		ReservationOptionLabel: req.ReservationOptionLabel,
		Message:                req.Message,
		Source:                 req.Source,
		Lang:                   lang,
	}
	if reservation.CustomerName == "" {
		reservation.CustomerName = strings.TrimSpace(caller.FirstName + " " + caller.LastName)
	}
	if reservation.CustomerPhone == "" {
		reservation.CustomerPhone = caller.PhoneNumber
	}
	if reservation.CustomerEmail == "" {
		reservation.CustomerEmail = caller.Email
	}
	if reservation.Source == "" {
		reservation.Source = "web"
	}

	if s.policy.AutoConfirm {
		reservation.Status = models.ReservationStatusNew
	} else {
		reservation.Status = models.ReservationStatusHold
		expiresAt := now.Add(s.policy.holdDuration())
		reservation.HoldExpiresAt = &expiresAt
	}
	return reservation
}

// errAtomicUnsupported signals that the data store cannot provide the
// transactional create path and the degraded insert-then-verify path
// must be used instead.
var errAtomicUnsupported = errors.New("atomic reservation path unavailable")

// createAtomic is the authoritative write path. Inside one transaction
// it locks the listing row to serialize writers on the same property,
// flips expired holds so the exclusion constraint never sees them as
// live, re-validates non-overlap and inserts. The database-level range
// exclusion constraint remains as a backstop.
func (s *BookingService) createAtomic(reservation *models.Reservation, now time.Time) error {
	if s.db.Dialector.Name() != "postgres" {
		return errAtomicUnsupported
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&property, reservation.PropertyID).Error; err != nil {
			return err
		}

		SweepProperty(tx, reservation.PropertyID, now)

		blocks, err := activeBlocks(tx, reservation.PropertyID, now)
		if err != nil {
			return err
		}
		if blocked := FindFirstOverlap(blocks, reservation.CheckIn, reservation.CheckOut); blocked != nil {
			return &ConflictError{
				ConflictingCheckIn:  blocked.CheckIn,
				ConflictingCheckOut: blocked.CheckOut,
				Snapshot:            buildSnapshot(blocks, now),
			}
		}
		return tx.Create(reservation).Error
	})

	if err != nil && strings.Contains(err.Error(), "reservations_no_overlap") {
		// A concurrent writer won the race at the constraint.
		return s.overlapConflict(reservation.PropertyID, reservation.CheckIn, reservation.CheckOut, now)
	}
	return err
}

// createWithVerify is the degraded path for deployments without the
// transactional create. It inserts first, then re-reads the active
// blocks; if the new block overlaps an older active block the insert is
// compensated with a self-cancellation. Two racing inserts resolve
// deterministically: the block with the higher ID cancels itself.
func (s *BookingService) createWithVerify(reservation *models.Reservation, now time.Time) error {
	if err := s.db.Create(reservation).Error; err != nil {
		return err
	}

	blocks, err := activeBlocks(s.db, reservation.PropertyID, now)
	if err != nil {
		log.Printf("booking: post-insert verification failed for reservation %d: %v", reservation.ID, err)
		return nil
	}

	for i := range blocks {
		other := &blocks[i]
		if other.ID >= reservation.ID {
			continue
		}
		if RangesOverlap(other.CheckIn, other.CheckOut, reservation.CheckIn, reservation.CheckOut) {
			s.db.Model(reservation).Updates(map[string]interface{}{
				"status":              models.ReservationStatusCancelled,
				"cancellation_reason": models.CancellationConflictAuto,
				"cancelled_at":        now,
			})
			return s.overlapConflict(reservation.PropertyID, reservation.CheckIn, reservation.CheckOut, now)
		}
	}
	return nil
}

// overlapConflict reloads the active blocks and rebuilds the conflict
// shape after a write-time overlap failure.
func (s *BookingService) overlapConflict(propertyID uint, checkIn, checkOut time.Time, now time.Time) error {
	blocks, err := activeBlocks(s.db, propertyID, now)
	if err != nil {
		return err
	}
	conflict := &ConflictError{
		ConflictingCheckIn:  checkIn,
		ConflictingCheckOut: checkOut,
		Snapshot:            buildSnapshot(blocks, now),
	}
	if blocked := FindFirstOverlap(blocks, checkIn, checkOut); blocked != nil {
		conflict.ConflictingCheckIn = blocked.CheckIn
		conflict.ConflictingCheckOut = blocked.CheckOut
	}
	return conflict
}
