package routes

import (
	"errors"
	"time"

	"darkom-server/models"
	"darkom-server/services"
	"darkom-server/storage"
	"darkom-server/utils"

	"github.com/kataras/iris/v12"
)

// Notifier is the shared notification dispatcher; main wires it at
// startup.
var Notifier *services.NotificationService

type CreateReservationInput struct {
	CheckInDate            string `json:"checkInDate" validate:"required"`
	CheckOutDate           string `json:"checkOutDate" validate:"required"`
	CustomerName           string `json:"customerName" validate:"omitempty,max=120"`
	CustomerPhone          string `json:"customerPhone" validate:"omitempty,max=32"`
	CustomerEmail          string `json:"customerEmail" validate:"omitempty,email"`
	ReservationOption      string `json:"reservationOption" validate:"omitempty,max=64"`
	ReservationOptionLabel string `json:"reservationOptionLabel" validate:"omitempty,max=120"`
	Message                string `json:"message" validate:"omitempty,max=1000"`
	Lang                   string `json:"lang" validate:"omitempty,oneof=fr ar"`
	Source                 string `json:"source" validate:"omitempty,max=32"`
}

// CreateReservation books a date range on a listing for the
// authenticated customer.
func CreateReservation(ctx iris.Context) {
	ref := ctx.Params().Get("ref")
	userID := ctx.Values().Get("userID").(uint)

	var input CreateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var caller models.User
	if err := storage.DB.First(&caller, userID).Error; err != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Unknown caller identity", ctx)
		return
	}

	result, err := Booking.CreateReservation(&caller, services.BookingRequest{
		PropertyRef:            ref,
		CheckIn:                input.CheckInDate,
		CheckOut:               input.CheckOutDate,
		CustomerName:           input.CustomerName,
		CustomerPhone:          input.CustomerPhone,
		CustomerEmail:          input.CustomerEmail,
		ReservationOption:      input.ReservationOption,
		ReservationOptionLabel: input.ReservationOptionLabel,
		Message:                input.Message,
		Lang:                   input.Lang,
		Source:                 input.Source,
	})
	if err != nil {
		writeBookingError(ctx, err)
		return
	}

	reservation := result.Reservation
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"id":                   reservation.ID,
		"reference":            reservation.Reference,
		"status":               reservation.Status,
		"checkInDate":          utils.FormatDate(reservation.CheckIn),
		"checkOutDate":         utils.FormatDate(reservation.CheckOut),
		"nights":               result.Nights,
		"holdExpiresAt":        reservation.HoldExpiresAt,
		"isReserved":           result.Snapshot.IsReserved,
		"reservedUntil":        result.Snapshot.ReservedUntil,
		"nextAvailableCheckIn": result.Snapshot.NextAvailableCheckIn,
		"blockedRanges":        result.Snapshot.BlockedRanges,
	})
}

func writeBookingError(ctx iris.Context, err error) {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{
			"error":   "validation_error",
			"field":   validationErr.Field,
			"message": validationErr.Reason,
		})
	case errors.Is(err, services.ErrPropertyNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
	case errors.Is(err, services.ErrBackOfficeCaller):
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{
			"error":   "policy_violation",
			"message": "Back-office accounts cannot create customer reservations",
		})
	case errors.As(err, &conflictErr):
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{
			"error":                "date_conflict",
			"message":              "Selected dates are not available",
			"isReserved":           conflictErr.Snapshot.IsReserved,
			"reservedUntil":        conflictErr.Snapshot.ReservedUntil,
			"nextAvailableCheckIn": conflictErr.Snapshot.NextAvailableCheckIn,
			"blockedRanges":        conflictErr.Snapshot.BlockedRanges,
			"conflictingCheckIn":   utils.FormatDate(conflictErr.ConflictingCheckIn),
			"conflictingCheckOut":  utils.FormatDate(conflictErr.ConflictingCheckOut),
		})
	default:
		utils.CreateInternalServerError(ctx)
	}
}

// GetReservationsByPropertyRef lists every block for a listing,
// including cancelled history (back-office view).
func GetReservationsByPropertyRef(ctx iris.Context) {
	ref := ctx.Params().Get("ref")

	var property models.Property
	if err := storage.DB.Where("ref = ?", ref).First(&property).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}

	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 50)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	var total int64
	storage.DB.Model(&models.Reservation{}).Where("property_id = ?", property.ID).Count(&total)

	var reservations []models.Reservation
	res := storage.DB.Where("property_id = ?", property.ID).
		Order("check_in ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reservations)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	utils.JSONPage(ctx, reservations, page, perPage, total)
}

type UpdateReservationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=new contacted confirmed cancelled"`
	Reason string `json:"reason" validate:"omitempty,max=64"`
}

// UpdateReservationStatus is the back-office promotion/cancellation
// action: hold blocks get promoted to new/contacted/confirmed or
// cancelled; nothing ever leaves cancelled.
func UpdateReservationStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid reservation ID", ctx)
		return
	}

	var input UpdateReservationStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var reservation models.Reservation
	if err := storage.DB.First(&reservation, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
		return
	}

	// Sweep expired holds first so a promotion cannot resurrect a hold
	// that already lapsed.
	services.SweepProperty(storage.DB, reservation.PropertyID, time.Now())
	if err := storage.DB.First(&reservation, id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if reservation.Status == models.ReservationStatusCancelled {
		utils.CreateError(iris.StatusBadRequest, "Invalid Transition", "Cancelled reservations cannot change status", ctx)
		return
	}

	before := reservation

	reservation.Status = input.Status
	if input.Status == models.ReservationStatusCancelled {
		now := time.Now()
		reservation.CancelledAt = &now
		reservation.CancellationReason = input.Reason
		if reservation.CancellationReason == "" {
			reservation.CancellationReason = models.CancellationByBackOffice
		}
	} else {
		// Promotion out of hold makes the block durable.
		reservation.HoldExpiresAt = nil
	}

	if err := storage.DB.Save(&reservation).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "reservation_status_update", "reservation", reservation.ID, before, reservation)

	ctx.JSON(reservation)
}

// CancelReservation lets a customer cancel their own block.
func CancelReservation(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid reservation ID", ctx)
		return
	}

	var reservation models.Reservation
	if err := storage.DB.Where("id = ? AND customer_id = ?", id, userID).First(&reservation).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
		return
	}

	if reservation.Status == models.ReservationStatusCancelled {
		utils.CreateError(iris.StatusBadRequest, "Invalid Transition", "Reservation is already cancelled", ctx)
		return
	}

	now := time.Now()
	reservation.Status = models.ReservationStatusCancelled
	reservation.CancelledAt = &now
	reservation.CancellationReason = models.CancellationByCustomer
	if err := storage.DB.Save(&reservation).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if Notifier != nil {
		var property models.Property
		if err := storage.DB.First(&property, reservation.PropertyID).Error; err == nil {
			snapshot := &services.PropertySnapshot{ID: property.ID, Ref: property.Ref, Title: property.Title, HostID: property.HostID}
			go Notifier.NotifyReservationCancelled(&reservation, snapshot, models.CancellationByCustomer)
		}
	}

	ctx.JSON(reservation)
}

// ExpireStaleHolds is the batch maintenance trigger; a scheduler may
// call it, but correctness never depends on it running.
func ExpireStaleHolds(ctx iris.Context) {
	expired, err := services.ExpireAllStaleHolds(storage.DB, storage.Redis, time.Now())
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}
	ctx.JSON(iris.Map{"ok": true, "expired": expired})
}
