package routes

import (
	"errors"

	"darkom-server/services"
	"darkom-server/utils"

	"github.com/kataras/iris/v12"
)

// Booking is the orchestrator shared by the reservation and
// availability handlers; main wires it at startup.
var Booking *services.BookingService

// GetPropertyAvailability returns the derived availability snapshot for
// a listing. Reading availability also sweeps the property's expired
// holds.
func GetPropertyAvailability(ctx iris.Context) {
	ref := ctx.Params().Get("ref")
	if ref == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Property reference is required", ctx)
		return
	}

	snapshot, err := Booking.Availability(ref)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(snapshot)
}
