package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/vshuttle/internal/domain"
	"github.com/gin-gonic/gin"
)

// statusFor maps engine sentinels to HTTP codes. The engine returns
// structured errors and never renders; translation happens here.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRiderNotFound),
		errors.Is(err, domain.ErrRouteNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrNoActiveBooking):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSeat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrActiveBookingExists),
		errors.Is(err, domain.ErrSeatUnavailable),
		errors.Is(err, domain.ErrSeatHeld),
		errors.Is(err, domain.ErrAlreadyCancelled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
