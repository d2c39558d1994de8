package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/vshuttle/internal/domain"
	"github.com/Domenick1991/vshuttle/internal/repository"
	"github.com/Domenick1991/vshuttle/internal/service/ledger"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service ledger.LedgerUseCase
	riders  repository.RiderRepository
}

type createBookingRequest struct {
	Route string `json:"route" binding:"required"`
	Seat  string `json:"seat" binding:"required"`
}

type bookingResponse struct {
	ID     string `json:"id"`
	Route  string `json:"route"`
	Seat   string `json:"seat"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

func NewBookingHandler(service ledger.LedgerUseCase, riders repository.RiderRepository) *BookingHandler {
	return &BookingHandler{service: service, riders: riders}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/:username/bookings", h.create)
	router.DELETE("/:username/bookings/:id", h.cancel)
	router.GET("/:username/bookings/active", h.active)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, ok := loadRider(c, h.riders)
	if !ok {
		return
	}

	booking, err := h.service.Create(c.Request.Context(), profile, req.Route, req.Seat)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	profile, ok := loadRider(c, h.riders)
	if !ok {
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), profile, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) active(c *gin.Context) {
	profile, ok := loadRider(c, h.riders)
	if !ok {
		return
	}

	booking, err := h.service.Active(c.Request.Context(), profile)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:     b.ID,
		Route:  b.Route,
		Seat:   b.Seat,
		Date:   b.CreatedAt.Format(time.RFC3339),
		Status: string(b.Status),
	}
}
