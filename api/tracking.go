package api

import (
	"net/http"

	"github.com/Domenick1991/vshuttle/internal/repository"
	"github.com/Domenick1991/vshuttle/internal/service/tracker"
	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	service tracker.TrackerUseCase
	riders  repository.RiderRepository
}

func NewTrackingHandler(service tracker.TrackerUseCase, riders repository.RiderRepository) *TrackingHandler {
	return &TrackingHandler{service: service, riders: riders}
}

func (h *TrackingHandler) Register(router *gin.RouterGroup) {
	router.GET("/:username/tracking", h.get)
}

func (h *TrackingHandler) get(c *gin.Context) {
	profile, ok := loadRider(c, h.riders)
	if !ok {
		return
	}

	view, err := h.service.Progress(c.Request.Context(), profile)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
