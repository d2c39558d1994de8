package api

import (
	"net/http"

	"github.com/Domenick1991/vshuttle/internal/domain"
	"github.com/Domenick1991/vshuttle/internal/repository"
	"github.com/gin-gonic/gin"
)

type RiderHandler struct {
	riders repository.RiderRepository
}

func NewRiderHandler(riders repository.RiderRepository) *RiderHandler {
	return &RiderHandler{riders: riders}
}

func (h *RiderHandler) Register(router *gin.RouterGroup) {
	router.GET("/:username", h.get)
}

func (h *RiderHandler) get(c *gin.Context) {
	profile, ok := loadRider(c, h.riders)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, profile)
}

// loadRider fetches the session's rider record; a 404 here is what sends the
// UI to its login entry point.
func loadRider(c *gin.Context, riders repository.RiderRepository) (*domain.RiderProfile, bool) {
	profile, err := riders.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return profile, true
}
