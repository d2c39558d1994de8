package api

import (
	"net/http"

	"github.com/Domenick1991/vshuttle/internal/catalog"
	"github.com/Domenick1991/vshuttle/internal/domain"
	"github.com/Domenick1991/vshuttle/internal/service/inventory"
	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	catalog   *catalog.Catalog
	inventory inventory.InventoryUseCase
}

type routeResponse struct {
	Name      string        `json:"name"`
	Capacity  int           `json:"capacity"`
	Available int           `json:"available"`
	Stops     []domain.Stop `json:"stops"`
}

func NewRouteHandler(cat *catalog.Catalog, inv inventory.InventoryUseCase) *RouteHandler {
	return &RouteHandler{catalog: cat, inventory: inv}
}

func (h *RouteHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:name/stops", h.stops)
	router.GET("/:name/availability", h.availability)
}

// list returns the catalog with live availability per route. A route at zero
// stays in the list; disabling selection is the UI's job.
func (h *RouteHandler) list(c *gin.Context) {
	routes := h.catalog.Routes()
	out := make([]routeResponse, 0, len(routes))
	for _, r := range routes {
		av, err := h.inventory.Availability(c.Request.Context(), r.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out = append(out, routeResponse{
			Name:      r.Name,
			Capacity:  r.Capacity,
			Available: av.Available,
			Stops:     r.Stops,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *RouteHandler) stops(c *gin.Context) {
	stops, err := h.catalog.StopsFor(c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stops)
}

func (h *RouteHandler) availability(c *gin.Context) {
	av, err := h.inventory.Availability(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}
