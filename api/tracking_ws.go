package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/vshuttle/internal/repository"
	"github.com/Domenick1991/vshuttle/internal/service/tracker"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The booking UI is a browser SPA on another origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TrackingStreamHandler pushes tracking views over a websocket on a fixed
// interval, feeding the live-tracking page.
type TrackingStreamHandler struct {
	service      tracker.TrackerUseCase
	riders       repository.RiderRepository
	pushInterval time.Duration
}

func NewTrackingStreamHandler(service tracker.TrackerUseCase, riders repository.RiderRepository, pushInterval time.Duration) *TrackingStreamHandler {
	if pushInterval <= 0 {
		pushInterval = 5 * time.Second
	}
	return &TrackingStreamHandler{service: service, riders: riders, pushInterval: pushInterval}
}

func (h *TrackingStreamHandler) Register(router *gin.RouterGroup) {
	router.GET("/riders/:username/tracking", h.stream)
}

func (h *TrackingStreamHandler) stream(c *gin.Context) {
	profile, ok := loadRider(c, h.riders)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Drain reads so client close frames are noticed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	for {
		view, err := h.service.Progress(ctx, profile)
		if err != nil {
			_ = conn.WriteJSON(gin.H{"error": err.Error()})
			return
		}
		if err := conn.WriteJSON(view); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
