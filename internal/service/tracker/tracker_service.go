package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/vshuttle/internal/catalog"
	"github.com/Domenick1991/vshuttle/internal/domain"
	"github.com/Domenick1991/vshuttle/internal/metrics"
)

type StopStatus string

const (
	StopCompleted StopStatus = "completed"
	StopCurrent   StopStatus = "current"
	StopUpcoming  StopStatus = "upcoming"
)

type StopView struct {
	Name      string     `json:"name"`
	Scheduled string     `json:"scheduled"`
	Status    StopStatus `json:"status"`
}

// TrackingView is the simulated live picture for the rider's active booking.
// Everything in it is a pure function of the stop pointer and stop order.
type TrackingView struct {
	Route           string       `json:"route"`
	CurrentLocation string       `json:"currentLocation"`
	ETA             string       `json:"eta"`
	NextStop        *domain.Stop `json:"nextStop,omitempty"`
	Status          string       `json:"status"`
	Stops           []StopView   `json:"stops"`
}

// ActiveSource resolves the rider's single active booking; the ledger
// service satisfies it.
type ActiveSource interface {
	Active(ctx context.Context, rider *domain.RiderProfile) (*domain.Booking, error)
}

type TrackerUseCase interface {
	Progress(ctx context.Context, rider *domain.RiderProfile) (*TrackingView, error)
}

type TrackerService struct {
	catalog  *catalog.Catalog
	ledger   ActiveSource
	interval time.Duration
	metrics  *metrics.Collector
	now      func() time.Time
}

type TrackerServiceOption func(*TrackerService)

func WithStopInterval(d time.Duration) TrackerServiceOption {
	return func(s *TrackerService) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithMetrics(c *metrics.Collector) TrackerServiceOption {
	return func(s *TrackerService) {
		s.metrics = c
	}
}

// WithClock overrides the wall clock driving the stop pointer.
func WithClock(now func() time.Time) TrackerServiceOption {
	return func(s *TrackerService) {
		s.now = now
	}
}

func NewTrackerService(cat *catalog.Catalog, ledger ActiveSource, opts ...TrackerServiceOption) *TrackerService {
	s := &TrackerService{
		catalog:  cat,
		ledger:   ledger,
		interval: catalog.StopInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Progress derives the tracking view for the rider's active booking. The stop
// pointer advances one stop per interval of elapsed time since the booking
// was created, clamped to the stop sequence, so it is deterministic and
// monotonically non-decreasing.
func (s *TrackerService) Progress(ctx context.Context, rider *domain.RiderProfile) (*TrackingView, error) {
	booking, err := s.ledger.Active(ctx, rider)
	if err != nil {
		return nil, err
	}

	stops, err := s.catalog.StopsFor(booking.Route)
	if err != nil {
		return nil, err
	}

	elapsed := s.now().Sub(booking.CreatedAt)
	pointer := stopPointer(elapsed, s.interval, len(stops))

	view := &TrackingView{
		Route:           booking.Route,
		CurrentLocation: "Near " + stops[pointer].Name,
		Status:          "On Time",
		Stops:           make([]StopView, len(stops)),
	}

	for i, stop := range stops {
		status := StopUpcoming
		switch {
		case i < pointer:
			status = StopCompleted
		case i == pointer:
			status = StopCurrent
		}
		view.Stops[i] = StopView{Name: stop.Name, Scheduled: stop.Scheduled, Status: status}
	}

	if pointer < len(stops)-1 {
		next := stops[pointer+1]
		view.NextStop = &next
		view.ETA = etaString(elapsed, s.interval)
	} else {
		view.ETA = "Arriving soon"
	}

	if s.metrics != nil {
		s.metrics.TrackingViews.Inc()
	}
	return view, nil
}

func stopPointer(elapsed, interval time.Duration, stops int) int {
	if stops == 0 {
		return 0
	}
	if elapsed < 0 {
		elapsed = 0
	}
	p := int(elapsed / interval)
	if p > stops-1 {
		p = stops - 1
	}
	return p
}

// etaString renders the time left until the next stop transition, rounded up
// to whole minutes.
func etaString(elapsed, interval time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := interval - elapsed%interval
	mins := int((remaining + time.Minute - 1) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("%d mins", mins)
}

var _ TrackerUseCase = (*TrackerService)(nil)
