package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	BookingsCreated   prometheus.Counter
	BookingsCancelled prometheus.Counter
	BookingsRejected  *prometheus.CounterVec // reason label

	AvailabilityDuration prometheus.Histogram
	TrackingViews        prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vshuttle_bookings_created_total",
			Help: "Total bookings created.",
		}),
		BookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vshuttle_bookings_cancelled_total",
			Help: "Total bookings cancelled.",
		}),
		BookingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vshuttle_bookings_rejected_total",
			Help: "Booking attempts rejected by the ledger.",
		}, []string{"reason"}),
		AvailabilityDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vshuttle_availability_duration_seconds",
			Help:    "Duration of availability computations.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		TrackingViews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vshuttle_tracking_views_total",
			Help: "Tracking views served.",
		}),
	}

	reg.MustRegister(
		c.BookingsCreated, c.BookingsCancelled, c.BookingsRejected,
		c.AvailabilityDuration, c.TrackingViews,
	)
	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	return srv
}
