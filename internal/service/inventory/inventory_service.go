package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/Domenick1991/vshuttle/internal/catalog"
	"github.com/Domenick1991/vshuttle/internal/domain"
	"github.com/Domenick1991/vshuttle/internal/metrics"
	"github.com/Domenick1991/vshuttle/internal/repository"
)

type InventoryUseCase interface {
	Availability(ctx context.Context, route string) (*domain.Availability, error)
	IsBooked(ctx context.Context, route, seat string) (bool, error)
}

// Cache is the optional availability snapshot store. A nil cache means every
// query recomputes from the ledger, which is the baseline behavior anyway.
type Cache interface {
	GetAvailability(ctx context.Context, route string) (*domain.Availability, error)
	SetAvailability(ctx context.Context, av domain.Availability) error
}

type InventoryService struct {
	catalog *catalog.Catalog
	riders  repository.RiderRepository
	cache   Cache
	metrics *metrics.Collector
}

type InventoryServiceOption func(*InventoryService)

func WithMetrics(c *metrics.Collector) InventoryServiceOption {
	return func(s *InventoryService) {
		s.metrics = c
	}
}

func NewInventoryService(cat *catalog.Catalog, riders repository.RiderRepository, cache Cache, opts ...InventoryServiceOption) *InventoryService {
	s := &InventoryService{catalog: cat, riders: riders, cache: cache}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Availability reports capacity and the occupied seat set for a route. The
// occupied set is the union of the route's pre-seeded baseline and the seats
// of non-cancelled bookings across all riders, recomputed from the ledger on
// every miss.
func (s *InventoryService) Availability(ctx context.Context, route string) (*domain.Availability, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAvailability(ctx, route); err == nil && cached != nil {
			return cached, nil
		}
	}

	start := time.Now()
	r, err := s.catalog.Get(route)
	if err != nil {
		return nil, err
	}
	baseline, err := s.catalog.Baseline(route)
	if err != nil {
		return nil, err
	}
	booked, err := s.riders.OccupiedSeats(ctx, route)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]struct{}, len(baseline)+len(booked))
	for _, seat := range baseline {
		occupied[seat] = struct{}{}
	}
	for _, seat := range booked {
		occupied[seat] = struct{}{}
	}

	seats := make([]string, 0, len(occupied))
	for seat := range occupied {
		seats = append(seats, seat)
	}
	sort.Strings(seats)

	available := r.Capacity - len(seats)
	if available < 0 {
		available = 0
	}

	av := &domain.Availability{
		Route:     route,
		Capacity:  r.Capacity,
		Occupied:  seats,
		Available: available,
	}

	if s.metrics != nil {
		s.metrics.AvailabilityDuration.Observe(time.Since(start).Seconds())
	}
	if s.cache != nil {
		_ = s.cache.SetAvailability(ctx, *av)
	}
	return av, nil
}

func (s *InventoryService) IsBooked(ctx context.Context, route, seat string) (bool, error) {
	av, err := s.Availability(ctx, route)
	if err != nil {
		return false, err
	}
	for _, occupied := range av.Occupied {
		if occupied == seat {
			return true, nil
		}
	}
	return false, nil
}

var _ InventoryUseCase = (*InventoryService)(nil)
