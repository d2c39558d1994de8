package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Domenick1991/vshuttle/internal/catalog"
	"github.com/Domenick1991/vshuttle/internal/domain"
	"github.com/Domenick1991/vshuttle/internal/kafka"
	"github.com/Domenick1991/vshuttle/internal/metrics"
	"github.com/Domenick1991/vshuttle/internal/repository"
	"github.com/google/uuid"
)

// LedgerUseCase is the authority over booking creation and cancellation. The
// rider profile is passed in explicitly; the service persists it on every
// successful mutation.
type LedgerUseCase interface {
	Create(ctx context.Context, rider *domain.RiderProfile, route, seat string) (*domain.Booking, error)
	Cancel(ctx context.Context, rider *domain.RiderProfile, bookingID string) (*domain.Booking, error)
	Active(ctx context.Context, rider *domain.RiderProfile) (*domain.Booking, error)
}

type Inventory interface {
	IsBooked(ctx context.Context, route, seat string) (bool, error)
}

// Cache covers the seat hold guarding the check-then-write window and the
// availability snapshot invalidated on every mutation. Nil disables both,
// which is fine for a single rider session.
type Cache interface {
	AcquireSeatHold(ctx context.Context, route, seat string, ttl time.Duration) (bool, error)
	ReleaseSeatHold(ctx context.Context, route, seat string) error
	InvalidateAvailability(ctx context.Context, route string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type LedgerService struct {
	riders             repository.RiderRepository
	inventory          Inventory
	catalog            *catalog.Catalog
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	log                *slog.Logger
	metrics            *metrics.Collector
	now                func() time.Time
}

type LedgerServiceOption func(*LedgerService)

func WithNotificationsTopic(topic string) LedgerServiceOption {
	return func(s *LedgerService) {
		s.notificationsTopic = topic
	}
}

func WithMetrics(c *metrics.Collector) LedgerServiceOption {
	return func(s *LedgerService) {
		s.metrics = c
	}
}

// WithClock overrides the creation-time source.
func WithClock(now func() time.Time) LedgerServiceOption {
	return func(s *LedgerService) {
		s.now = now
	}
}

func NewLedgerService(
	riders repository.RiderRepository,
	inventory Inventory,
	cat *catalog.Catalog,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	log *slog.Logger,
	opts ...LedgerServiceOption,
) *LedgerService {
	s := &LedgerService{
		riders:       riders,
		inventory:    inventory,
		catalog:      cat,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create appends a new active booking to the rider's ledger. It enforces the
// single-active-booking invariant at creation time, validates the seat
// against the shared layout and checks live occupancy before persisting.
func (s *LedgerService) Create(ctx context.Context, rider *domain.RiderProfile, route, seat string) (*domain.Booking, error) {
	if !domain.ValidSeat(seat) {
		s.reject("invalid_seat")
		return nil, domain.ErrInvalidSeat
	}
	if _, err := s.catalog.Get(route); err != nil {
		s.reject("route_not_found")
		return nil, err
	}

	if _, err := s.Active(ctx, rider); err == nil {
		s.reject("active_booking_exists")
		return nil, domain.ErrActiveBookingExists
	} else if !errors.Is(err, domain.ErrNoActiveBooking) {
		return nil, err
	}

	held := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSeatHold(ctx, route, seat, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.reject("seat_held")
			return nil, domain.ErrSeatHeld
		}
		held = true
	}
	releaseHold := func() {
		if held {
			_ = s.cache.ReleaseSeatHold(ctx, route, seat)
		}
	}

	booked, err := s.inventory.IsBooked(ctx, route, seat)
	if err != nil {
		releaseHold()
		return nil, err
	}
	if booked {
		releaseHold()
		s.reject("seat_unavailable")
		return nil, domain.ErrSeatUnavailable
	}

	booking := domain.Booking{
		ID:        uuid.NewString(),
		Route:     route,
		Seat:      seat,
		CreatedAt: s.now().UTC(),
		Status:    domain.BookingStatusActive,
	}
	rider.Bookings = append(rider.Bookings, booking)

	if err := s.riders.Save(ctx, rider); err != nil {
		rider.Bookings = rider.Bookings[:len(rider.Bookings)-1]
		releaseHold()
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateAvailability(ctx, route)
	}
	releaseHold()

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.publish(ctx, kafka.EventBookingCreated, rider.Username, &booking)

	return &rider.Bookings[len(rider.Bookings)-1], nil
}

// Cancel flips a booking's status to cancelled by its stable id. The entry
// stays in the ledger; the seat frees up on the next availability query
// because occupancy is derived from non-cancelled bookings.
func (s *LedgerService) Cancel(ctx context.Context, rider *domain.RiderProfile, bookingID string) (*domain.Booking, error) {
	idx := -1
	for i := range rider.Bookings {
		if rider.Bookings[i].ID == bookingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrBookingNotFound
	}

	booking := &rider.Bookings[idx]
	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	booking.Status = domain.BookingStatusCancelled
	if err := s.riders.Save(ctx, rider); err != nil {
		booking.Status = domain.BookingStatusActive
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateAvailability(ctx, booking.Route)
	}
	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}
	s.publish(ctx, kafka.EventBookingCancelled, rider.Username, booking)

	return booking, nil
}

// Active returns the rider's single active booking. Should the ledger ever
// hold more than one (corrupt data), the first by list order wins and a
// consistency warning is logged; the rider still counts as blocked.
func (s *LedgerService) Active(ctx context.Context, rider *domain.RiderProfile) (*domain.Booking, error) {
	var first *domain.Booking
	active := 0
	for i := range rider.Bookings {
		if rider.Bookings[i].IsActive() {
			if first == nil {
				first = &rider.Bookings[i]
			}
			active++
		}
	}
	if first == nil {
		return nil, domain.ErrNoActiveBooking
	}
	if active > 1 {
		s.log.WarnContext(ctx, "ledger holds multiple active bookings, using first by list order",
			slog.String("username", rider.Username),
			slog.Int("active_count", active),
		)
	}
	return first, nil
}

func (s *LedgerService) reject(reason string) {
	if s.metrics != nil {
		s.metrics.BookingsRejected.WithLabelValues(reason).Inc()
	}
}

func (s *LedgerService) publish(ctx context.Context, eventType, username string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		Username:  username,
		Route:     booking.Route,
		Seat:      booking.Seat,
		Status:    string(booking.Status),
		CreatedAt: booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		s.log.WarnContext(ctx, "failed to publish booking event",
			slog.String("type", eventType),
			slog.String("booking_id", booking.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			s.log.WarnContext(ctx, "failed to publish notification event",
				slog.String("type", eventType),
				slog.String("booking_id", booking.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}

var _ LedgerUseCase = (*LedgerService)(nil)
