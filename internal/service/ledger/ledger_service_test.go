package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Domenick1991/vshuttle/internal/catalog"
	"github.com/Domenick1991/vshuttle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRiderRepository struct {
	mock.Mock
}

func (m *MockRiderRepository) Get(ctx context.Context, username string) (*domain.RiderProfile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RiderProfile), args.Error(1)
}

func (m *MockRiderRepository) Save(ctx context.Context, profile *domain.RiderProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockRiderRepository) OccupiedSeats(ctx context.Context, route string) ([]string, error) {
	args := m.Called(ctx, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) IsBooked(ctx context.Context, route, seat string) (bool, error) {
	args := m.Called(ctx, route, seat)
	return args.Bool(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireSeatHold(ctx context.Context, route, seat string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, route, seat, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseSeatHold(ctx context.Context, route, seat string) error {
	args := m.Called(ctx, route, seat)
	return args.Error(0)
}

func (m *MockCache) InvalidateAvailability(ctx context.Context, route string) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo *MockRiderRepository, inv *MockInventory, opts ...LedgerServiceOption) *LedgerService {
	return NewLedgerService(repo, inv, catalog.New(), nil, nil, "", 30*time.Second, discardLogger(), opts...)
}

func TestCreate_SeatUnavailable(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{Username: "priya", HonestyScore: 100}

	// A1 is in Alandur's pre-seeded baseline.
	inv.On("IsBooked", mock.Anything, "Alandur", "A1").Return(true, nil)

	_, err := svc.Create(context.Background(), rider, "Alandur", "A1")
	assert.ErrorIs(t, err, domain.ErrSeatUnavailable)
	assert.Empty(t, rider.Bookings)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreate_Success(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{Username: "priya", HonestyScore: 100}

	inv.On("IsBooked", mock.Anything, "Alandur", "C5").Return(false, nil)
	repo.On("Save", mock.Anything, rider).Return(nil)

	booking, err := svc.Create(context.Background(), rider, "Alandur", "C5")
	assert.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "Alandur", booking.Route)
	assert.Equal(t, "C5", booking.Seat)
	assert.Equal(t, domain.BookingStatusActive, booking.Status)
	assert.False(t, booking.CreatedAt.IsZero())
	assert.Len(t, rider.Bookings, 1)
	repo.AssertExpectations(t)
}

func TestCreate_ActiveBookingExists(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{
		Username: "priya",
		Bookings: []domain.Booking{
			{ID: "b-1", Route: "Alandur", Seat: "C5", Status: domain.BookingStatusActive},
		},
	}

	// Any route is blocked while an active booking exists.
	_, err := svc.Create(context.Background(), rider, "Tambaram", "B3")
	assert.ErrorIs(t, err, domain.ErrActiveBookingExists)
	inv.AssertNotCalled(t, "IsBooked", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_InvalidSeat(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{Username: "priya"}

	for _, seat := range []string{"F1", "A0", "A11", "c5", ""} {
		_, err := svc.Create(context.Background(), rider, "Alandur", seat)
		assert.ErrorIs(t, err, domain.ErrInvalidSeat, "seat %q", seat)
	}
}

func TestCreate_RouteNotFound(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{Username: "priya"}

	_, err := svc.Create(context.Background(), rider, "Guindy", "C5")
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestCreate_PersistenceFailureRollsBackAppend(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{Username: "priya"}

	inv.On("IsBooked", mock.Anything, "Alandur", "C5").Return(false, nil)
	repo.On("Save", mock.Anything, rider).Return(errors.New("connection reset"))

	_, err := svc.Create(context.Background(), rider, "Alandur", "C5")
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Empty(t, rider.Bookings)
}

func TestCreate_SeatHoldGuard(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	cache := &MockCache{}
	svc := NewLedgerService(repo, inv, catalog.New(), cache, nil, "", 30*time.Second, discardLogger())

	rider := &domain.RiderProfile{Username: "priya"}

	cache.On("AcquireSeatHold", mock.Anything, "Alandur", "C5", 30*time.Second).Return(true, nil)
	cache.On("InvalidateAvailability", mock.Anything, "Alandur").Return(nil)
	cache.On("ReleaseSeatHold", mock.Anything, "Alandur", "C5").Return(nil)
	inv.On("IsBooked", mock.Anything, "Alandur", "C5").Return(false, nil)
	repo.On("Save", mock.Anything, rider).Return(nil)

	_, err := svc.Create(context.Background(), rider, "Alandur", "C5")
	assert.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestCreate_SeatHeldByAnotherAttempt(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	cache := &MockCache{}
	svc := NewLedgerService(repo, inv, catalog.New(), cache, nil, "", 30*time.Second, discardLogger())

	rider := &domain.RiderProfile{Username: "priya"}

	cache.On("AcquireSeatHold", mock.Anything, "Alandur", "C5", 30*time.Second).Return(false, nil)

	_, err := svc.Create(context.Background(), rider, "Alandur", "C5")
	assert.ErrorIs(t, err, domain.ErrSeatHeld)
	inv.AssertNotCalled(t, "IsBooked", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_PublishesEvents(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	producer := &MockProducer{}
	svc := NewLedgerService(repo, inv, catalog.New(), nil, producer, "booking-events", 30*time.Second, discardLogger(),
		WithNotificationsTopic("booking-notifications"),
	)

	rider := &domain.RiderProfile{Username: "priya"}

	inv.On("IsBooked", mock.Anything, "Alandur", "C5").Return(false, nil)
	repo.On("Save", mock.Anything, rider).Return(nil)
	producer.On("Publish", mock.Anything, "booking-events", mock.Anything, mock.Anything).Return(nil)
	producer.On("Publish", mock.Anything, "booking-notifications", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(context.Background(), rider, "Alandur", "C5")
	assert.NoError(t, err)
	producer.AssertExpectations(t)
}

func TestCancel_Success(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{
		Username: "priya",
		Bookings: []domain.Booking{
			{ID: "b-1", Route: "Alandur", Seat: "C5", CreatedAt: time.Now(), Status: domain.BookingStatusActive},
		},
	}

	repo.On("Save", mock.Anything, rider).Return(nil)

	booking, err := svc.Cancel(context.Background(), rider, "b-1")
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, booking.Status)
	assert.Len(t, rider.Bookings, 1, "cancellation must not remove entries")
	assert.Equal(t, domain.BookingStatusCancelled, rider.Bookings[0].Status)
}

func TestCancel_SecondCancelRejected(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{
		Username: "priya",
		Bookings: []domain.Booking{
			{ID: "b-1", Route: "Alandur", Seat: "C5", Status: domain.BookingStatusCancelled},
		},
	}

	_, err := svc.Cancel(context.Background(), rider, "b-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.Equal(t, domain.BookingStatusCancelled, rider.Bookings[0].Status)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCancel_UnknownID(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{Username: "priya"}

	_, err := svc.Cancel(context.Background(), rider, "no-such-booking")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestCancel_DoesNotTouchOtherBookings(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	created := time.Date(2025, 3, 10, 13, 45, 0, 0, time.UTC)
	rider := &domain.RiderProfile{
		Username: "priya",
		Bookings: []domain.Booking{
			{ID: "b-1", Route: "Alandur", Seat: "C5", CreatedAt: created, Status: domain.BookingStatusCancelled},
			{ID: "b-2", Route: "Tambaram", Seat: "B3", CreatedAt: created.Add(time.Hour), Status: domain.BookingStatusActive},
		},
	}

	repo.On("Save", mock.Anything, rider).Return(nil)

	_, err := svc.Cancel(context.Background(), rider, "b-2")
	assert.NoError(t, err)

	first := rider.Bookings[0]
	assert.Equal(t, "b-1", first.ID)
	assert.Equal(t, "Alandur", first.Route)
	assert.Equal(t, "C5", first.Seat)
	assert.Equal(t, created, first.CreatedAt)
}

func TestCancel_PersistenceFailureRestoresStatus(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{
		Username: "priya",
		Bookings: []domain.Booking{
			{ID: "b-1", Route: "Alandur", Seat: "C5", Status: domain.BookingStatusActive},
		},
	}

	repo.On("Save", mock.Anything, rider).Return(errors.New("connection reset"))

	_, err := svc.Cancel(context.Background(), rider, "b-1")
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, domain.BookingStatusActive, rider.Bookings[0].Status)
}

func TestActive_NoBooking(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{Username: "priya"}

	_, err := svc.Active(context.Background(), rider)
	assert.ErrorIs(t, err, domain.ErrNoActiveBooking)
}

func TestActive_IgnoresCancelled(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{
		Username: "priya",
		Bookings: []domain.Booking{
			{ID: "b-1", Route: "Alandur", Seat: "C5", Status: domain.BookingStatusCancelled},
			{ID: "b-2", Route: "Tambaram", Seat: "B3", Status: domain.BookingStatusActive},
		},
	}

	booking, err := svc.Active(context.Background(), rider)
	assert.NoError(t, err)
	assert.Equal(t, "b-2", booking.ID)
}

func TestActive_MultipleActiveReturnsFirst(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	// Corrupt ledger: two active entries. First by list order wins and the
	// rider still counts as blocked for new bookings.
	rider := &domain.RiderProfile{
		Username: "priya",
		Bookings: []domain.Booking{
			{ID: "b-1", Route: "Alandur", Seat: "C5", Status: domain.BookingStatusActive},
			{ID: "b-2", Route: "Tambaram", Seat: "B3", Status: domain.BookingStatusActive},
		},
	}

	booking, err := svc.Active(context.Background(), rider)
	assert.NoError(t, err)
	assert.Equal(t, "b-1", booking.ID)

	_, err = svc.Create(context.Background(), rider, "Sholinganallur", "D4")
	assert.ErrorIs(t, err, domain.ErrActiveBookingExists)
}

// Booking then cancelling then booking again walks the whole lifecycle.
func TestLifecycle_CancelUnblocksNextCreate(t *testing.T) {
	repo := &MockRiderRepository{}
	inv := &MockInventory{}
	svc := newTestService(repo, inv)

	rider := &domain.RiderProfile{Username: "priya", HonestyScore: 100}

	inv.On("IsBooked", mock.Anything, "Alandur", "C5").Return(false, nil)
	inv.On("IsBooked", mock.Anything, "Tambaram", "B3").Return(false, nil)
	repo.On("Save", mock.Anything, rider).Return(nil)

	first, err := svc.Create(context.Background(), rider, "Alandur", "C5")
	assert.NoError(t, err)

	_, err = svc.Create(context.Background(), rider, "Tambaram", "B3")
	assert.ErrorIs(t, err, domain.ErrActiveBookingExists)

	_, err = svc.Cancel(context.Background(), rider, first.ID)
	assert.NoError(t, err)

	second, err := svc.Create(context.Background(), rider, "Tambaram", "B3")
	assert.NoError(t, err)
	assert.Equal(t, "Tambaram", second.Route)

	assert.Len(t, rider.Bookings, 2)
	active := 0
	for _, b := range rider.Bookings {
		if b.IsActive() {
			active++
		}
	}
	assert.Equal(t, 1, active)
}
