package domain

import "time"

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is one entry in a rider's ledger. Route, seat and creation time are
// immutable after creation; only Status moves, and only active -> cancelled.
type Booking struct {
	ID        string        `json:"id"`
	Route     string        `json:"route"`
	Seat      string        `json:"seat"`
	CreatedAt time.Time     `json:"date"`
	Status    BookingStatus `json:"status"`
}

func (b Booking) IsActive() bool {
	return b.Status == BookingStatusActive
}
