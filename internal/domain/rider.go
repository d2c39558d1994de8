package domain

// RiderProfile is the persisted record for one rider. Bookings is append-only:
// cancellation flips a status in place, entries are never removed.
//
// HonestyScore is carried through persistence and the API but no engine code
// path mutates it.
type RiderProfile struct {
	Username     string    `json:"username"`
	HonestyScore int       `json:"honestyScore"`
	Bookings     []Booking `json:"bookings"`
}
