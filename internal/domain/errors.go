package domain

import "errors"

var (
	ErrRouteNotFound       = errors.New("route not found")
	ErrRiderNotFound       = errors.New("rider not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInvalidSeat         = errors.New("seat is not part of the route layout")
	ErrSeatUnavailable     = errors.New("seat is already booked")
	ErrSeatHeld            = errors.New("seat is held by another booking attempt")
	ErrActiveBookingExists = errors.New("rider already has an active booking")
	ErrAlreadyCancelled    = errors.New("booking is already cancelled")
	ErrNoActiveBooking     = errors.New("no active booking")
	ErrPersistence         = errors.New("persistence failure")
)
