// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as the booking service and handlers to distinguish between
// failure scenarios. Recoverable races (ErrSeatLocked, ErrStaleWrite)
// are retry signals; ErrSeatAlreadyBooked is the authoritative
// collision outcome backed by the seat ledger's unique key.
package repository

import "errors"

// ErrShowtimeNotFound indicates that a showtime was not located.
// Handlers translate this into an HTTP 404 response.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrTicketNotFound indicates that a ticket does not exist or does
// not belong to the requesting customer. Handlers translate this
// into an HTTP 404 response.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrClaimNotFound indicates that no seat claim exists yet for a
// (showtime, row, seat) triple.
var ErrClaimNotFound = errors.New("seat claim not found")

// ErrSeatAlreadyBooked is the authoritative double-booking signal:
// either an active ticket exists for the seat or the unique key on
// seat_claims rejected a concurrent claim. Handlers translate this
// into an HTTP 409 response with a "pick another seat" message.
var ErrSeatAlreadyBooked = errors.New("seat is already booked")

// ErrSeatLocked indicates the seat is held by another customer's
// live reservation. The condition clears when the hold expires or is
// released, so callers may retry later.
var ErrSeatLocked = errors.New("seat is currently held by another customer")

// ErrStaleWrite indicates an optimistic-version mismatch: the claim
// changed between read and write. Callers should reread and retry a
// bounded number of times.
var ErrStaleWrite = errors.New("stale write: claim version changed")

// ErrLockNotHeld is returned when a customer tries to release a hold
// they do not own. The ownership check prevents a late caller from
// freeing someone else's seat.
var ErrLockNotHeld = errors.New("hold not owned by caller")

// ErrEmailExists indicates a registration attempt with an email that
// is already taken. Handlers translate this into an HTTP 409.
var ErrEmailExists = errors.New("email already registered")

// ErrCounterOutOfRange indicates an availability adjustment that
// would push the counter below zero or above the theater capacity.
// Seeing it outside a lost race means the counter has drifted and
// needs reconciliation.
var ErrCounterOutOfRange = errors.New("available seats counter out of range")
