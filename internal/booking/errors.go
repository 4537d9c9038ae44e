package booking

import "errors"

// ErrUnauthenticated is returned when an operation is attempted
// without a valid customer identity.  Handlers translate it into an
// HTTP 401 response.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrInvalidSeat is returned when the seat row or number is missing
// from a request.  Seat identifiers are otherwise free-form strings;
// they are not validated against a seat map.
var ErrInvalidSeat = errors.New("row and seat number are required")

// ErrCancellationWindowClosed is returned when a ticket is cancelled
// two hours or less before the showtime starts.  The cutoff is fixed
// policy with no override.
var ErrCancellationWindowClosed = errors.New("cannot cancel booking less than 2 hours before showtime")

// ErrAlreadyCancelled is returned when the ticket has already been
// cancelled.  Cancellation is not idempotent by design: the second
// call reports the state instead of silently succeeding.
var ErrAlreadyCancelled = errors.New("ticket already cancelled")
