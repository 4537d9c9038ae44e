// Package booking implements the seat-booking core: claiming seats,
// issuing tickets and payments, cancelling bookings and keeping the
// showtime availability counter consistent with the set of active
// tickets.  Storage is abstracted behind small interfaces so the same
// orchestration runs against the MySQL repositories or the in-memory
// store used by single-process deployments and tests.
package booking

import (
    "context"
    "time"

    "github.com/iliyamo/movie-ticket-platform/internal/model"
)

// ShowtimeStore provides read access to showtimes and guarded
// mutation of the denormalized availability counter.  AdjustAvailableSeats
// must apply the delta atomically and fail when the result would leave
// the interval [0, theater capacity]; the counter is never
// read-modify-written by callers.
type ShowtimeStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Showtime, error)
    AdjustAvailableSeats(ctx context.Context, id uint64, delta int) error
}

// SeatLedger is the set of seat-claim records for all showtimes.  The
// (showtime, row, seat number) triple is a unique key at the storage
// layer; CreateBooked relies on that constraint to fail
// deterministically when two requests race for the same seat.
type SeatLedger interface {
    // GetClaim returns the claim for a seat or repository.ErrClaimNotFound.
    GetClaim(ctx context.Context, showtimeID uint64, row, seat string) (*model.SeatClaim, error)

    // CreateBooked inserts a new claim directly in BOOKED status.  A
    // uniqueness violation maps to repository.ErrSeatAlreadyBooked.
    CreateBooked(ctx context.Context, showtimeID uint64, row, seat string, customerID uint64) (*model.SeatClaim, error)

    // AcquireLock places a time-boxed RESERVED hold on a seat.  It
    // succeeds when the seat has no claim, an AVAILABLE claim, an
    // expired hold, or a hold already owned by the caller (the expiry
    // is extended).  BOOKED seats yield repository.ErrSeatAlreadyBooked
    // and live holds by other customers repository.ErrSeatLocked.
    AcquireLock(ctx context.Context, showtimeID uint64, row, seat string, customerID uint64, ttl time.Duration) (*model.SeatClaim, error)

    // ReleaseLock clears a hold only when the caller owns it, so a
    // late release cannot free a seat held by someone else.
    ReleaseLock(ctx context.Context, showtimeID uint64, row, seat string, customerID uint64) error

    // PromoteWithVersion transitions an existing claim to BOOKED for
    // the given customer only if its version still equals
    // expectedVersion, incrementing the version on success.  A version
    // mismatch yields repository.ErrStaleWrite, signalling the caller
    // to reread and retry.
    PromoteWithVersion(ctx context.Context, claimID, customerID uint64, expectedVersion uint32) error

    // Release returns a claim to AVAILABLE, clearing owner and lock.
    Release(ctx context.Context, claimID uint64) error

    // Delete removes a claim outright.  Used only to compensate a
    // booking that never completed.
    Delete(ctx context.Context, claimID uint64) error
}

// TicketStore persists tickets and serves the customer-facing views.
type TicketStore interface {
    Create(ctx context.Context, t *model.Ticket) error
    // GetByIDForCustomer enforces ownership: tickets belonging to a
    // different customer surface as repository.ErrTicketNotFound.
    GetByIDForCustomer(ctx context.Context, id, customerID uint64) (*model.Ticket, error)
    // HasActive reports whether a non-cancelled ticket exists for the
    // seat.  Advisory only; the seat ledger's unique key is the
    // authoritative collision check.
    HasActive(ctx context.Context, showtimeID uint64, row, seat string) (bool, error)
    SetStatus(ctx context.Context, id uint64, status string) error
    ListByCustomer(ctx context.Context, customerID uint64) ([]model.TicketView, error)
    // Delete removes a ticket row.  Compensation only; completed
    // bookings are cancelled by status, never deleted.
    Delete(ctx context.Context, id uint64) error
}

// PaymentStore persists the 1:1 payment record for each ticket.
type PaymentStore interface {
    Create(ctx context.Context, p *model.Payment) error
    SetStatusByTicket(ctx context.Context, ticketID uint64, status string) error
    DeleteByTicket(ctx context.Context, ticketID uint64) error
}

// BookingStore persists the customer-facing booking summary rows.
type BookingStore interface {
    Create(ctx context.Context, b *model.Booking) error
    SetStatusByTicket(ctx context.Context, ticketID uint64, status, paymentStatus string) error
    DeleteByTicket(ctx context.Context, ticketID uint64) error
}
