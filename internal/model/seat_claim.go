package model

import "time"

// Seat claim statuses.  A claim moves AVAILABLE→RESERVED when a
// customer holds the seat during checkout, RESERVED→BOOKED when the
// ticket is issued, and back to AVAILABLE on release, lock expiry or
// cancellation.
const (
    ClaimAvailable = "AVAILABLE"
    ClaimReserved  = "RESERVED"
    ClaimBooked    = "BOOKED"
)

// SeatClaim is the exclusive-ownership record binding one seat to one
// showtime.  The (showtime_id, row_label, seat_number) triple is a
// unique key at the storage layer; that structural constraint, not the
// application-level checks, is the final guarantee against
// double-booking.  Version supports optimistic concurrency on
// in-place transitions (RESERVED→BOOKED), and LockExpiresAt bounds the
// lifetime of a pessimistic hold.  Expiry is evaluated lazily at
// acquisition time; there is no background sweeper.
//
// Fields:
//  ID            – primary key identifier.
//  ShowtimeID    – showtime the seat belongs to.
//  RowLabel      – seat row (free-form string, e.g. "A").
//  SeatNumber    – seat number within the row (free-form string).
//  Status        – AVAILABLE, RESERVED or BOOKED.
//  CustomerID    – customer currently holding or owning the seat
//                  (nullable while AVAILABLE).
//  Version       – monotonically increasing optimistic-lock counter.
//  LockExpiresAt – when a RESERVED hold lapses (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type SeatClaim struct {
    ID            uint64     // seat_claims.id
    ShowtimeID    uint64     // seat_claims.showtime_id
    RowLabel      string     // seat_claims.row_label
    SeatNumber    string     // seat_claims.seat_number
    Status        string     // seat_claims.status
    CustomerID    *uint64    // seat_claims.customer_id (nullable)
    Version       uint32     // seat_claims.version
    LockExpiresAt *time.Time // seat_claims.lock_expires_at (nullable)
    CreatedAt     time.Time  // seat_claims.created_at
    UpdatedAt     time.Time  // seat_claims.updated_at
}

// HeldBy reports whether the claim is an unexpired RESERVED hold owned
// by the given customer at the given instant.
func (c *SeatClaim) HeldBy(customerID uint64, now time.Time) bool {
    if c.Status != ClaimReserved || c.CustomerID == nil || *c.CustomerID != customerID {
        return false
    }
    return c.LockExpiresAt != nil && c.LockExpiresAt.After(now)
}

// LockExpired reports whether a RESERVED hold has lapsed.  Claims
// without an expiry timestamp are treated as expired so they can be
// reclaimed rather than starving the seat forever.
func (c *SeatClaim) LockExpired(now time.Time) bool {
    if c.Status != ClaimReserved {
        return false
    }
    return c.LockExpiresAt == nil || !c.LockExpiresAt.After(now)
}
