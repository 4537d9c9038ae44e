package model

import "time"

// Ticket statuses.  Values are lowercase to match the public API
// responses.  Cancellation is modeled as a status transition; ticket
// rows are only ever physically deleted when compensating a booking
// that never completed.
const (
    TicketPending   = "pending"
    TicketConfirmed = "confirmed"
    TicketCancelled = "cancelled"
)

// Ticket records a customer's purchased right to occupy one seat at
// one showtime.  A ticket in status confirmed always corresponds to
// exactly one BOOKED seat claim; cancelling the ticket releases the
// claim back to AVAILABLE.
//
// Fields:
//  ID          – primary key identifier.
//  ShowtimeID  – showtime the ticket is for.
//  CustomerID  – purchasing customer.
//  SeatClaimID – the seat claim backing this ticket.
//  RowLabel    – seat row, denormalized for lookups and views.
//  SeatNumber  – seat number, denormalized for lookups and views.
//  PriceCents  – price charged at booking time.
//  Status      – pending, confirmed or cancelled.
//  PurchasedAt – when the ticket was bought.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Ticket struct {
    ID          uint64    // tickets.id
    ShowtimeID  uint64    // tickets.showtime_id
    CustomerID  uint64    // tickets.customer_id
    SeatClaimID uint64    // tickets.seat_claim_id
    RowLabel    string    // tickets.row_label
    SeatNumber  string    // tickets.seat_number
    PriceCents  uint32    // tickets.price_cents
    Status      string    // tickets.status
    PurchasedAt time.Time // tickets.purchased_at
    CreatedAt   time.Time // tickets.created_at
    UpdatedAt   time.Time // tickets.updated_at
}

// TicketView is the composite returned by ticket listing endpoints.
// It joins showtime details onto the ticket so clients can render a
// booking history without extra round trips.
type TicketView struct {
    TicketID   uint64    `json:"ticket_id"`
    MovieTitle string    `json:"movie_title"`
    TheaterID  uint64    `json:"theater_id"`
    StartsAt   time.Time `json:"starts_at"`
    EndsAt     time.Time `json:"ends_at"`
    RowLabel   string    `json:"row"`
    SeatNumber string    `json:"seat_number"`
    PriceCents uint32    `json:"price_cents"`
    Status     string    `json:"status"`
    BookedAt   time.Time `json:"booked_at"`
}
