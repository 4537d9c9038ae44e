// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketBookedEvent is published after a booking completes.  It carries
// enough information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type TicketBookedEvent struct {
    TicketID       uint64 `json:"ticket_id"`
    BookingID      uint64 `json:"booking_id"`
    CustomerID     uint64 `json:"customer_id"`
    ShowtimeID     uint64 `json:"showtime_id"`
    MovieTitle     string `json:"movie_title"`
    SeatLabel      string `json:"seat"`
    PriceCents     uint32 `json:"price_cents"`
    AvailableSeats uint32 `json:"available_seats"`
    BookedAt       string `json:"booked_at"`
}

// TicketCancelledEvent is published after a booking is cancelled and the
// seat has been released back to the pool.
type TicketCancelledEvent struct {
    TicketID    uint64 `json:"ticket_id"`
    CustomerID  uint64 `json:"customer_id"`
    ShowtimeID  uint64 `json:"showtime_id"`
    MovieTitle  string `json:"movie_title"`
    SeatLabel   string `json:"seat"`
    RefundCents uint32 `json:"refund_cents"`
    CancelledAt string `json:"cancelled_at"`
}
