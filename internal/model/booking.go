package model

import "time"

// Booking statuses mirror the ticket lifecycle; PaymentStatus tracks
// the settlement state as seen by the customer.
const (
    BookingConfirmed = "confirmed"
    BookingCancelled = "cancelled"

    BookingPaid     = "paid"
    BookingRefunded = "refunded"
)

// Booking is the customer-facing summary row created alongside a
// ticket and its payment.  It exists so booking history can be served
// from one place instead of stitching tickets and payments together.
//
// Fields:
//  ID               – primary key identifier.
//  CustomerID       – customer who booked.
//  ShowtimeID       – showtime booked.
//  SeatLabel        – human-readable seat label ("A12").
//  TotalAmountCents – total charged in cents.
//  Status           – confirmed or cancelled.
//  PaymentStatus    – paid or refunded.
//  TicketID         – the ticket issued for this booking.
//  PaymentID        – the payment settling this booking.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Booking struct {
    ID               uint64    // bookings.id
    CustomerID       uint64    // bookings.customer_id
    ShowtimeID       uint64    // bookings.showtime_id
    SeatLabel        string    // bookings.seat_label
    TotalAmountCents uint32    // bookings.total_amount_cents
    Status           string    // bookings.status
    PaymentStatus    string    // bookings.payment_status
    TicketID         uint64    // bookings.ticket_id
    PaymentID        uint64    // bookings.payment_id
    CreatedAt        time.Time // bookings.created_at
    UpdatedAt        time.Time // bookings.updated_at
}
