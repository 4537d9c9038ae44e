package model

import "time"

// Payment methods accepted at the box office or online.
const (
    PaymentCash   = "CASH"
    PaymentCard   = "CARD"
    PaymentOnline = "ONLINE"
)

// Payment statuses.  REFUNDED is set by the cancellation flow.  No
// external gateway is integrated; payment capture is recorded as
// already COMPLETED at booking time.
const (
    PaymentPending   = "PENDING"
    PaymentCompleted = "COMPLETED"
    PaymentFailed    = "FAILED"
    PaymentRefunded  = "REFUNDED"
)

// Payment is the financial record tied 1:1 to a ticket.  The amount
// always equals the showtime's price at booking time.
//
// Fields:
//  ID          – primary key identifier.
//  TicketID    – the ticket this payment settles.
//  AmountCents – amount charged in cents.
//  Method      – CASH, CARD or ONLINE.
//  Status      – PENDING, COMPLETED, FAILED or REFUNDED.
//  PaidAt      – payment timestamp.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Payment struct {
    ID          uint64    // payments.id
    TicketID    uint64    // payments.ticket_id
    AmountCents uint32    // payments.amount_cents
    Method      string    // payments.method
    Status      string    // payments.status
    PaidAt      time.Time // payments.paid_at
    CreatedAt   time.Time // payments.created_at
    UpdatedAt   time.Time // payments.updated_at
}
