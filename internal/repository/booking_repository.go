package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/movie-ticket-platform/internal/model"
)

// BookingRepo persists the customer-facing booking summary rows.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a booking summary and fills in its generated ID.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings
               (customer_id, showtime_id, seat_label, total_amount_cents, status, payment_status, ticket_id, payment_id)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        b.CustomerID, b.ShowtimeID, b.SeatLabel, b.TotalAmountCents,
        b.Status, b.PaymentStatus, b.TicketID, b.PaymentID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

// SetStatusByTicket updates both lifecycle fields of the booking that
// wraps the given ticket.
func (r *BookingRepo) SetStatusByTicket(ctx context.Context, ticketID uint64, status, paymentStatus string) error {
    const q = `UPDATE bookings SET status = ?, payment_status = ? WHERE ticket_id = ?`
    _, err := r.db.ExecContext(ctx, q, status, paymentStatus, ticketID)
    return err
}

// DeleteByTicket removes the booking for a ticket.  Compensation only.
func (r *BookingRepo) DeleteByTicket(ctx context.Context, ticketID uint64) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE ticket_id = ?`, ticketID)
    return err
}
