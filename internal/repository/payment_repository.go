package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/movie-ticket-platform/internal/model"
)

// PaymentRepo persists the 1:1 payment record for each ticket.
type PaymentRepo struct {
    db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts a payment and fills in its generated ID.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
    const q = `INSERT INTO payments (ticket_id, amount_cents, method, status, paid_at)
               VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, p.TicketID, p.AmountCents, p.Method, p.Status, p.PaidAt.UTC())
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

// SetStatusByTicket updates the payment status for a ticket.  The
// cancellation flow uses this to mark payments REFUNDED.
func (r *PaymentRepo) SetStatusByTicket(ctx context.Context, ticketID uint64, status string) error {
    _, err := r.db.ExecContext(ctx, `UPDATE payments SET status = ? WHERE ticket_id = ?`, status, ticketID)
    return err
}

// DeleteByTicket removes the payment for a ticket.  Compensation only.
func (r *PaymentRepo) DeleteByTicket(ctx context.Context, ticketID uint64) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE ticket_id = ?`, ticketID)
    return err
}
