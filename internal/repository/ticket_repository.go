package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/movie-ticket-platform/internal/model"
)

// TicketRepo persists tickets and serves customer-facing views.
type TicketRepo struct {
    db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// Create inserts a new ticket and fills in its generated ID.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
    const q = `INSERT INTO tickets
               (showtime_id, customer_id, seat_claim_id, row_label, seat_number, price_cents, status, purchased_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        t.ShowtimeID, t.CustomerID, t.SeatClaimID, t.RowLabel, t.SeatNumber,
        t.PriceCents, t.Status, t.PurchasedAt.UTC())
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// GetByIDForCustomer fetches a ticket only when it belongs to the
// given customer.  A ticket owned by someone else is indistinguishable
// from a missing one; both return ErrTicketNotFound.
func (r *TicketRepo) GetByIDForCustomer(ctx context.Context, id, customerID uint64) (*model.Ticket, error) {
    const q = `SELECT id, showtime_id, customer_id, seat_claim_id, row_label, seat_number,
                      price_cents, status, purchased_at, created_at, updated_at
               FROM tickets WHERE id = ? AND customer_id = ?`
    var t model.Ticket
    err := r.db.QueryRowContext(ctx, q, id, customerID).Scan(
        &t.ID, &t.ShowtimeID, &t.CustomerID, &t.SeatClaimID, &t.RowLabel, &t.SeatNumber,
        &t.PriceCents, &t.Status, &t.PurchasedAt, &t.CreatedAt, &t.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTicketNotFound
        }
        return nil, err
    }
    return &t, nil
}

// HasActive reports whether a non-cancelled ticket exists for the
// seat.  This is an advisory pre-check; the seat ledger's unique key
// remains the authoritative collision guard.
func (r *TicketRepo) HasActive(ctx context.Context, showtimeID uint64, row, seat string) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM tickets
                   WHERE showtime_id = ? AND row_label = ? AND seat_number = ? AND status <> 'cancelled')`
    var exists bool
    if err := r.db.QueryRowContext(ctx, q, showtimeID, row, seat).Scan(&exists); err != nil {
        return false, err
    }
    return exists, nil
}

// SetStatus updates a ticket's status.
func (r *TicketRepo) SetStatus(ctx context.Context, id uint64, status string) error {
    res, err := r.db.ExecContext(ctx, `UPDATE tickets SET status = ? WHERE id = ?`, status, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrTicketNotFound
    }
    return nil
}

// ListByCustomer returns the customer's tickets joined with showtime
// details, newest purchase first.
func (r *TicketRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.TicketView, error) {
    const q = `SELECT tk.id, s.movie_title, s.theater_id, s.starts_at, s.ends_at,
                      tk.row_label, tk.seat_number, tk.price_cents, tk.status, tk.purchased_at
               FROM tickets tk
               JOIN showtimes s ON s.id = tk.showtime_id
               WHERE tk.customer_id = ?
               ORDER BY tk.purchased_at DESC`
    rows, err := r.db.QueryContext(ctx, q, customerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []model.TicketView
    for rows.Next() {
        var v model.TicketView
        if err := rows.Scan(
            &v.TicketID, &v.MovieTitle, &v.TheaterID, &v.StartsAt, &v.EndsAt,
            &v.RowLabel, &v.SeatNumber, &v.PriceCents, &v.Status, &v.BookedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    return out, rows.Err()
}

// Delete removes a ticket row.  Only booking compensation calls this.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
    return err
}
