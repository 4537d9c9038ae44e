package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/movie-ticket-platform/internal/model"
)

// ShowtimeRepo provides read access to showtimes plus the guarded
// availability-counter mutation used by booking and cancellation.
type ShowtimeRepo struct {
    db *sql.DB
}

// NewShowtimeRepo returns a ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

const showtimeColumns = `s.id, s.movie_title, s.theater_id, s.starts_at, s.ends_at, s.price_cents,
        t.capacity, s.available_seats, s.created_at, s.updated_at`

// GetByID returns one showtime with the owning theater's capacity
// joined in, or ErrShowtimeNotFound.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
    const q = `SELECT ` + showtimeColumns + `
               FROM showtimes s
               JOIN theaters t ON t.id = s.theater_id
               WHERE s.id = ?`
    var st model.Showtime
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &st.ID, &st.MovieTitle, &st.TheaterID, &st.StartsAt, &st.EndsAt,
        &st.PriceCents, &st.TheaterCapacity, &st.AvailableSeats,
        &st.CreatedAt, &st.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrShowtimeNotFound
        }
        return nil, err
    }
    return &st, nil
}

// ListUpcoming returns showtimes that have not started yet, soonest
// first, for the public browse endpoint.
func (r *ShowtimeRepo) ListUpcoming(ctx context.Context) ([]model.Showtime, error) {
    const q = `SELECT ` + showtimeColumns + `
               FROM showtimes s
               JOIN theaters t ON t.id = s.theater_id
               WHERE s.starts_at > UTC_TIMESTAMP()
               ORDER BY s.starts_at ASC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []model.Showtime
    for rows.Next() {
        var st model.Showtime
        if err := rows.Scan(
            &st.ID, &st.MovieTitle, &st.TheaterID, &st.StartsAt, &st.EndsAt,
            &st.PriceCents, &st.TheaterCapacity, &st.AvailableSeats,
            &st.CreatedAt, &st.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, st)
    }
    return out, rows.Err()
}

// AdjustAvailableSeats applies delta to the availability counter in a
// single guarded UPDATE.  The WHERE clause refuses any adjustment that
// would leave the counter below zero or above the theater capacity,
// so the invariant holds even under concurrent bookings; zero rows
// affected means the guard fired and ErrCounterOutOfRange is returned.
func (r *ShowtimeRepo) AdjustAvailableSeats(ctx context.Context, id uint64, delta int) error {
    const q = `UPDATE showtimes s
               JOIN theaters t ON t.id = s.theater_id
               SET s.available_seats = s.available_seats + ?
               WHERE s.id = ?
                 AND s.available_seats + ? >= 0
                 AND s.available_seats + ? <= t.capacity`
    res, err := r.db.ExecContext(ctx, q, delta, id, delta, delta)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrCounterOutOfRange
    }
    return nil
}

// BookedSeatLabels returns the "A12"-style labels of all seats
// currently claimed as BOOKED for a showtime.  The detail endpoint
// ships this list so clients can grey out taken seats.
func (r *ShowtimeRepo) BookedSeatLabels(ctx context.Context, showtimeID uint64) ([]string, error) {
    const q = `SELECT CONCAT(row_label, seat_number)
               FROM seat_claims
               WHERE showtime_id = ? AND status = 'BOOKED'
               ORDER BY row_label, seat_number`
    rows, err := r.db.QueryContext(ctx, q, showtimeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var labels []string
    for rows.Next() {
        var l string
        if err := rows.Scan(&l); err != nil {
            return nil, err
        }
        labels = append(labels, l)
    }
    return labels, rows.Err()
}
