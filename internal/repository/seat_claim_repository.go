package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/movie-ticket-platform/internal/model"
)

// mysqlDupEntry is the MySQL error number for a unique-key violation.
const mysqlDupEntry = 1062

// SeatClaimRepo is the MySQL-backed seat ledger.  The seat_claims
// table carries a unique key on (showtime_id, row_label, seat_number);
// that constraint is the final backstop against double-booking even
// when the lock/version protocol is bypassed.  All timestamps are
// stored and compared in UTC.
type SeatClaimRepo struct {
    db *sql.DB
}

// NewSeatClaimRepo returns a SeatClaimRepo bound to the given database.
func NewSeatClaimRepo(db *sql.DB) *SeatClaimRepo { return &SeatClaimRepo{db: db} }

const claimColumns = `id, showtime_id, row_label, seat_number, status, customer_id, version, lock_expires_at, created_at, updated_at`

// scanClaim reads one seat_claims row into a model.SeatClaim.
func scanClaim(row *sql.Row) (*model.SeatClaim, error) {
    var c model.SeatClaim
    var customerID sql.NullInt64
    var lockExpires sql.NullTime
    err := row.Scan(&c.ID, &c.ShowtimeID, &c.RowLabel, &c.SeatNumber, &c.Status,
        &customerID, &c.Version, &lockExpires, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if customerID.Valid {
        id := uint64(customerID.Int64)
        c.CustomerID = &id
    }
    if lockExpires.Valid {
        t := lockExpires.Time.UTC()
        c.LockExpiresAt = &t
    }
    return &c, nil
}

// GetClaim returns the claim for one seat of one showtime.  When no
// claim row exists yet it returns ErrClaimNotFound.
func (r *SeatClaimRepo) GetClaim(ctx context.Context, showtimeID uint64, row, seat string) (*model.SeatClaim, error) {
    const q = `SELECT ` + claimColumns + ` FROM seat_claims WHERE showtime_id = ? AND row_label = ? AND seat_number = ?`
    c, err := scanClaim(r.db.QueryRowContext(ctx, q, showtimeID, row, seat))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrClaimNotFound
        }
        return nil, err
    }
    return c, nil
}

// getClaimByID fetches a claim by primary key.
func (r *SeatClaimRepo) getClaimByID(ctx context.Context, id uint64) (*model.SeatClaim, error) {
    const q = `SELECT ` + claimColumns + ` FROM seat_claims WHERE id = ?`
    c, err := scanClaim(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrClaimNotFound
        }
        return nil, err
    }
    return c, nil
}

// CreateBooked inserts a claim directly in BOOKED status.  Two
// concurrent inserts for the same seat race on the unique key; the
// loser gets a duplicate-entry error which is translated to
// ErrSeatAlreadyBooked so handlers can answer deterministically.
func (r *SeatClaimRepo) CreateBooked(ctx context.Context, showtimeID uint64, row, seat string, customerID uint64) (*model.SeatClaim, error) {
    const q = `INSERT INTO seat_claims (showtime_id, row_label, seat_number, status, customer_id, version)
               VALUES (?, ?, ?, 'BOOKED', ?, 1)`
    res, err := r.db.ExecContext(ctx, q, showtimeID, row, seat, customerID)
    if err != nil {
        if isDupEntry(err) {
            return nil, ErrSeatAlreadyBooked
        }
        return nil, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return nil, err
    }
    return r.getClaimByID(ctx, uint64(id))
}

// AcquireLock places a time-boxed RESERVED hold on the seat as one
// atomic conditional write.  The UPDATE succeeds only when the claim
// is AVAILABLE, already held by the caller, or carries an expired
// lock; a missing claim row is inserted instead.  BOOKED seats and
// live holds by other customers fail with the respective sentinel.
func (r *SeatClaimRepo) AcquireLock(ctx context.Context, showtimeID uint64, row, seat string, customerID uint64, ttl time.Duration) (*model.SeatClaim, error) {
    expiresAt := time.Now().UTC().Add(ttl)
    const upd = `UPDATE seat_claims
                 SET status = 'RESERVED', customer_id = ?, lock_expires_at = ?, version = version + 1
                 WHERE showtime_id = ? AND row_label = ? AND seat_number = ?
                   AND status <> 'BOOKED'
                   AND (status = 'AVAILABLE' OR customer_id = ? OR lock_expires_at IS NULL OR lock_expires_at <= UTC_TIMESTAMP())`
    res, err := r.db.ExecContext(ctx, upd, customerID, expiresAt, showtimeID, row, seat, customerID)
    if err != nil {
        return nil, err
    }
    if n, _ := res.RowsAffected(); n > 0 {
        return r.GetClaim(ctx, showtimeID, row, seat)
    }
    // No row updated: either the claim does not exist yet, or it is
    // BOOKED, or someone else holds a live lock.
    existing, err := r.GetClaim(ctx, showtimeID, row, seat)
    if errors.Is(err, ErrClaimNotFound) {
        const ins = `INSERT INTO seat_claims (showtime_id, row_label, seat_number, status, customer_id, version, lock_expires_at)
                     VALUES (?, ?, ?, 'RESERVED', ?, 1, ?)`
        insRes, insErr := r.db.ExecContext(ctx, ins, showtimeID, row, seat, customerID, expiresAt)
        if insErr != nil {
            if isDupEntry(insErr) {
                // lost the insert race to another customer
                return nil, ErrSeatLocked
            }
            return nil, insErr
        }
        id, idErr := insRes.LastInsertId()
        if idErr != nil {
            return nil, idErr
        }
        return r.getClaimByID(ctx, uint64(id))
    }
    if err != nil {
        return nil, err
    }
    if existing.Status == model.ClaimBooked {
        return nil, ErrSeatAlreadyBooked
    }
    return nil, ErrSeatLocked
}

// ReleaseLock clears a hold only when the caller owns it.  Releasing
// a hold that expired in the meantime is still permitted as long as
// no one else has taken the seat.
func (r *SeatClaimRepo) ReleaseLock(ctx context.Context, showtimeID uint64, row, seat string, customerID uint64) error {
    const q = `UPDATE seat_claims
               SET status = 'AVAILABLE', customer_id = NULL, lock_expires_at = NULL, version = version + 1
               WHERE showtime_id = ? AND row_label = ? AND seat_number = ?
                 AND status = 'RESERVED' AND customer_id = ?`
    res, err := r.db.ExecContext(ctx, q, showtimeID, row, seat, customerID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrLockNotHeld
    }
    return nil
}

// PromoteWithVersion moves a claim to BOOKED for the given customer
// only if the stored version still equals expectedVersion.  The
// version check makes the read-validate-write sequence in the booking
// service safe against interleaved writers.
func (r *SeatClaimRepo) PromoteWithVersion(ctx context.Context, claimID, customerID uint64, expectedVersion uint32) error {
    const q = `UPDATE seat_claims
               SET status = 'BOOKED', customer_id = ?, lock_expires_at = NULL, version = version + 1
               WHERE id = ? AND version = ? AND status <> 'BOOKED'`
    res, err := r.db.ExecContext(ctx, q, customerID, claimID, expectedVersion)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrStaleWrite
    }
    return nil
}

// Release returns a claim to AVAILABLE, clearing the owner and any
// lock expiry.  Used by cancellation and by booking compensation.
func (r *SeatClaimRepo) Release(ctx context.Context, claimID uint64) error {
    const q = `UPDATE seat_claims
               SET status = 'AVAILABLE', customer_id = NULL, lock_expires_at = NULL, version = version + 1
               WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q, claimID)
    return err
}

// Delete removes a claim row.  Only booking compensation uses this;
// settled claims are released by status instead so history stays
// consistent.
func (r *SeatClaimRepo) Delete(ctx context.Context, claimID uint64) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM seat_claims WHERE id = ?`, claimID)
    return err
}

// isDupEntry reports whether err is a MySQL duplicate-key violation.
func isDupEntry(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == mysqlDupEntry
}
