package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/movie-ticket-platform/internal/model"
    "github.com/iliyamo/movie-ticket-platform/internal/utils"
)

// CustomerRepo mirrors the 'customers' table.
type CustomerRepo struct{ DB *sql.DB }

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

// Create hashes the password, inserts the customer and returns its ID.
// Emails are normalized to lowercase; the unique key on customers.email
// turns a duplicate registration into ErrEmailExists.
func (r *CustomerRepo) Create(ctx context.Context, email, password, fullName, phone string, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO customers (email, password_hash, full_name, phone) VALUES (?,?,?,?)",
        email, hash, fullName, phone)
    if err != nil {
        if isDupEntry(err) {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a customer by normalized email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    var c model.Customer
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,email,password_hash,full_name,phone,created_at,updated_at FROM customers WHERE email=? LIMIT 1",
        email).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.FullName, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
    return c, err
}

// GetByID fetches a customer by id.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
    var c model.Customer
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,email,password_hash,full_name,phone,created_at,updated_at FROM customers WHERE id=? LIMIT 1",
        id).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.FullName, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
    return c, err
}
