package model

import "time"

// Customer represents an account that can book tickets.  Only the
// fields the booking core needs are modeled here; profile management
// beyond registration is out of scope.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name.
//  Phone        – contact phone number.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Customer struct {
    ID           uint64    // customers.id
    Email        string    // customers.email
    PasswordHash string    // customers.password_hash
    FullName     string    // customers.full_name
    Phone        string    // customers.phone
    CreatedAt    time.Time // customers.created_at
    UpdatedAt    time.Time // customers.updated_at
}
