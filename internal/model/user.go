package model

import "time"

// User represents an application user record as stored in the
// `users` table.  Users exist only so that "my bookings" can be
// resolved from a login: bookings reference the user by username
// through the PIC field rather than a foreign key, matching the
// behavior of the web client which submits the logged-in username
// as the person in charge.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name, also used as booking PIC.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
