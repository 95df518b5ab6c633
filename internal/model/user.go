package model

import "time"

// User represents a row in the `users` table. Accounts are created either
// through email/password registration or on first successful phone
// verification, so exactly one of Email/Phone may be empty.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name ("Passenger" for phone-created accounts).
//  Email        – unique email address; empty for phone-only accounts.
//  Phone        – unique phone number; empty for email accounts.
//  PasswordHash – bcrypt hashed password; empty for phone-only accounts.
//  Role         – "passenger" or "admin".
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
