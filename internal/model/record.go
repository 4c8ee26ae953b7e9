package model

import "time"

// AccountRecord is one historical entry of the account directory: every
// custom identity ever created through this client. Records are read-only
// snapshots for the admin view; they are never updated, only appended.
type AccountRecord struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Secret    string    `json:"secret" db:"secret"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
