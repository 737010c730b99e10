package models

import "time"

// User represents a teacher account in the system
type User struct {
	ID            string    `json:"id"`
	PhoneNumber   string    `json:"phone_number"`
	EmailAddress  string    `json:"email_adress"` // legacy wire name, kept for client compatibility
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	OAuthProvider string    `json:"-"`
	OAuthSubject  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
