// Package model defines domain entities for the application.
package model

import "time"

// User is a single row of the users table.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
