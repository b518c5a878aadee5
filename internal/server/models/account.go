// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a tenant of the service. The password is held only as a salted
// one-way hash; the struct itself is never serialized — responses go through
// Public().
type Account struct {
	ID           string
	Name         string
	Email        string
	Age          int64
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicAccount is the externally visible projection of an Account.
// It is the only account shape that may cross the service boundary, so a
// future sensitive field on Account stays invisible unless added here too.
type PublicAccount struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int64     `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns the boundary-safe view of the account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Age:       a.Age,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
