package models

import "time"

// Task is a unit of work owned by exactly one account. Every query touching
// tasks is filtered by OwnerID; a task belonging to someone else is
// indistinguishable from a missing one.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
