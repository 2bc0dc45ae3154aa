package service

import "time"

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// TaskInput is a full task record as supplied by a client. Update replaces
// every field, so the same input is used for create and update.
type TaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    string
	Status      string
	AssignedTo  string
	CreatedBy   string
}
