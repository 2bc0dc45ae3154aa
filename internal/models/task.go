package models

import "time"

// StatusDone is the only task status the server interprets.
const StatusDone = "done"

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a stored task record. AssignedTo is a username, not a user id.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Priority    string    `json:"priority"` // low | medium | high
	Status      string    `json:"status"`
	AssignedTo  string    `json:"assignedTo"`
	CreatedBy   string    `json:"createdBy"` // user id
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsOverdue reports whether the task is past due at now and not done.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != StatusDone
}

// TaskView is a task as returned by the API, with its creator expanded.
type TaskView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     time.Time    `json:"dueDate"`
	Priority    string       `json:"priority"`
	Status      string       `json:"status"`
	AssignedTo  string       `json:"assignedTo"`
	CreatedBy   *UserSummary `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// View expands t with its creator. A nil creator (deleted or missing user) serializes as null.
func (t Task) View(creator *UserSummary) TaskView {
	return TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   creator,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Dashboard groups the tasks relevant to a single user.
type Dashboard struct {
	AssignedTasks []TaskView `json:"assignedTasks"`
	CreatedTasks  []TaskView `json:"createdTasks"`
	OverdueTasks  []TaskView `json:"overdueTasks"`
}
