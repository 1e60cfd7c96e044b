// Package tasks implements the homework task resource. Every task belongs
// to exactly one user (its assignee); all reads and writes are scoped to
// the authenticated caller, including fetches by id.
package tasks

import (
	"time"
)

// Task is a homework assignment. IDs are ULIDs so tasks sort by creation
// time lexicographically.
type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Priority   int16      `json:"priority"`
	Completed  bool       `json:"completed"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	FileID     *string    `json:"file_id,omitempty"`
	AssigneeID string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CreateRequest holds the fields accepted when creating a task.
type CreateRequest struct {
	Title    string     `json:"title" form:"title"`
	Content  string     `json:"content" form:"content"`
	Priority int16      `json:"priority" form:"priority"`
	DueDate  *time.Time `json:"due_date" form:"due_date"`
	FileID   *string    `json:"file_id" form:"file_id"`
}

// UpdateRequest holds the fields accepted when replacing a task (PUT).
type UpdateRequest struct {
	Title    string     `json:"title" form:"title"`
	Content  string     `json:"content" form:"content"`
	Priority int16      `json:"priority" form:"priority"`
	DueDate  *time.Time `json:"due_date" form:"due_date"`
	FileID   *string    `json:"file_id" form:"file_id"`
}

// PatchRequest holds the partial update (PATCH). Only the completed flag
// is toggled this way today.
type PatchRequest struct {
	Completed *bool `json:"completed" form:"completed"`
}
