// Package comments implements free-form notes a user can attach to a
// task or lesson, or leave standalone. Comments are visible only to
// their assignee.
package comments

import (
	"time"
)

// Comment is a short note, optionally anchored to a task or a lesson.
type Comment struct {
	ID         string    `json:"id"`
	Body       string    `json:"body"`
	TaskID     *string   `json:"task_id,omitempty"`
	LessonID   *string   `json:"lesson_id,omitempty"`
	AssigneeID string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateRequest holds the fields accepted when creating a comment.
type CreateRequest struct {
	Body     string  `json:"body" form:"body"`
	TaskID   *string `json:"task_id" form:"task_id"`
	LessonID *string `json:"lesson_id" form:"lesson_id"`
}

// UpdateRequest holds the fields accepted when replacing a comment.
// The anchor cannot be changed after creation.
type UpdateRequest struct {
	Body string `json:"body" form:"body"`
}
