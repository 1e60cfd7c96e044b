// Package lessons implements the lesson notes resource. Like every owned
// resource, lessons are visible only to their assignee.
package lessons

import (
	"time"
)

// Lesson is a record of a tutoring session.
type Lesson struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Category   string     `json:"category"`
	Topic      string     `json:"topic"`
	Bookmarked bool       `json:"bookmarked"`
	ManualDate *time.Time `json:"manual_date,omitempty"`
	AssigneeID string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CreateRequest holds the fields accepted when creating a lesson.
type CreateRequest struct {
	Title      string     `json:"title" form:"title"`
	Content    string     `json:"content" form:"content"`
	Category   string     `json:"category" form:"category"`
	Topic      string     `json:"topic" form:"topic"`
	ManualDate *time.Time `json:"manual_date" form:"manual_date"`
}

// UpdateRequest holds the fields accepted when replacing a lesson.
type UpdateRequest struct {
	Title      string     `json:"title" form:"title"`
	Content    string     `json:"content" form:"content"`
	Category   string     `json:"category" form:"category"`
	Topic      string     `json:"topic" form:"topic"`
	ManualDate *time.Time `json:"manual_date" form:"manual_date"`
}

// PatchRequest toggles the bookmark flag.
type PatchRequest struct {
	Bookmarked *bool `json:"bookmarked" form:"bookmarked"`
}
