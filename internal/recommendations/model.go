// Package recommendations implements study material suggestions a tutor
// leaves for a student. Like every owned resource, recommendations are
// visible only to their assignee.
package recommendations

import (
	"time"
)

// Recommendation points the student at external study material.
type Recommendation struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	URL        string    `json:"url"`
	AssigneeID string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateRequest holds the fields accepted when creating a recommendation.
type CreateRequest struct {
	Title string `json:"title" form:"title"`
	Body  string `json:"body" form:"body"`
	URL   string `json:"url" form:"url"`
}

// UpdateRequest holds the fields accepted when replacing a recommendation.
type UpdateRequest struct {
	Title string `json:"title" form:"title"`
	Body  string `json:"body" form:"body"`
	URL   string `json:"url" form:"url"`
}
