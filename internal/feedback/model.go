// Package feedback captures free-form user feedback, optionally tied to a
// generated resume.
package feedback

import "time"

type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	FileID    string    `json:"fileId,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
