// Package profiles stores each account's reusable candidate profile: the raw
// resume text submissions fall back to when no document is uploaded.
package profiles

import "time"

type Profile struct {
	UserID         string    `json:"-"`
	ResumeText     string    `json:"resumeText"`
	SourceFileName string    `json:"sourceFileName,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
