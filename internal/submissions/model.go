// Package submissions runs the resume tailoring pipeline: resolve candidate
// data, generate markup, assemble the document, render it to PDF, and keep a
// record of the attempt.
package submissions

import "time"

// Pipeline states. A submission moves forward through these in order and
// never backward; FAILED is terminal from any earlier state.
const (
	StatusReceived     = "RECEIVED"
	StatusDataResolved = "DATA_RESOLVED"
	StatusGenerated    = "GENERATED"
	StatusAssembled    = "ASSEMBLED"
	StatusRendered     = "RENDERED"
	StatusFailed       = "FAILED"
)

// Submission records one pipeline run.
type Submission struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	FileID      string     `json:"fileId,omitempty"`
	StorageKey  string     `json:"-"`
	Status      string     `json:"status"`
	FailureCode string     `json:"failureCode,omitempty"`
	JobChars    int        `json:"jobChars"`
	CandChars   int        `json:"candidateChars"`
	HadUpload   bool       `json:"hadUpload"`
	HadPhoto    bool       `json:"hadPhoto"`
	SizeBytes   int64      `json:"sizeBytes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
