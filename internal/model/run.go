package model

import "time"

// RunStatus is the lifecycle state of a comparison run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one comparison for the audit history. Line items themselves
// are never persisted; only the run metadata and the finished report are.
type Run struct {
	ID            string    `json:"id"`
	Vendor        string    `json:"vendor"`
	POSource      string    `json:"po_source"`
	OASource      string    `json:"oa_source"`
	Status        RunStatus `json:"status"`
	Rows          int       `json:"rows"`
	Discrepancies int       `json:"discrepancies"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
