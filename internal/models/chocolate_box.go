package models

import "time"

// ChocolateBox is an ancillary per-run numbered box tied to a machine. Box
// contents are counted by hand; the count pointer engine never touches them.
type ChocolateBox struct {
	ID        int       `json:"id"`
	RunID     int       `json:"run_id"`
	Number    int       `json:"number"` // unique within the run
	MachineID int       `json:"machine_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBoxRequest is the body for adding a box to a run.
type CreateBoxRequest struct {
	Number    int `json:"number"`
	MachineID int `json:"machine_id"`
}
