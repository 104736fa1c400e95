package models

import "time"

type Run struct {
	ID               int        `json:"id"`
	CompanyID        int        `json:"company_id"`
	Name             string     `json:"name,omitempty"`
	PickerUserID     *int       `json:"picker_user_id,omitempty"`
	RunnerUserID     *int       `json:"runner_user_id,omitempty"`
	Status           RunStatus  `json:"status"`
	ScheduledFor     *time.Time `json:"scheduled_for,omitempty"`
	PickingStartedAt *time.Time `json:"picking_started_at,omitempty"`
	PickingEndedAt   *time.Time `json:"picking_ended_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateRunRequest is the body for creating a run in DRAFT.
type CreateRunRequest struct {
	Name         string `json:"name"`
	PickerUserID *int   `json:"picker_user_id,omitempty"`
	RunnerUserID *int   `json:"runner_user_id,omitempty"`
}

// ScheduleRunRequest moves a READY run to SCHEDULED.
type ScheduleRunRequest struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// RunSnapshot is the full picture of a run returned after pick mutations, so
// devices always render from a fresh read rather than a stale local count.
type RunSnapshot struct {
	Run     *Run         `json:"run"`
	Entries []*PickEntry `json:"entries"`
	Pending int          `json:"pending"`
	Picked  int          `json:"picked"`
	Skipped int          `json:"skipped"`
}
