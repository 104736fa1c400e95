package models

import "time"

type Location struct {
	ID             int       `json:"id"`
	CompanyID      int       `json:"company_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	OpeningMinutes int       `json:"opening_minutes"` // minutes after midnight
	ClosingMinutes int       `json:"closing_minutes"`
	DwellMinutes   int       `json:"dwell_minutes"` // expected on-site service time
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
