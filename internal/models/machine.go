package models

import "time"

// MachineType is a lookup row, created on first sight of a type name.
type MachineType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Machine is a vending machine, unique by (company, code).
type Machine struct {
	ID              int       `json:"id"`
	CompanyID       int       `json:"company_id"`
	Code            string    `json:"code"`
	Description     string    `json:"description"`
	MachineTypeID   *int      `json:"machine_type_id,omitempty"`
	MachineTypeName string    `json:"machine_type_name,omitempty"` // denormalized for display
	LocationID      *int      `json:"location_id,omitempty"`
	LocationName    string    `json:"location_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Coil is a single dispensing lane, unique by (machine, code).
type Coil struct {
	ID        int       `json:"id"`
	MachineID int       `json:"machine_id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CoilItem assigns one SKU to one coil with a target par level. This is the
// unit a pick entry ultimately points at.
type CoilItem struct {
	ID        int       `json:"id"`
	CoilID    int       `json:"coil_id"`
	SKUID     int       `json:"sku_id"`
	Par       int       `json:"par"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
