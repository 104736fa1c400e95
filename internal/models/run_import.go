package models

import "time"

// RunImport is the append-only header of one uploaded spreadsheet. Snapshot
// rows are never mutated after creation; they exist for reconciliation input
// and audit.
type RunImport struct {
	ID        int       `json:"id"`
	BatchID   string    `json:"batch_id"` // uuid
	CompanyID int       `json:"company_id"`
	RunID     *int      `json:"run_id,omitempty"`
	FileName  string    `json:"file_name,omitempty"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

// RunImportMachine is one reported machine within an import.
type RunImportMachine struct {
	ID                 int    `json:"id"`
	RunImportID        int    `json:"run_import_id"`
	LocationName       string `json:"location_name,omitempty"`
	MachineCode        string `json:"machine_code"`
	MachineDescription string `json:"machine_description,omitempty"`
	MachineTypeName    string `json:"machine_type_name,omitempty"`
}

// RunImportCoilItem is one reported coil-item row within an import.
type RunImportCoilItem struct {
	ID                 int    `json:"id"`
	RunImportID        int    `json:"run_import_id"`
	RunImportMachineID *int   `json:"run_import_machine_id,omitempty"`
	CoilCode           string `json:"coil_code"`
	SKUCode            string `json:"sku_code"`
	SKUName            string `json:"sku_name,omitempty"`
	SKUCategory        string `json:"sku_category,omitempty"`
	Par                *int   `json:"par"`
	Current            *int   `json:"current"`
	Need               *int   `json:"need"`
	Forecast           *int   `json:"forecast"`
	Total              *int   `json:"total"`
	Short              *int   `json:"short"`
	Spoil              *int   `json:"spoil"`
	InventoryCount     *int   `json:"inventory_count"`
}

// Snapshot returns the row's count fields as pointer-resolution input.
func (r *RunImportCoilItem) Snapshot() CountSnapshot {
	return CountSnapshot{
		Current:  r.Current,
		Par:      r.Par,
		Need:     r.Need,
		Forecast: r.Forecast,
		Total:    r.Total,
	}
}

// ImportRow is the loosely-structured row shape produced by spreadsheet
// parsing (or posted directly as JSON).
type ImportRow struct {
	LocationName       string `json:"location_name"`
	MachineCode        string `json:"machine_code"`
	MachineDescription string `json:"machine_description"`
	MachineTypeName    string `json:"machine_type_name"`
	CoilCode           string `json:"coil_code"`
	SKUCode            string `json:"sku_code"`
	SKUName            string `json:"sku_name"`
	SKUCategory        string `json:"sku_category"`
	Par                *int   `json:"par"`
	Current            *int   `json:"current"`
	Need               *int   `json:"need"`
	Forecast           *int   `json:"forecast"`
	Total              *int   `json:"total"`
	Short              *int   `json:"short"`
	Spoil              *int   `json:"spoil"`
	InventoryCount     *int   `json:"inventory_count"`
}

// Snapshot returns the row's count fields as pointer-resolution input.
func (r *ImportRow) Snapshot() CountSnapshot {
	return CountSnapshot{
		Current:  r.Current,
		Par:      r.Par,
		Need:     r.Need,
		Forecast: r.Forecast,
		Total:    r.Total,
	}
}

// ResolvedRow is the outcome of reconciling one import row into canonical
// entities. Coil/CoilItem/SKU are nil for machine-only rows (no coil code).
type ResolvedRow struct {
	Row      int           `json:"row"`
	Location *Location     `json:"location,omitempty"`
	Machine  *Machine      `json:"machine"`
	Coil     *Coil         `json:"coil,omitempty"`
	CoilItem *CoilItem     `json:"coil_item,omitempty"`
	SKU      *SKU          `json:"sku,omitempty"`
	Created  bool          `json:"created"` // any entity newly created for this row
	Counts   CountSnapshot `json:"counts"`
}

// ReconcileRequest is the body for POST /api/imports/reconcile.
type ReconcileRequest struct {
	RunID *int        `json:"run_id,omitempty"`
	Rows  []ImportRow `json:"rows"`
}

// ReconcileResult returns partial successes alongside collected row errors.
type ReconcileResult struct {
	BatchID  string         `json:"batch_id"`
	Resolved []*ResolvedRow `json:"resolved"`
	Failures []*RowError    `json:"failures"`
}
