package models

import "time"

// PickEntry is one line item instructing how many units of a coil-item's SKU
// to bring on a run. Count is resolved once at generation time and frozen;
// later pointer changes on the SKU never rewrite it.
type PickEntry struct {
	ID            int              `json:"id"`
	RunID         int              `json:"run_id"`
	CoilItemID    int              `json:"coil_item_id"`
	Count         int              `json:"count"`
	OverrideCount *int             `json:"override_count,omitempty"`
	Status        PickStatus       `json:"status"`
	PickedAt      *time.Time       `json:"picked_at,omitempty"`
	Expiries      []ExpiryOverride `json:"expiries,omitempty"`

	// Denormalized read-side fields for pick lists and sheets.
	SKUID        int    `json:"sku_id"`
	SKUCode      string `json:"sku_code,omitempty"`
	SKUName      string `json:"sku_name,omitempty"`
	CoilCode     string `json:"coil_code,omitempty"`
	MachineCode  string `json:"machine_code,omitempty"`
	LocationName string `json:"location_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveCount is what pickers see: the manual override when set, otherwise
// the count frozen at generation.
func (p *PickEntry) EffectiveCount() int {
	if p.OverrideCount != nil {
		return *p.OverrideCount
	}
	return p.Count
}

// ExpiryOverride splits part of a pick line's quantity onto a specific expiry
// date. Quantities across a line's overrides never exceed its count.
type ExpiryOverride struct {
	ID          int       `json:"id,omitempty"`
	PickEntryID int       `json:"pick_entry_id,omitempty"`
	ExpiryDate  time.Time `json:"expiry_date"`
	Quantity    int       `json:"quantity"`
}

// SetPickStatusRequest toggles a set of entries within one run.
type SetPickStatusRequest struct {
	PickIDs []int      `json:"pick_ids"`
	Status  PickStatus `json:"status"`
}

// ResetPicksRequest forces a set of entries back to PENDING.
type ResetPicksRequest struct {
	PickIDs []int `json:"pick_ids"`
}

// SetOverrideRequest sets or clears (null) the manual override count.
type SetOverrideRequest struct {
	OverrideCount *int `json:"override_count"`
}

// SetExpiriesRequest replaces the expiry override rows of a pick entry.
type SetExpiriesRequest struct {
	Expiries []ExpiryOverride `json:"expiries"`
}

// SubstituteSKURequest swaps the SKU behind a pick entry.
type SubstituteSKURequest struct {
	NewSKUID int `json:"new_sku_id"`
}
