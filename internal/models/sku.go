package models

import "time"

// CountPointer selects which imported count field decides how many units a
// pick line needs. It lives on the SKU, so changing it affects every future
// pick line of that SKU but never already-created ones.
type CountPointer string

const (
	PointerCurrent  CountPointer = "current"
	PointerPar      CountPointer = "par"
	PointerNeed     CountPointer = "need"
	PointerForecast CountPointer = "forecast"
	PointerTotal    CountPointer = "total"
)

// ValidCountPointer reports whether p is a known pointer value.
func ValidCountPointer(p CountPointer) bool {
	switch p {
	case PointerCurrent, PointerPar, PointerNeed, PointerForecast, PointerTotal:
		return true
	}
	return false
}

type SKU struct {
	ID              int          `json:"id"`
	Code            string       `json:"code"`
	Name            string       `json:"name"`
	Type            string       `json:"type,omitempty"`
	Category        string       `json:"category,omitempty"`
	WeightGrams     *int         `json:"weight_grams,omitempty"`
	LabelColour     string       `json:"label_colour,omitempty"`
	IsFreshOrFrozen bool         `json:"is_fresh_or_frozen"`
	CountPointer    CountPointer `json:"count_pointer"`
	ExpiryDays      *int         `json:"expiry_days,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// CountSnapshot carries the nullable count fields of one imported coil-item
// row, as input to count pointer resolution.
type CountSnapshot struct {
	Current  *int `json:"current"`
	Par      *int `json:"par"`
	Need     *int `json:"need"`
	Forecast *int `json:"forecast"`
	Total    *int `json:"total"`
}

// Field returns the snapshot field named by the pointer.
func (s *CountSnapshot) Field(p CountPointer) *int {
	if s == nil {
		return nil
	}
	switch p {
	case PointerCurrent:
		return s.Current
	case PointerPar:
		return s.Par
	case PointerNeed:
		return s.Need
	case PointerForecast:
		return s.Forecast
	case PointerTotal:
		return s.Total
	}
	return nil
}

// UpdatePointerRequest is the body for changing a SKU's count pointer.
type UpdatePointerRequest struct {
	CountPointer CountPointer `json:"count_pointer"`
}
