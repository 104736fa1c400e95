package services

import "route-backend/internal/models"

// countFallbackOrder is tried when the SKU's preferred field is null on the
// imported row. Total first since it is the most complete figure a machine
// reports, forecast last since it is the most speculative.
var countFallbackOrder = []models.CountPointer{
	models.PointerTotal,
	models.PointerNeed,
	models.PointerPar,
	models.PointerCurrent,
	models.PointerForecast,
}

// ResolveCount turns an imported count snapshot into the pick quantity for
// one line. The SKU's pointer field wins when present; otherwise the fallback
// chain is walked, and when every field is null the coil item's par is used.
// The result is never negative.
func ResolveCount(pointer models.CountPointer, snapshot models.CountSnapshot, coilItemPar int) int {
	if v := snapshot.Field(pointer); v != nil {
		return clampCount(*v)
	}
	for _, p := range countFallbackOrder {
		if p == pointer {
			continue
		}
		if v := snapshot.Field(p); v != nil {
			return clampCount(*v)
		}
	}
	return clampCount(coilItemPar)
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
