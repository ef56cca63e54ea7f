package l2_service

import (
	"signalbrain/internal/domain"
)

// ExposureSnapshot is a point-in-time read of ledger exposure, taken under
// the ledger lock so the gate never races an open/close.
type ExposureSnapshot struct {
	OpenTotal       int
	OpenBySymbol    map[string]int
	OpenByDirection map[domain.TradeDirection]int
}

// CanOpen is the pure admission-control check. The first failing limit wins
// and short-circuits the rest. Unrecognized regime labels are treated as
// non-observation, so the remaining checks still run.
func CanOpen(
	symbol string,
	direction domain.TradeDirection,
	exposure ExposureSnapshot,
	limits domain.RiskLimits,
	regimeLabel string,
) (bool, domain.RiskReason) {
	if regimeLabel == domain.RegimeLabel_Observation && !limits.AllowTradeWhenObservation {
		return false, domain.RiskReason_Observation
	}

	if exposure.OpenTotal >= limits.MaxOpenPositionsTotal {
		return false, domain.RiskReason_MaxOpenTotal
	}

	if exposure.OpenBySymbol[symbol] >= limits.MaxOpenPositionsPerSymbol {
		return false, domain.RiskReason_MaxOpenPerSymbol
	}

	if exposure.OpenByDirection[direction] >= limits.MaxSameDirectionPositions {
		return false, domain.RiskReason_MaxSameDirection
	}

	return true, domain.RiskReason_Ok
}
