package domain

type RiskReason string

const (
	RiskReason_Ok               RiskReason = "RISK_OK"
	RiskReason_Observation      RiskReason = "RISK_GATE_OBSERVATION"
	RiskReason_MaxOpenTotal     RiskReason = "RISK_GATE_MAX_OPEN_TOTAL"
	RiskReason_MaxOpenPerSymbol RiskReason = "RISK_GATE_MAX_OPEN_PER_SYMBOL"
	RiskReason_MaxSameDirection RiskReason = "RISK_GATE_MAX_SAME_DIRECTION"
)

// Recognized regime labels from the external market-regime detector. Any
// other label is treated as non-observation.
const (
	RegimeLabel_Observation = "OBSERVATION"
	RegimeLabel_Actionable  = "ACTIONABLE"
)

// RiskLimits is immutable admission-control configuration. The zero value is
// intentionally not usable; construct with DefaultRiskLimits or explicitly.
type RiskLimits struct {
	MaxOpenPositionsTotal     int
	MaxOpenPositionsPerSymbol int
	MaxSameDirectionPositions int
	AllowTradeWhenObservation bool
}

func DefaultRiskLimits() RiskLimits {
	return RiskLimits{
		MaxOpenPositionsTotal:     1,
		MaxOpenPositionsPerSymbol: 1,
		MaxSameDirectionPositions: 1,
		AllowTradeWhenObservation: false,
	}
}
