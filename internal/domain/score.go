package domain

// OutcomeSample is one row of aggregated evidence for scoring a strategy.
// Wins/Losses double as ACCEPTED/REJECTED counts for diagnostics-only
// strategies that carry no PnL. Built fresh per scoring run, never persisted.
type OutcomeSample struct {
	StrategyID string  `json:"strategy_id"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	AvgR       float64 `json:"avg_rr"`
}

func (s OutcomeSample) SampleSize() int {
	return s.Wins + s.Losses
}

// ScorePriors are the population-level means that shrinkage pulls toward.
type ScorePriors struct {
	WinRate float64 `json:"win_rate"`
	AvgR    float64 `json:"avg_rr"`
}

func DefaultScorePriors() ScorePriors {
	return ScorePriors{
		WinRate: 0.50,
		AvgR:    1.0,
	}
}

type ScoreWeights struct {
	WinRate float64 `json:"win_rate"`
	RR      float64 `json:"rr"`
	Volume  float64 `json:"volume"`
}

func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		WinRate: 0.5,
		RR:      0.3,
		Volume:  0.2,
	}
}

// ScoreBreakdown keeps every intermediate value behind a score. The engine
// never returns a bare number without its derivation.
type ScoreBreakdown struct {
	WinRateRaw       float64 `json:"win_rate_raw" csv:"win_rate_raw"`
	WinRateWilson    float64 `json:"win_rate_wilson" csv:"win_rate_wilson"`
	WinRateComponent float64 `json:"win_rate_component" csv:"win_rate_component"`
	AvgRRRaw         float64 `json:"avg_rr_raw" csv:"avg_rr_raw"`
	AvgRRShrunk      float64 `json:"avg_rr_shrunk" csv:"avg_rr_shrunk"`
	RRComponent      float64 `json:"rr_component" csv:"rr_component"`
	VolumeComponent  float64 `json:"volume_component" csv:"volume_component"`
}

type StrategyScore struct {
	StrategyID string         `json:"strategy_id" csv:"strategy_id"`
	Score      float64        `json:"score" csv:"score"`
	SampleSize int            `json:"sample_size" csv:"sample_size"`
	Breakdown  ScoreBreakdown `json:"breakdown" csv:"-"`
}
