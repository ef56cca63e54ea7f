package calculator

import (
	"encoding/json"
	"sort"
	"strconv"

	"signalbrain/internal/domain"

	"github.com/montanaflynn/stats"
)

// Diagnostic exports name the same quantities several ways depending on which
// pipeline produced them. All of that is resolved here, at the ingestion
// boundary - the scoring engine only ever sees OutcomeSample.
var (
	winKeys  = []string{"wins", "keep"}
	lossKeys = []string{"losses", "reject"}
	rrKeys   = []string{"avg_rr", "rr", "realized_r", "final_result_percent"}
	idKeys   = []string{"strategy_id", "strategy"}
)

// NormalizeSample converts one loosely-typed diagnostic record into the
// canonical sample shape. Returns false for records with no usable strategy
// identifier; those are skipped by batch callers.
func NormalizeSample(raw map[string]interface{}) (domain.OutcomeSample, bool) {
	if raw == nil {
		return domain.OutcomeSample{}, false
	}

	strategyID := ""
	for _, key := range idKeys {
		if s, ok := raw[key].(string); ok && s != "" {
			strategyID = s
			break
		}
	}
	if strategyID == "" {
		return domain.OutcomeSample{}, false
	}

	sample := domain.OutcomeSample{
		StrategyID: strategyID,
		Wins:       intField(raw, winKeys),
		Losses:     intField(raw, lossKeys),
		AvgR:       floatField(raw, rrKeys),
	}

	return sample, true
}

func NormalizeSamples(raws []map[string]interface{}) []domain.OutcomeSample {
	out := []domain.OutcomeSample{}
	for _, raw := range raws {
		sample, ok := NormalizeSample(raw)
		if !ok {
			continue
		}
		out = append(out, sample)
	}
	return out
}

func intField(raw map[string]interface{}, keys []string) int {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		if f, ok := coerceFloat(value); ok {
			return int(f)
		}
	}
	return 0
}

func floatField(raw map[string]interface{}, keys []string) float64 {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		if f, ok := coerceFloat(value); ok {
			return f
		}
	}
	return 0.0
}

func coerceFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// SamplesFromTrades aggregates closed trades into per-strategy outcome
// samples. Positive realized R counts as a win, negative as a loss;
// breakeven trades and trades with no realized R are excluded from the
// win/loss tally. Output is sorted by strategy id for stable reports.
func SamplesFromTrades(trades []*domain.Trade) []domain.OutcomeSample {
	type tally struct {
		wins    int
		losses  int
		rValues []float64
	}

	byStrategy := map[string]*tally{}
	for _, trade := range trades {
		if trade.StrategyID == "" || trade.RealizedR == nil {
			continue
		}

		t, ok := byStrategy[trade.StrategyID]
		if !ok {
			t = &tally{}
			byStrategy[trade.StrategyID] = t
		}

		r := trade.RealizedR.InexactFloat64()
		if r > 0 {
			t.wins++
		} else if r < 0 {
			t.losses++
		}
		t.rValues = append(t.rValues, r)
	}

	out := []domain.OutcomeSample{}
	for strategyID, t := range byStrategy {
		avgR := 0.0
		if len(t.rValues) > 0 {
			// stats.Mean only errors on empty input
			avgR, _ = stats.Mean(t.rValues)
		}
		out = append(out, domain.OutcomeSample{
			StrategyID: strategyID,
			Wins:       t.wins,
			Losses:     t.losses,
			AvgR:       avgR,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StrategyID < out[j].StrategyID
	})

	return out
}
