package calculator

import (
	"math"
	"testing"

	"signalbrain/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestWilsonLowerBound(t *testing.T) {
	t.Run("no trials yields exactly zero", func(t *testing.T) {
		require.Equal(t, 0.0, WilsonLowerBound(0, 0, 0.95))
	})

	t.Run("always within [0, 1]", func(t *testing.T) {
		for n := 0; n <= 50; n++ {
			for k := 0; k <= n; k++ {
				lower := WilsonLowerBound(k, n-k, 0.95)
				require.GreaterOrEqual(t, lower, 0.0)
				require.LessOrEqual(t, lower, 1.0)
			}
		}
	})

	t.Run("monotonically non-decreasing in successes for fixed n", func(t *testing.T) {
		previous := -1.0
		for k := 0; k <= 20; k++ {
			lower := WilsonLowerBound(k, 20-k, 0.95)
			require.GreaterOrEqual(t, lower, previous)
			previous = lower
		}
	})

	t.Run("more data at the same win rate strictly raises the bound", func(t *testing.T) {
		small := WilsonLowerBound(7, 3, 0.95)
		medium := WilsonLowerBound(70, 30, 0.95)
		large := WilsonLowerBound(700, 300, 0.95)
		require.Greater(t, medium, small)
		require.Greater(t, large, medium)
	})

	t.Run("sits below the naive proportion", func(t *testing.T) {
		require.Less(t, WilsonLowerBound(7, 3, 0.95), 0.7)
	})

	t.Run("higher confidence is more conservative", func(t *testing.T) {
		require.Greater(t, WilsonLowerBound(7, 3, 0.90), WilsonLowerBound(7, 3, 0.95))
		require.Greater(t, WilsonLowerBound(7, 3, 0.95), WilsonLowerBound(7, 3, 0.99))
	})

	t.Run("unknown confidence falls back to 95%", func(t *testing.T) {
		require.Equal(t, WilsonLowerBound(7, 3, 0.95), WilsonLowerBound(7, 3, 0.42))
	})
}

func TestEmpiricalBayesShrinkage(t *testing.T) {
	t.Run("zero sample size returns the prior exactly", func(t *testing.T) {
		require.Equal(t, 0.5, EmpiricalBayesShrinkage(0.8, 0.5, 0, 10))
	})

	t.Run("negative sample size clamps to zero", func(t *testing.T) {
		require.Equal(t, 0.5, EmpiricalBayesShrinkage(0.8, 0.5, -3, 10))
	})

	t.Run("small samples pull hard toward the prior", func(t *testing.T) {
		shrunk := EmpiricalBayesShrinkage(0.8, 0.5, 5, 10)
		require.InDelta(t, 0.6, shrunk, 1e-9)
	})

	t.Run("converges to the observed value as n grows", func(t *testing.T) {
		shrunk := EmpiricalBayesShrinkage(0.8, 0.5, 1_000_000, 10)
		require.InDelta(t, 0.8, shrunk, 1e-4)
	})

	t.Run("equal weights at n == k", func(t *testing.T) {
		require.InDelta(t, 0.65, EmpiricalBayesShrinkage(0.8, 0.5, 10, 10), 1e-9)
	})
}

func TestScoreBinaryOutcomes(t *testing.T) {
	t.Run("no trials scores zero", func(t *testing.T) {
		require.Equal(t, 0.0, ScoreBinaryOutcomes(0, 0, 0.95))
	})

	t.Run("is the wilson bound on a 0-100 scale", func(t *testing.T) {
		score := ScoreBinaryOutcomes(70, 30, 0.95)
		require.InDelta(t, 100*WilsonLowerBound(70, 30, 0.95), score, 0.01)
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 100.0)
	})
}

func TestScoreContinuousOutcomes(t *testing.T) {
	t.Run("zero r maps to the middle of the scale", func(t *testing.T) {
		require.InDelta(t, 50.0, ScoreContinuousOutcomes(0.0, 100000, 0.0), 0.1)
	})

	t.Run("no samples score at the prior", func(t *testing.T) {
		score := ScoreContinuousOutcomes(99.0, 0, 0.0)
		require.InDelta(t, 50.0, score, 0.01)
	})

	t.Run("saturates instead of exploding on extreme r", func(t *testing.T) {
		require.Less(t, ScoreContinuousOutcomes(1000.0, 1000, 1.0), 100.01)
		require.Greater(t, ScoreContinuousOutcomes(-1000.0, 1000, 1.0), -0.01)
	})
}

func TestCalculateStrategyScore(t *testing.T) {
	priors := domain.DefaultScorePriors()
	weights := domain.DefaultScoreWeights()

	t.Run("seven wins three losses lands in the documented band", func(t *testing.T) {
		score := CalculateStrategyScore(domain.OutcomeSample{
			StrategyID: "core_v5_breakout",
			Wins:       7,
			Losses:     3,
			AvgR:       1.2,
		}, priors, weights)

		require.Equal(t, 10, score.SampleSize)
		require.Equal(t, 0.70, score.Breakdown.WinRateRaw)
		require.Greater(t, score.Score, 45.0)
		require.Less(t, score.Score, 65.0)

		// breakdown is the full derivation, not just a bare number
		require.InDelta(t, WilsonLowerBound(7, 3, 0.95), score.Breakdown.WinRateWilson, 1e-4)
		require.InDelta(t, 1.2, score.Breakdown.AvgRRRaw, 1e-9)
		require.InDelta(t, 1.1, score.Breakdown.AvgRRShrunk, 1e-4)
		require.InDelta(t, 100.0*10.0/30.0, score.Breakdown.VolumeComponent, 0.01)
	})

	t.Run("zero sample size scores zero with empty breakdown", func(t *testing.T) {
		score := CalculateStrategyScore(domain.OutcomeSample{StrategyID: "fresh"}, priors, weights)
		require.Equal(t, 0.0, score.Score)
		require.Equal(t, 0, score.SampleSize)
		require.Equal(t, domain.ScoreBreakdown{}, score.Breakdown)
	})

	t.Run("monotonic in win rate", func(t *testing.T) {
		previous := -1.0
		for wins := 2; wins <= 18; wins += 4 {
			score := CalculateStrategyScore(domain.OutcomeSample{
				StrategyID: "s",
				Wins:       wins,
				Losses:     20 - wins,
				AvgR:       1.0,
			}, priors, weights)
			require.Greater(t, score.Score, previous)
			previous = score.Score
		}
	})

	t.Run("monotonic in average r", func(t *testing.T) {
		previous := -1.0
		for _, avgR := range []float64{-1.0, 0.0, 0.5, 1.0, 2.0} {
			score := CalculateStrategyScore(domain.OutcomeSample{
				StrategyID: "s",
				Wins:       10,
				Losses:     10,
				AvgR:       avgR,
			}, priors, weights)
			require.Greater(t, score.Score, previous)
			previous = score.Score
		}
	})

	t.Run("monotonic in sample size at fixed win rate and r", func(t *testing.T) {
		previous := -1.0
		for _, scale := range []int{1, 2, 3, 6} {
			score := CalculateStrategyScore(domain.OutcomeSample{
				StrategyID: "s",
				Wins:       6 * scale,
				Losses:     4 * scale,
				AvgR:       1.0,
			}, priors, weights)
			require.Greater(t, score.Score, previous)
			previous = score.Score
		}
	})

	t.Run("one-trade perturbation moves the score by a bounded amount", func(t *testing.T) {
		baseline := CalculateStrategyScore(domain.OutcomeSample{
			StrategyID: "s",
			Wins:       12,
			Losses:     8,
			AvgR:       1.0,
		}, priors, weights)

		plusWin := CalculateStrategyScore(domain.OutcomeSample{
			StrategyID: "s",
			Wins:       13,
			Losses:     8,
			AvgR:       1.0,
		}, priors, weights)

		plusLoss := CalculateStrategyScore(domain.OutcomeSample{
			StrategyID: "s",
			Wins:       12,
			Losses:     9,
			AvgR:       1.0,
		}, priors, weights)

		require.Less(t, math.Abs(plusWin.Score-baseline.Score), 5.0)
		require.Less(t, math.Abs(plusLoss.Score-baseline.Score), 5.0)
	})

	t.Run("clamped to [0, 100]", func(t *testing.T) {
		low := CalculateStrategyScore(domain.OutcomeSample{
			StrategyID: "bad",
			Wins:       0,
			Losses:     50,
			AvgR:       -50.0,
		}, priors, weights)
		high := CalculateStrategyScore(domain.OutcomeSample{
			StrategyID: "good",
			Wins:       500,
			Losses:     1,
			AvgR:       50.0,
		}, priors, weights)

		require.GreaterOrEqual(t, low.Score, 0.0)
		require.LessOrEqual(t, high.Score, 100.0)
	})
}

func TestScoreStrategiesFromDiagnostics(t *testing.T) {
	t.Run("nil priors are computed from the batch", func(t *testing.T) {
		raws := []map[string]interface{}{
			{"strategy_id": "a", "wins": 7.0, "losses": 3.0, "avg_rr": 1.2},
			{"strategy_id": "b", "wins": 2.0, "losses": 8.0, "avg_rr": 0.5},
		}

		scores := ScoreStrategiesFromDiagnostics(raws, nil)
		require.Len(t, scores, 2)
		require.Greater(t, scores[0].Score, scores[1].Score)
	})

	t.Run("batch composition changes batch-relative scores", func(t *testing.T) {
		target := map[string]interface{}{"strategy_id": "a", "wins": 7.0, "losses": 3.0, "avg_rr": 1.2}

		alone := ScoreStrategiesFromDiagnostics([]map[string]interface{}{target}, nil)
		crowded := ScoreStrategiesFromDiagnostics([]map[string]interface{}{
			target,
			{"strategy_id": "whale", "wins": 100.0, "losses": 0.0, "avg_rr": 5.0},
		}, nil)

		require.NotEqual(t, alone[0].Score, crowded[0].Score)
	})

	t.Run("explicit priors pin the scores", func(t *testing.T) {
		target := map[string]interface{}{"strategy_id": "a", "wins": 7.0, "losses": 3.0, "avg_rr": 1.2}
		priors := domain.DefaultScorePriors()

		alone := ScoreStrategiesFromDiagnostics([]map[string]interface{}{target}, &priors)
		crowded := ScoreStrategiesFromDiagnostics([]map[string]interface{}{
			target,
			{"strategy_id": "whale", "wins": 100.0, "losses": 0.0, "avg_rr": 5.0},
		}, &priors)

		require.Equal(t, alone[0].Score, crowded[0].Score)
	})

	t.Run("entries without a strategy id are skipped silently", func(t *testing.T) {
		raws := []map[string]interface{}{
			{"wins": 7.0, "losses": 3.0, "avg_rr": 1.2},
			{"strategy_id": "b", "wins": 5.0, "losses": 5.0, "avg_rr": 1.0},
		}

		scores := ScoreStrategiesFromDiagnostics(raws, nil)
		require.Len(t, scores, 1)
		require.Equal(t, "b", scores[0].StrategyID)
	})

	t.Run("empty input yields an empty result", func(t *testing.T) {
		require.Empty(t, ScoreStrategiesFromDiagnostics(nil, nil))
	})
}

func TestPriorsFromSamples(t *testing.T) {
	t.Run("pooled win rate and mean avg r", func(t *testing.T) {
		priors := PriorsFromSamples([]domain.OutcomeSample{
			{StrategyID: "a", Wins: 7, Losses: 3, AvgR: 1.2},
			{StrategyID: "b", Wins: 3, Losses: 7, AvgR: 0.8},
		})
		require.InDelta(t, 0.5, priors.WinRate, 1e-9)
		require.InDelta(t, 1.0, priors.AvgR, 1e-9)
	})

	t.Run("empty batch falls back to defaults", func(t *testing.T) {
		require.Equal(t, domain.DefaultScorePriors(), PriorsFromSamples(nil))
	})
}
