package calculator

import (
	"math"

	"signalbrain/internal/domain"
	"signalbrain/internal/util"
)

const (
	DefaultConfidence        = 0.95
	DefaultShrinkageStrength = 10.0

	// volume confidence saturates here; more trades stop buying score
	volumeSaturationTrades = 30.0
)

// zScores maps supported confidence levels to their normal quantiles.
// Unknown levels fall back to 95%.
var zScores = map[float64]float64{
	0.90: 1.645,
	0.95: 1.96,
	0.99: 2.576,
}

// WilsonLowerBound computes the lower bound of the Wilson score interval for
// a binomial proportion. Conservative by construction: small samples land
// well below the naive k/n, and no trials yields 0.0 exactly.
func WilsonLowerBound(successes, failures int, confidence float64) float64 {
	n := float64(successes + failures)
	if n == 0 {
		return 0.0
	}

	z, ok := zScores[confidence]
	if !ok {
		z = zScores[DefaultConfidence]
	}

	pHat := float64(successes) / n
	zSquared := z * z

	denominator := 1 + zSquared/n
	center := pHat + zSquared/(2*n)
	margin := z * math.Sqrt((pHat*(1-pHat)+zSquared/(4*n))/n)

	return util.ClampFloat((center-margin)/denominator, 0.0, 1.0)
}

// EmpiricalBayesShrinkage pulls an observed metric toward the population
// prior, weighted by sample size: (n*observed + k*prior) / (n + k). A sample
// size of zero returns the prior exactly.
func EmpiricalBayesShrinkage(observed, prior float64, sampleSize int, shrinkageStrength float64) float64 {
	if sampleSize < 0 {
		sampleSize = 0
	}

	n := float64(sampleSize)
	totalWeight := n + shrinkageStrength
	if totalWeight == 0 {
		return prior
	}

	return (n*observed + shrinkageStrength*prior) / totalWeight
}

// ScoreBinaryOutcomes scores a strategy with only accepted/rejected counts:
// the Wilson lower bound scaled to [0, 100].
func ScoreBinaryOutcomes(successes, failures int, confidence float64) float64 {
	return util.RoundFloat(100.0*WilsonLowerBound(successes, failures, confidence), 2)
}

// rrToComponent maps a shrunk R to [0, 100] via a smooth S-curve. R = 0 sits
// at 50; a handful of extreme R values cannot drag the component to the rails
// the way a linear map would.
func rrToComponent(shrunkR float64) float64 {
	return 50.0 * (1 + math.Tanh(shrunkR/2.0))
}

// ScoreContinuousOutcomes scores a strategy from its shrunk average R alone.
func ScoreContinuousOutcomes(avgR float64, sampleSize int, priorAvgR float64) float64 {
	shrunk := EmpiricalBayesShrinkage(avgR, priorAvgR, sampleSize, DefaultShrinkageStrength)
	return util.RoundFloat(rrToComponent(shrunk), 2)
}

// CalculateStrategyScore combines win rate, risk-reward, and volume
// confidence into one composite 0-100 score. Pure: same inputs, same output,
// no silent branches. Every intermediate lands in the breakdown.
func CalculateStrategyScore(
	sample domain.OutcomeSample,
	priors domain.ScorePriors,
	weights domain.ScoreWeights,
) domain.StrategyScore {
	sampleSize := sample.SampleSize()

	if sampleSize == 0 {
		// no trades, no credit
		return domain.StrategyScore{
			StrategyID: sample.StrategyID,
			Score:      0.0,
			SampleSize: 0,
		}
	}

	winRateRaw := float64(sample.Wins) / float64(sampleSize)
	winRateWilson := WilsonLowerBound(sample.Wins, sample.Losses, DefaultConfidence)
	winRateComponent := 100.0 * winRateWilson

	avgRRShrunk := EmpiricalBayesShrinkage(sample.AvgR, priors.AvgR, sampleSize, DefaultShrinkageStrength)
	rrComponent := rrToComponent(avgRRShrunk)

	volumeComponent := 100.0 * math.Min(1.0, float64(sampleSize)/volumeSaturationTrades)

	score := weights.WinRate*winRateComponent +
		weights.RR*rrComponent +
		weights.Volume*volumeComponent
	score = util.ClampFloat(score, 0.0, 100.0)

	return domain.StrategyScore{
		StrategyID: sample.StrategyID,
		Score:      util.RoundFloat(score, 2),
		SampleSize: sampleSize,
		Breakdown: domain.ScoreBreakdown{
			WinRateRaw:       util.RoundFloat(winRateRaw, 4),
			WinRateWilson:    util.RoundFloat(winRateWilson, 4),
			WinRateComponent: util.RoundFloat(winRateComponent, 2),
			AvgRRRaw:         util.RoundFloat(sample.AvgR, 4),
			AvgRRShrunk:      util.RoundFloat(avgRRShrunk, 4),
			RRComponent:      util.RoundFloat(rrComponent, 2),
			VolumeComponent:  util.RoundFloat(volumeComponent, 2),
		},
	}
}

// PriorsFromSamples computes population priors as simple aggregates over a
// batch: pooled win rate across all trades, mean of per-strategy average Rs.
// Empty or trade-free batches fall back to the default priors.
func PriorsFromSamples(samples []domain.OutcomeSample) domain.ScorePriors {
	priors := domain.DefaultScorePriors()

	totalWins := 0
	totalLosses := 0
	totalR := 0.0
	countR := 0
	for _, sample := range samples {
		totalWins += sample.Wins
		totalLosses += sample.Losses
		totalR += sample.AvgR
		countR++
	}

	if totalWins+totalLosses > 0 {
		priors.WinRate = float64(totalWins) / float64(totalWins+totalLosses)
	}
	if countR > 0 {
		priors.AvgR = totalR / float64(countR)
	}

	return priors
}

// ScoreSamples scores a batch of canonical samples against explicit priors.
func ScoreSamples(samples []domain.OutcomeSample, priors domain.ScorePriors) []domain.StrategyScore {
	weights := domain.DefaultScoreWeights()

	out := []domain.StrategyScore{}
	for _, sample := range samples {
		if sample.StrategyID == "" {
			continue
		}
		out = append(out, CalculateStrategyScore(sample, priors, weights))
	}
	return out
}

// ScoreStrategiesFromDiagnostics is the batch entry point over loosely-typed
// diagnostic records. When priors is nil they are computed from this batch,
// which couples every score to the batch's composition - callers that want
// stable scores across runs must pass population priors explicitly.
func ScoreStrategiesFromDiagnostics(raws []map[string]interface{}, priors *domain.ScorePriors) []domain.StrategyScore {
	samples := NormalizeSamples(raws)

	if priors == nil {
		computed := PriorsFromSamples(samples)
		priors = &computed
	}

	return ScoreSamples(samples, *priors)
}
