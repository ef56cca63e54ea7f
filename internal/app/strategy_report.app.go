package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"signalbrain/internal/calculator"
	"signalbrain/internal/domain"
	"signalbrain/internal/repository"

	"github.com/gocarina/gocsv"
)

// StrategyReportApp orchestrates a scoring run: pull closed trades from the
// store, aggregate them into per-strategy outcome samples, score each one,
// and hand the snapshot to whatever reporting collaborator wants it.
type StrategyReportApp interface {
	GenerateReport(ctx context.Context) (*StrategyReport, error)
	WriteScoresCsv(ctx context.Context, w io.Writer) error
	WriteClosedTradesCsv(ctx context.Context, w io.Writer) error
}

type StrategyReport struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Priors      domain.ScorePriors     `json:"priors"`
	Scores      []domain.StrategyScore `json:"scores"`
}

type strategyReportAppHandler struct {
	TradeRepository repository.TradeRepository
	// Priors, when set, decouples scores from batch composition. Nil opts in
	// to batch-relative priors.
	Priors *domain.ScorePriors
}

func NewStrategyReportApp(tradeRepository repository.TradeRepository, priors *domain.ScorePriors) StrategyReportApp {
	return &strategyReportAppHandler{
		TradeRepository: tradeRepository,
		Priors:          priors,
	}
}

func (h *strategyReportAppHandler) GenerateReport(ctx context.Context) (*StrategyReport, error) {
	trades, err := h.TradeRepository.ListClosed()
	if err != nil {
		return nil, fmt.Errorf("failed to generate strategy report: %w", err)
	}

	samples := calculator.SamplesFromTrades(trades)

	priors := h.Priors
	if priors == nil {
		computed := calculator.PriorsFromSamples(samples)
		priors = &computed
	}

	return &StrategyReport{
		GeneratedAt: time.Now().UTC(),
		Priors:      *priors,
		Scores:      calculator.ScoreSamples(samples, *priors),
	}, nil
}

type strategyScoreRow struct {
	StrategyID       string  `csv:"strategy_id"`
	Score            float64 `csv:"score"`
	SampleSize       int     `csv:"sample_size"`
	WinRateRaw       float64 `csv:"win_rate_raw"`
	WinRateWilson    float64 `csv:"win_rate_wilson"`
	WinRateComponent float64 `csv:"win_rate_component"`
	AvgRRRaw         float64 `csv:"avg_rr_raw"`
	AvgRRShrunk      float64 `csv:"avg_rr_shrunk"`
	RRComponent      float64 `csv:"rr_component"`
	VolumeComponent  float64 `csv:"volume_component"`
}

func (h *strategyReportAppHandler) WriteScoresCsv(ctx context.Context, w io.Writer) error {
	report, err := h.GenerateReport(ctx)
	if err != nil {
		return err
	}

	rows := []strategyScoreRow{}
	for _, score := range report.Scores {
		rows = append(rows, strategyScoreRow{
			StrategyID:       score.StrategyID,
			Score:            score.Score,
			SampleSize:       score.SampleSize,
			WinRateRaw:       score.Breakdown.WinRateRaw,
			WinRateWilson:    score.Breakdown.WinRateWilson,
			WinRateComponent: score.Breakdown.WinRateComponent,
			AvgRRRaw:         score.Breakdown.AvgRRRaw,
			AvgRRShrunk:      score.Breakdown.AvgRRShrunk,
			RRComponent:      score.Breakdown.RRComponent,
			VolumeComponent:  score.Breakdown.VolumeComponent,
		})
	}

	err = gocsv.Marshal(rows, w)
	if err != nil {
		return fmt.Errorf("failed to write scores csv: %w", err)
	}
	return nil
}

func (h *strategyReportAppHandler) WriteClosedTradesCsv(ctx context.Context, w io.Writer) error {
	trades, err := h.TradeRepository.ListClosed()
	if err != nil {
		return fmt.Errorf("failed to export closed trades: %w", err)
	}

	records := []domain.TradeRecord{}
	for _, trade := range trades {
		records = append(records, trade.ToRecord())
	}

	err = gocsv.Marshal(records, w)
	if err != nil {
		return fmt.Errorf("failed to write closed trades csv: %w", err)
	}
	return nil
}
