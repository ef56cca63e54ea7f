package l3_service

import (
	"context"
	"fmt"

	"signalbrain/internal/domain"
	"signalbrain/internal/logger"
	"signalbrain/internal/repository"
	l1_service "signalbrain/internal/service/l1"
	l2_service "signalbrain/internal/service/l2"

	"github.com/shopspring/decimal"
)

// DecisionService is the write path of the engine: signals in, admission
// decisions and lifecycle mutations out. It owns the single ledger instance,
// so the gate check and the open are serialized behind one lock.
type DecisionService interface {
	HandleSignal(ctx context.Context, signal domain.Signal, regimeLabel string) (*AdmissionResult, error)
	CloseTrade(ctx context.Context, tradeID string, terminalEvent domain.TradeEvent, exitPrice *decimal.Decimal) (*CloseResult, error)
	Ledger() *l2_service.PositionLedger
}

type AdmissionResult struct {
	Trade *domain.Trade `json:"trade"`
	// Skipped means the signal never became a trade (unsupported direction).
	Skipped bool              `json:"skipped"`
	Allowed bool              `json:"allowed"`
	Reason  domain.RiskReason `json:"reason"`
}

type CloseResult struct {
	Trade *domain.Trade `json:"trade"`
	Found bool          `json:"found"`
}

type decisionServiceHandler struct {
	PositionLedger  *l2_service.PositionLedger
	RiskLimits      domain.RiskLimits
	TradeRepository repository.TradeRepository
}

func NewDecisionService(
	ledger *l2_service.PositionLedger,
	limits domain.RiskLimits,
	tradeRepository repository.TradeRepository,
) DecisionService {
	return &decisionServiceHandler{
		PositionLedger:  ledger,
		RiskLimits:      limits,
		TradeRepository: tradeRepository,
	}
}

func (h *decisionServiceHandler) Ledger() *l2_service.PositionLedger {
	return h.PositionLedger
}

func (h *decisionServiceHandler) HandleSignal(ctx context.Context, signal domain.Signal, regimeLabel string) (*AdmissionResult, error) {
	log := logger.FromContext(ctx)

	trade, ok := domain.TradeFromSignal(signal)
	if !ok {
		// unknown direction means "no trade", never a crash
		log.Warnf("skipping signal for %s: unsupported direction %q", signal.Symbol, signal.Direction)
		return &AdmissionResult{Skipped: true}, nil
	}

	err := l1_service.Transition(trade, domain.TradeEvent_SetupDetected)
	if err != nil {
		return nil, err
	}

	reason, err := h.PositionLedger.AdmitAndOpen(trade, h.RiskLimits, regimeLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to admit trade %s: %w", trade.TradeID, err)
	}
	if reason != domain.RiskReason_Ok {
		log.Infof("rejected trade %s on %s: %s", trade.TradeID, trade.Symbol, reason)
		return &AdmissionResult{
			Trade:   trade,
			Allowed: false,
			Reason:  reason,
		}, nil
	}

	if h.TradeRepository != nil {
		err = h.TradeRepository.Save(nil, trade, repository.TradeBucket_Open)
		if err != nil {
			// an open position the store never saw would vanish on the next
			// rehydrate; back the admission out so ledger and store agree
			h.PositionLedger.Evict(trade.TradeID)
			return nil, fmt.Errorf("failed to persist trade %s: %w", trade.TradeID, err)
		}
	}

	log.Infof("opened trade %s on %s %s", trade.TradeID, trade.Symbol, trade.Direction)
	return &AdmissionResult{
		Trade:   trade,
		Allowed: true,
		Reason:  reason,
	}, nil
}

func (h *decisionServiceHandler) CloseTrade(ctx context.Context, tradeID string, terminalEvent domain.TradeEvent, exitPrice *decimal.Decimal) (*CloseResult, error) {
	log := logger.FromContext(ctx)

	trade, found, err := h.PositionLedger.Close(tradeID, terminalEvent)
	if err != nil {
		return nil, err
	}
	if !found {
		// closing an unknown or already-closed id is a soft failure so
		// scheduler retries stay idempotent
		log.Warnf("close requested for unknown trade %s", tradeID)
		return &CloseResult{Found: false}, nil
	}

	if exitPrice != nil {
		l1_service.FinalizeTrade(trade, *exitPrice)
	}

	if h.TradeRepository != nil {
		err = h.TradeRepository.Save(nil, trade, repository.TradeBucket_Closed)
		if err != nil {
			return nil, err
		}
	}

	log.Infof("closed trade %s with %s", tradeID, terminalEvent)
	return &CloseResult{Trade: trade, Found: true}, nil
}
