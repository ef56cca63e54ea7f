package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeState string

const (
	TradeState_Idle           TradeState = "IDLE"
	TradeState_SetupDetected  TradeState = "SETUP_DETECTED"
	TradeState_EntryConfirmed TradeState = "ENTRY_CONFIRMED"
	TradeState_PositionOpen   TradeState = "POSITION_OPEN"
	TradeState_PartialTpHit   TradeState = "PARTIAL_TP_HIT"
	TradeState_Breakeven      TradeState = "BREAKEVEN"
	TradeState_TpFinalHit     TradeState = "TP_FINAL_HIT"
	TradeState_StopLossHit    TradeState = "STOP_LOSS_HIT"
	TradeState_PositionClosed TradeState = "POSITION_CLOSED"
)

type TradeEvent string

const (
	TradeEvent_SetupDetected    TradeEvent = "SETUP_DETECTED"
	TradeEvent_EntryConfirmed   TradeEvent = "ENTRY_CONFIRMED"
	TradeEvent_PositionOpened   TradeEvent = "POSITION_OPENED"
	TradeEvent_PartialTpHit     TradeEvent = "PARTIAL_TP_HIT"
	TradeEvent_BreakevenReached TradeEvent = "BREAKEVEN_REACHED"
	TradeEvent_TpFinalHit       TradeEvent = "TP_FINAL_HIT"
	TradeEvent_StopLossHit      TradeEvent = "STOP_LOSS_HIT"
	TradeEvent_PositionClosed   TradeEvent = "POSITION_CLOSED"
)

type TradeDirection string

const (
	TradeDirection_Long  TradeDirection = "LONG"
	TradeDirection_Short TradeDirection = "SHORT"
)

// Trade is the central model for one proposed/executed position. It is
// mutated only through the l1 lifecycle service and owned by exactly one
// ledger bucket (open or closed) at a time.
type Trade struct {
	TradeID    string
	StrategyID string
	Symbol     string
	Direction  TradeDirection

	EntryPrice  *decimal.Decimal
	StopLoss    *decimal.Decimal
	TakeProfits []decimal.Decimal

	State TradeState

	CreatedAt time.Time
	OpenedAt  *time.Time
	ClosedAt  *time.Time

	RealizedR *decimal.Decimal
	Notes     []string
}

func (t Trade) IsOpen() bool {
	switch t.State {
	case TradeState_EntryConfirmed,
		TradeState_PositionOpen,
		TradeState_PartialTpHit,
		TradeState_Breakeven:
		return true
	}
	return false
}

func (t Trade) IsClosed() bool {
	return t.State.IsTerminal()
}

func (s TradeState) IsTerminal() bool {
	switch s {
	case TradeState_TpFinalHit,
		TradeState_StopLossHit,
		TradeState_PositionClosed:
		return true
	}
	return false
}

func (t Trade) DeepCopy() *Trade {
	newTrade := t
	newTrade.TakeProfits = append([]decimal.Decimal{}, t.TakeProfits...)
	newTrade.Notes = append([]string{}, t.Notes...)
	if t.EntryPrice != nil {
		entry := *t.EntryPrice
		newTrade.EntryPrice = &entry
	}
	if t.StopLoss != nil {
		stop := *t.StopLoss
		newTrade.StopLoss = &stop
	}
	if t.RealizedR != nil {
		r := *t.RealizedR
		newTrade.RealizedR = &r
	}
	if t.OpenedAt != nil {
		openedAt := *t.OpenedAt
		newTrade.OpenedAt = &openedAt
	}
	if t.ClosedAt != nil {
		closedAt := *t.ClosedAt
		newTrade.ClosedAt = &closedAt
	}
	return &newTrade
}
