package l1_service

import (
	"fmt"
	"time"

	"signalbrain/internal/domain"
)

// UnsupportedTransitionError is the only error the core raises. It signals a
// programmer error (an event outside the declared set), not a runtime
// condition, and must propagate to the caller.
type UnsupportedTransitionError struct {
	Event domain.TradeEvent
}

func (e UnsupportedTransitionError) Error() string {
	return fmt.Sprintf("unsupported trade transition: %s", e.Event)
}

// Transition maps a lifecycle event to its target state and applies the
// side effects: OpenedAt on entry confirmation, ClosedAt on any terminal
// event, and an "<old> → <new>" audit note.
//
// The machine deliberately does not validate that the event is reachable
// from the current state; callers sequence events, the machine records them.
func Transition(trade *domain.Trade, event domain.TradeEvent) error {
	current := trade.State

	switch event {
	case domain.TradeEvent_SetupDetected:
		trade.State = domain.TradeState_SetupDetected

	case domain.TradeEvent_EntryConfirmed:
		trade.State = domain.TradeState_EntryConfirmed
		now := time.Now().UTC()
		trade.OpenedAt = &now

	case domain.TradeEvent_PositionOpened:
		trade.State = domain.TradeState_PositionOpen

	case domain.TradeEvent_PartialTpHit:
		trade.State = domain.TradeState_PartialTpHit

	case domain.TradeEvent_BreakevenReached:
		trade.State = domain.TradeState_Breakeven

	case domain.TradeEvent_TpFinalHit:
		trade.State = domain.TradeState_TpFinalHit
		now := time.Now().UTC()
		trade.ClosedAt = &now

	case domain.TradeEvent_StopLossHit:
		trade.State = domain.TradeState_StopLossHit
		now := time.Now().UTC()
		trade.ClosedAt = &now

	case domain.TradeEvent_PositionClosed:
		trade.State = domain.TradeState_PositionClosed
		now := time.Now().UTC()
		trade.ClosedAt = &now

	default:
		return UnsupportedTransitionError{Event: event}
	}

	trade.Notes = append(trade.Notes, fmt.Sprintf("%s → %s", current, trade.State))
	return nil
}
