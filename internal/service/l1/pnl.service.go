package l1_service

import (
	"signalbrain/internal/domain"

	"github.com/shopspring/decimal"
)

// CalculateR converts an exit price into a signed risk-multiple. Returns nil
// when entry or stop is missing, or when entry == stop (zero-risk trades are
// undefined, never a division by zero).
func CalculateR(entry, stop *decimal.Decimal, exitPrice decimal.Decimal, direction domain.TradeDirection) *decimal.Decimal {
	if entry == nil || stop == nil {
		return nil
	}

	risk := entry.Sub(*stop).Abs()
	if risk.IsZero() {
		return nil
	}

	var r decimal.Decimal
	if direction == domain.TradeDirection_Short {
		r = entry.Sub(exitPrice).Div(risk)
	} else {
		r = exitPrice.Sub(*entry).Div(risk)
	}

	r = r.Round(3)
	return &r
}

// FinalizeTrade computes and stores the realized R for a close event. Safety
// net: if the caller never drove an explicit terminal event, the trade is
// forced into POSITION_CLOSED.
func FinalizeTrade(trade *domain.Trade, exitPrice decimal.Decimal) *domain.Trade {
	trade.RealizedR = CalculateR(trade.EntryPrice, trade.StopLoss, exitPrice, trade.Direction)

	if !trade.State.IsTerminal() {
		// declared event, cannot fail
		_ = Transition(trade, domain.TradeEvent_PositionClosed)
	}

	return trade
}
