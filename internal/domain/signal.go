package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Signal is the boundary record handed over by scanning collaborators. The
// direction string is case-insensitive; anything unrecognized means "no
// trade", never an error.
type Signal struct {
	TradeID     string            `json:"trade_id"`
	StrategyID  string            `json:"strategy_id"`
	Symbol      string            `json:"symbol"`
	Direction   string            `json:"direction"`
	EntryPrice  *decimal.Decimal  `json:"entry_price"`
	StopLoss    *decimal.Decimal  `json:"stop_loss"`
	TakeProfits []decimal.Decimal `json:"take_profits"`
	CreatedAt   time.Time         `json:"created_at"`
}

func ParseDirection(s string) (TradeDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long":
		return TradeDirection_Long, true
	case "short":
		return TradeDirection_Short, true
	}
	return "", false
}

// TradeFromSignal builds an IDLE trade from a signal. Returns false when the
// signal's direction is unsupported and the signal should be skipped.
func TradeFromSignal(signal Signal) (*Trade, bool) {
	direction, ok := ParseDirection(signal.Direction)
	if !ok {
		return nil, false
	}

	tradeID := signal.TradeID
	if tradeID == "" {
		tradeID = uuid.NewString()
	}

	createdAt := signal.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	trade := Trade{
		TradeID:     tradeID,
		StrategyID:  signal.StrategyID,
		Symbol:      signal.Symbol,
		Direction:   direction,
		EntryPrice:  signal.EntryPrice,
		StopLoss:    signal.StopLoss,
		TakeProfits: append([]decimal.Decimal{}, signal.TakeProfits...),
		State:       TradeState_Idle,
		CreatedAt:   createdAt,
	}

	return trade.DeepCopy(), true
}
