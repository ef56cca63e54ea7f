package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is the flat serialization contract consumed by persistence
// collaborators. Round-tripping Trade -> TradeRecord -> Trade must be
// lossless for every field.
type TradeRecord struct {
	TradeID     string            `json:"trade_id" csv:"trade_id"`
	StrategyID  string            `json:"strategy_id" csv:"strategy_id"`
	Symbol      string            `json:"symbol" csv:"symbol"`
	Direction   string            `json:"direction" csv:"direction"`
	EntryPrice  *decimal.Decimal  `json:"entry_price" csv:"entry_price"`
	StopLoss    *decimal.Decimal  `json:"stop_loss" csv:"stop_loss"`
	TakeProfits []decimal.Decimal `json:"take_profits" csv:"-"`
	State       string            `json:"state" csv:"state"`
	CreatedAt   time.Time         `json:"created_at" csv:"created_at"`
	OpenedAt    *time.Time        `json:"opened_at" csv:"opened_at"`
	ClosedAt    *time.Time        `json:"closed_at" csv:"closed_at"`
	RealizedR   *decimal.Decimal  `json:"realized_r" csv:"realized_r"`
	Notes       []string          `json:"notes" csv:"-"`
}

func (t Trade) ToRecord() TradeRecord {
	copied := t.DeepCopy()
	return TradeRecord{
		TradeID:     copied.TradeID,
		StrategyID:  copied.StrategyID,
		Symbol:      copied.Symbol,
		Direction:   string(copied.Direction),
		EntryPrice:  copied.EntryPrice,
		StopLoss:    copied.StopLoss,
		TakeProfits: copied.TakeProfits,
		State:       string(copied.State),
		CreatedAt:   copied.CreatedAt,
		OpenedAt:    copied.OpenedAt,
		ClosedAt:    copied.ClosedAt,
		RealizedR:   copied.RealizedR,
		Notes:       copied.Notes,
	}
}

func TradeFromRecord(record TradeRecord) (*Trade, error) {
	direction, ok := ParseDirection(record.Direction)
	if !ok {
		return nil, fmt.Errorf("failed to load trade %s: unknown direction %q", record.TradeID, record.Direction)
	}

	trade := Trade{
		TradeID:     record.TradeID,
		StrategyID:  record.StrategyID,
		Symbol:      record.Symbol,
		Direction:   direction,
		EntryPrice:  record.EntryPrice,
		StopLoss:    record.StopLoss,
		TakeProfits: append([]decimal.Decimal{}, record.TakeProfits...),
		State:       TradeState(record.State),
		CreatedAt:   record.CreatedAt,
		OpenedAt:    record.OpenedAt,
		ClosedAt:    record.ClosedAt,
		RealizedR:   record.RealizedR,
		Notes:       append([]string{}, record.Notes...),
	}

	return trade.DeepCopy(), nil
}
