package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTradeRecordRoundTrip(t *testing.T) {
	decimalComparer := cmp.Comparer(func(a, b decimal.Decimal) bool {
		return a.Equal(b)
	})

	t.Run("fully populated trade survives the round trip", func(t *testing.T) {
		entry := decimal.RequireFromString("43250.5")
		stop := decimal.RequireFromString("42000")
		realizedR := decimal.RequireFromString("1.313")
		openedAt := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
		closedAt := time.Date(2025, 3, 4, 16, 0, 0, 0, time.UTC)

		original := Trade{
			TradeID:     "a2b9",
			StrategyID:  "core_v5_breakout",
			Symbol:      "BTC",
			Direction:   TradeDirection_Long,
			EntryPrice:  &entry,
			StopLoss:    &stop,
			TakeProfits: []decimal.Decimal{decimal.RequireFromString("44000"), decimal.RequireFromString("45500")},
			State:       TradeState_TpFinalHit,
			CreatedAt:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			OpenedAt:    &openedAt,
			ClosedAt:    &closedAt,
			RealizedR:   &realizedR,
			Notes:       []string{"IDLE → SETUP_DETECTED", "SETUP_DETECTED → ENTRY_CONFIRMED"},
		}

		roundTripped, err := TradeFromRecord(original.ToRecord())
		require.NoError(t, err)

		diff := cmp.Diff(original, *roundTripped, decimalComparer, cmpopts.EquateEmpty())
		require.Empty(t, diff)
	})

	t.Run("sparse trade keeps its nils", func(t *testing.T) {
		original := Trade{
			TradeID:   "c3d1",
			Symbol:    "ETH",
			Direction: TradeDirection_Short,
			State:     TradeState_Idle,
			CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		}

		roundTripped, err := TradeFromRecord(original.ToRecord())
		require.NoError(t, err)

		require.Nil(t, roundTripped.EntryPrice)
		require.Nil(t, roundTripped.OpenedAt)
		require.Nil(t, roundTripped.ClosedAt)
		require.Nil(t, roundTripped.RealizedR)

		diff := cmp.Diff(original, *roundTripped, decimalComparer, cmpopts.EquateEmpty())
		require.Empty(t, diff)
	})

	t.Run("record with an unknown direction is rejected", func(t *testing.T) {
		record := Trade{
			TradeID:   "x",
			Symbol:    "BTC",
			Direction: TradeDirection_Long,
			State:     TradeState_Idle,
		}.ToRecord()
		record.Direction = "sideways"

		_, err := TradeFromRecord(record)
		require.Error(t, err)
	})
}
