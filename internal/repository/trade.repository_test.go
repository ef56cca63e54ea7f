package repository

import (
	"database/sql"
	"testing"
	"time"

	"signalbrain/internal/domain"
	"signalbrain/internal/util"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func cleanupTrades(t *testing.T, db *sql.DB) {
	_, err := db.Exec("DELETE FROM trade")
	require.NoError(t, err)
}

func newStoredTrade(tradeID string) *domain.Trade {
	openedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Trade{
		TradeID:     tradeID,
		StrategyID:  "core_v5_breakout",
		Symbol:      "BTC",
		Direction:   domain.TradeDirection_Long,
		EntryPrice:  util.DecimalPointer(decimal.NewFromInt(100)),
		StopLoss:    util.DecimalPointer(decimal.NewFromInt(95)),
		TakeProfits: []decimal.Decimal{decimal.NewFromInt(110)},
		State:       domain.TradeState_PositionOpen,
		CreatedAt:   openedAt.Add(-time.Hour),
		OpenedAt:    util.TimePointer(openedAt),
		Notes:       []string{"IDLE → SETUP_DETECTED"},
	}
}

func Test_tradeRepositoryHandler(t *testing.T) {
	db, err := util.NewTestDb()
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(db))

	handler := tradeRepositoryHandler{Db: db}

	t.Run("save and list by bucket", func(t *testing.T) {
		cleanupTrades(t, db)

		open := newStoredTrade("t1")
		require.NoError(t, handler.Save(nil, open, TradeBucket_Open))

		closed := newStoredTrade("t2")
		closed.State = domain.TradeState_TpFinalHit
		closed.ClosedAt = util.TimePointer(time.Date(2025, 3, 1, 16, 0, 0, 0, time.UTC))
		closed.RealizedR = util.DecimalPointer(decimal.NewFromInt(2))
		require.NoError(t, handler.Save(nil, closed, TradeBucket_Closed))

		openTrades, err := handler.ListOpen()
		require.NoError(t, err)
		require.Len(t, openTrades, 1)
		require.Equal(t, "t1", openTrades[0].TradeID)
		require.Equal(t, domain.TradeState_PositionOpen, openTrades[0].State)
		require.True(t, openTrades[0].EntryPrice.Equal(decimal.NewFromInt(100)))
		require.Len(t, openTrades[0].TakeProfits, 1)
		require.True(t, openTrades[0].TakeProfits[0].Equal(decimal.NewFromInt(110)))
		require.Equal(t, open.Notes, openTrades[0].Notes)
		require.True(t, openTrades[0].OpenedAt.Equal(*open.OpenedAt))
		require.Nil(t, openTrades[0].RealizedR)

		closedTrades, err := handler.ListClosed()
		require.NoError(t, err)
		require.Len(t, closedTrades, 1)
		require.Equal(t, "t2", closedTrades[0].TradeID)
		require.Equal(t, domain.TradeState_TpFinalHit, closedTrades[0].State)
		require.True(t, closedTrades[0].RealizedR.Equal(decimal.NewFromInt(2)))
		require.True(t, closedTrades[0].ClosedAt.Equal(*closed.ClosedAt))
	})

	t.Run("save upserts and moves the trade between buckets", func(t *testing.T) {
		cleanupTrades(t, db)

		trade := newStoredTrade("t1")
		require.NoError(t, handler.Save(nil, trade, TradeBucket_Open))

		trade.State = domain.TradeState_StopLossHit
		trade.ClosedAt = util.TimePointer(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
		trade.RealizedR = util.DecimalPointer(decimal.NewFromInt(-1))
		require.NoError(t, handler.Save(nil, trade, TradeBucket_Closed))

		openTrades, err := handler.ListOpen()
		require.NoError(t, err)
		require.Empty(t, openTrades)

		closedTrades, err := handler.ListClosed()
		require.NoError(t, err)
		require.Len(t, closedTrades, 1)
		require.Equal(t, domain.TradeState_StopLossHit, closedTrades[0].State)
		require.True(t, closedTrades[0].RealizedR.Equal(decimal.NewFromInt(-1)))
	})

	t.Run("save participates in the caller's transaction", func(t *testing.T) {
		cleanupTrades(t, db)

		tx, err := db.Begin()
		require.NoError(t, err)
		require.NoError(t, handler.Save(tx, newStoredTrade("t1"), TradeBucket_Open))
		require.NoError(t, tx.Rollback())

		openTrades, err := handler.ListOpen()
		require.NoError(t, err)
		require.Empty(t, openTrades)
	})
}
