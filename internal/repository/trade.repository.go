package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"signalbrain/internal/domain"

	"github.com/shopspring/decimal"
)

// TradeRepository persists the flat trade serialization contract. The ledger
// stays the live source of truth; this store is the durable copy it is
// rehydrated from on startup.
type TradeRepository interface {
	Save(tx *sql.Tx, trade *domain.Trade, bucket TradeBucket) error
	ListOpen() ([]*domain.Trade, error)
	ListClosed() ([]*domain.Trade, error)
}

type TradeBucket string

const (
	TradeBucket_Open   TradeBucket = "open"
	TradeBucket_Closed TradeBucket = "closed"
)

type tradeRepositoryHandler struct {
	Db *sql.DB
}

func NewTradeRepository(db *sql.DB) TradeRepository {
	return tradeRepositoryHandler{Db: db}
}

const createTradeTable = `
CREATE TABLE IF NOT EXISTS trade (
	trade_id TEXT PRIMARY KEY,
	strategy_id TEXT NOT NULL DEFAULT '',
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price NUMERIC,
	stop_loss NUMERIC,
	take_profits JSONB NOT NULL DEFAULT '[]',
	state TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	opened_at TIMESTAMPTZ,
	closed_at TIMESTAMPTZ,
	realized_r NUMERIC,
	notes JSONB NOT NULL DEFAULT '[]',
	bucket TEXT NOT NULL,
	modified_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the trade table when it does not exist yet.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(createTradeTable)
	if err != nil {
		return fmt.Errorf("failed to ensure trade schema: %w", err)
	}
	return nil
}

func (h tradeRepositoryHandler) Save(tx *sql.Tx, trade *domain.Trade, bucket TradeBucket) error {
	record := trade.ToRecord()

	takeProfits, err := json.Marshal(record.TakeProfits)
	if err != nil {
		return fmt.Errorf("failed to marshal take profits for trade %s: %w", record.TradeID, err)
	}
	notes, err := json.Marshal(record.Notes)
	if err != nil {
		return fmt.Errorf("failed to marshal notes for trade %s: %w", record.TradeID, err)
	}

	query := `
		INSERT INTO trade (
			trade_id, strategy_id, symbol, direction, entry_price, stop_loss,
			take_profits, state, created_at, opened_at, closed_at, realized_r,
			notes, bucket, modified_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (trade_id) DO UPDATE SET
			entry_price = EXCLUDED.entry_price,
			stop_loss = EXCLUDED.stop_loss,
			take_profits = EXCLUDED.take_profits,
			state = EXCLUDED.state,
			opened_at = EXCLUDED.opened_at,
			closed_at = EXCLUDED.closed_at,
			realized_r = EXCLUDED.realized_r,
			notes = EXCLUDED.notes,
			bucket = EXCLUDED.bucket,
			modified_at = EXCLUDED.modified_at
	`

	var db interface {
		Exec(query string, args ...interface{}) (sql.Result, error)
	} = h.Db
	if tx != nil {
		db = tx
	}

	_, err = db.Exec(query,
		record.TradeID,
		record.StrategyID,
		record.Symbol,
		record.Direction,
		nullDecimal(record.EntryPrice),
		nullDecimal(record.StopLoss),
		takeProfits,
		record.State,
		record.CreatedAt,
		record.OpenedAt,
		record.ClosedAt,
		nullDecimal(record.RealizedR),
		notes,
		string(bucket),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save trade %s: %w", record.TradeID, err)
	}

	return nil
}

func (h tradeRepositoryHandler) ListOpen() ([]*domain.Trade, error) {
	return h.list(TradeBucket_Open)
}

func (h tradeRepositoryHandler) ListClosed() ([]*domain.Trade, error) {
	return h.list(TradeBucket_Closed)
}

func (h tradeRepositoryHandler) list(bucket TradeBucket) ([]*domain.Trade, error) {
	query := `
		SELECT trade_id, strategy_id, symbol, direction, entry_price, stop_loss,
			take_profits, state, created_at, opened_at, closed_at, realized_r, notes
		FROM trade
		WHERE bucket = $1
		ORDER BY created_at
	`

	rows, err := h.Db.Query(query, string(bucket))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s trades: %w", bucket, err)
	}
	defer rows.Close()

	out := []*domain.Trade{}
	for rows.Next() {
		var (
			record      domain.TradeRecord
			entryPrice  decimal.NullDecimal
			stopLoss    decimal.NullDecimal
			realizedR   decimal.NullDecimal
			takeProfits []byte
			notes       []byte
		)
		err = rows.Scan(
			&record.TradeID,
			&record.StrategyID,
			&record.Symbol,
			&record.Direction,
			&entryPrice,
			&stopLoss,
			&takeProfits,
			&record.State,
			&record.CreatedAt,
			&record.OpenedAt,
			&record.ClosedAt,
			&realizedR,
			&notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}

		if entryPrice.Valid {
			record.EntryPrice = &entryPrice.Decimal
		}
		if stopLoss.Valid {
			record.StopLoss = &stopLoss.Decimal
		}
		if realizedR.Valid {
			record.RealizedR = &realizedR.Decimal
		}
		err = json.Unmarshal(takeProfits, &record.TakeProfits)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal take profits for trade %s: %w", record.TradeID, err)
		}
		err = json.Unmarshal(notes, &record.Notes)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal notes for trade %s: %w", record.TradeID, err)
		}

		trade, err := domain.TradeFromRecord(record)
		if err != nil {
			return nil, err
		}
		out = append(out, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s trades: %w", bucket, err)
	}

	return out, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
