package l2_service

import (
	"fmt"
	"sync"

	"signalbrain/internal/domain"
	l1_service "signalbrain/internal/service/l1"
)

// PositionLedger is the live source of truth for open and closed positions.
// A trade id lives in at most one of the two buckets at any time; trades are
// moved between them, never duplicated. All mutation goes through a single
// mutex so two concurrent admission checks can never both pass against the
// same exposure limits.
type PositionLedger struct {
	mu     sync.Mutex
	open   map[string]*domain.Trade
	closed map[string]*domain.Trade
}

func NewPositionLedger() *PositionLedger {
	return &PositionLedger{
		open:   map[string]*domain.Trade{},
		closed: map[string]*domain.Trade{},
	}
}

// Rehydrate replaces the ledger contents from persisted state. Used by the
// repository collaborator on startup.
func (l *PositionLedger) Rehydrate(open []*domain.Trade, closed []*domain.Trade) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	newOpen := map[string]*domain.Trade{}
	newClosed := map[string]*domain.Trade{}
	for _, trade := range open {
		newOpen[trade.TradeID] = trade
	}
	for _, trade := range closed {
		if _, ok := newOpen[trade.TradeID]; ok {
			return fmt.Errorf("failed to rehydrate ledger: trade %s present in both open and closed sets", trade.TradeID)
		}
		newClosed[trade.TradeID] = trade
	}

	l.open = newOpen
	l.closed = newClosed
	return nil
}

// Open drives POSITION_OPENED on the trade and records it as open. Errors if
// the trade id is already known to either bucket.
func (l *PositionLedger) Open(trade *domain.Trade) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.openLocked(trade)
}

func (l *PositionLedger) openLocked(trade *domain.Trade) error {
	if _, ok := l.open[trade.TradeID]; ok {
		return fmt.Errorf("failed to open position: trade %s is already open", trade.TradeID)
	}
	if _, ok := l.closed[trade.TradeID]; ok {
		return fmt.Errorf("failed to open position: trade %s was already closed", trade.TradeID)
	}

	err := l1_service.Transition(trade, domain.TradeEvent_PositionOpened)
	if err != nil {
		return err
	}

	l.open[trade.TradeID] = trade
	return nil
}

// AdmitAndOpen runs the risk gate and, on approval, opens the position - as
// one atomic unit under the ledger lock. This is the check-then-act boundary
// concurrent schedulers must share.
func (l *PositionLedger) AdmitAndOpen(trade *domain.Trade, limits domain.RiskLimits, regimeLabel string) (domain.RiskReason, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	allowed, reason := CanOpen(trade.Symbol, trade.Direction, l.exposureLocked(), limits, regimeLabel)
	if !allowed {
		return reason, nil
	}

	// admission doubles as entry confirmation; this stamps OpenedAt
	err := l1_service.Transition(trade, domain.TradeEvent_EntryConfirmed)
	if err != nil {
		return reason, err
	}

	err = l.openLocked(trade)
	if err != nil {
		return reason, err
	}

	return reason, nil
}

// Close moves a trade from the open bucket to the closed bucket, driving the
// given terminal event. Closing an unknown or already-closed trade id is a
// no-op (found == false) so upstream retries stay idempotent.
func (l *PositionLedger) Close(tradeID string, terminalEvent domain.TradeEvent) (*domain.Trade, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trade, ok := l.open[tradeID]
	if !ok {
		return nil, false, nil
	}

	err := l1_service.Transition(trade, terminalEvent)
	if err != nil {
		return nil, true, err
	}

	delete(l.open, tradeID)
	l.closed[tradeID] = trade
	return trade, true, nil
}

// ForceClose closes a position with POSITION_CLOSED and a custom audit note.
func (l *PositionLedger) ForceClose(tradeID string, note string) (*domain.Trade, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trade, ok := l.open[tradeID]
	if !ok {
		return nil, false
	}

	// declared event, cannot fail
	_ = l1_service.Transition(trade, domain.TradeEvent_PositionClosed)
	trade.Notes = append(trade.Notes, note)

	delete(l.open, tradeID)
	l.closed[tradeID] = trade
	return trade, true
}

// Evict removes an open position without driving any lifecycle event. Used
// when persistence fails right after admission, so the ledger never holds a
// position the store has no record of.
func (l *PositionLedger) Evict(tradeID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.open[tradeID]; !ok {
		return false
	}
	delete(l.open, tradeID)
	return true
}

// MarkPartialTP records a partial take-profit on an open position without
// moving it between buckets.
func (l *PositionLedger) MarkPartialTP(tradeID string) (*domain.Trade, bool) {
	return l.mark(tradeID, domain.TradeEvent_PartialTpHit)
}

// MarkBreakeven records the stop moving to breakeven on an open position.
func (l *PositionLedger) MarkBreakeven(tradeID string) (*domain.Trade, bool) {
	return l.mark(tradeID, domain.TradeEvent_BreakevenReached)
}

func (l *PositionLedger) mark(tradeID string, event domain.TradeEvent) (*domain.Trade, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trade, ok := l.open[tradeID]
	if !ok {
		return nil, false
	}

	// declared non-terminal events, cannot fail
	_ = l1_service.Transition(trade, event)
	return trade, true
}

func (l *PositionLedger) CountOpen() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.open)
}

func (l *PositionLedger) CountClosed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.closed)
}

func (l *PositionLedger) OpenBySymbol() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exposureLocked().OpenBySymbol
}

func (l *PositionLedger) OpenByDirection() map[domain.TradeDirection]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exposureLocked().OpenByDirection
}

func (l *PositionLedger) Exposure() ExposureSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exposureLocked()
}

func (l *PositionLedger) exposureLocked() ExposureSnapshot {
	snapshot := ExposureSnapshot{
		OpenTotal:       len(l.open),
		OpenBySymbol:    map[string]int{},
		OpenByDirection: map[domain.TradeDirection]int{},
	}
	for _, trade := range l.open {
		snapshot.OpenBySymbol[trade.Symbol]++
		snapshot.OpenByDirection[trade.Direction]++
	}
	return snapshot
}

// OpenTrades returns copies of the open positions, for persistence and
// reporting. The ledger keeps ownership of the originals.
func (l *PositionLedger) OpenTrades() []*domain.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []*domain.Trade{}
	for _, trade := range l.open {
		out = append(out, trade.DeepCopy())
	}
	return out
}

func (l *PositionLedger) ClosedTrades() []*domain.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []*domain.Trade{}
	for _, trade := range l.closed {
		out = append(out, trade.DeepCopy())
	}
	return out
}
