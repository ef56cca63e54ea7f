package api

import (
	"signalbrain/internal/domain"

	"github.com/gin-gonic/gin"
)

type positionsResponse struct {
	CountOpen       int                           `json:"count_open"`
	CountClosed     int                           `json:"count_closed"`
	OpenBySymbol    map[string]int                `json:"open_by_symbol"`
	OpenByDirection map[domain.TradeDirection]int `json:"open_by_direction"`
	OpenTrades      []domain.TradeRecord          `json:"open_trades"`
}

func (m ApiHandler) positions(c *gin.Context) {
	ledger := m.DecisionService.Ledger()

	openTrades := []domain.TradeRecord{}
	for _, trade := range ledger.OpenTrades() {
		openTrades = append(openTrades, trade.ToRecord())
	}

	c.JSON(200, positionsResponse{
		CountOpen:       ledger.CountOpen(),
		CountClosed:     ledger.CountClosed(),
		OpenBySymbol:    ledger.OpenBySymbol(),
		OpenByDirection: ledger.OpenByDirection(),
		OpenTrades:      openTrades,
	})
}
