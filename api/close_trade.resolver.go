package api

import (
	"fmt"

	"signalbrain/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type closeTradeRequest struct {
	TradeID   string           `json:"trade_id"`
	Event     string           `json:"event"`
	ExitPrice *decimal.Decimal `json:"exit_price"`
}

func (m ApiHandler) closeTrade(c *gin.Context) {
	var requestBody closeTradeRequest
	err := c.BindJSON(&requestBody)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse close request: %w", err), c, 400)
		return
	}

	event := domain.TradeEvent(requestBody.Event)
	if event == "" {
		event = domain.TradeEvent_PositionClosed
	}
	switch event {
	case domain.TradeEvent_TpFinalHit,
		domain.TradeEvent_StopLossHit,
		domain.TradeEvent_PositionClosed:
	default:
		returnErrorJsonCode(fmt.Errorf("event %q is not a terminal trade event", requestBody.Event), c, 400)
		return
	}

	result, err := m.DecisionService.CloseTrade(c, requestBody.TradeID, event, requestBody.ExitPrice)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	if !result.Found {
		c.JSON(404, result)
		return
	}

	c.JSON(200, result)
}
