package api

import (
	"fmt"

	"signalbrain/internal/domain"

	"github.com/gin-gonic/gin"
)

type signalRequest struct {
	Signal      domain.Signal `json:"signal"`
	RegimeLabel string        `json:"regime_label"`
}

func (m ApiHandler) signal(c *gin.Context) {
	var requestBody signalRequest
	err := c.BindJSON(&requestBody)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse signal request: %w", err), c, 400)
		return
	}

	result, err := m.DecisionService.HandleSignal(c, requestBody.Signal, requestBody.RegimeLabel)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, result)
}
