package api

import (
	"fmt"

	"signalbrain/internal/calculator"
	"signalbrain/internal/domain"

	"github.com/gin-gonic/gin"
)

type scoreStrategiesRequest struct {
	// Strategies are loosely-typed diagnostic records; field-name
	// normalization happens in the calculator's ingestion boundary.
	Strategies []map[string]interface{} `json:"strategies"`
	// Priors, when omitted, are computed from this batch - which couples
	// every score to the batch's composition.
	Priors *domain.ScorePriors `json:"priors"`
}

type scoreStrategiesResponse struct {
	Scores []domain.StrategyScore `json:"scores"`
}

func (m ApiHandler) scoreStrategies(c *gin.Context) {
	var requestBody scoreStrategiesRequest
	err := c.BindJSON(&requestBody)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse scoring request: %w", err), c, 400)
		return
	}

	scores := calculator.ScoreStrategiesFromDiagnostics(requestBody.Strategies, requestBody.Priors)

	c.JSON(200, scoreStrategiesResponse{Scores: scores})
}
