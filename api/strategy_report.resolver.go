package api

import (
	"github.com/gin-gonic/gin"
)

func (m ApiHandler) strategyReport(c *gin.Context) {
	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		err := m.StrategyReportApp.WriteScoresCsv(c, c.Writer)
		if err != nil {
			returnErrorJson(err, c)
		}
		return
	}

	report, err := m.StrategyReportApp.GenerateReport(c)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, report)
}
