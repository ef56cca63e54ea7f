package api

import (
	"database/sql"
	"fmt"

	"signalbrain/internal/app"
	"signalbrain/internal/logger"
	l3_service "signalbrain/internal/service/l3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type ApiHandler struct {
	Db                *sql.DB
	DecisionService   l3_service.DecisionService
	StrategyReportApp app.StrategyReportApp
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to signalbrain"})
	})
	router.POST("/signal", m.signal)
	router.POST("/closeTrade", m.closeTrade)
	router.GET("/positions", m.positions)
	router.POST("/scoreStrategies", m.scoreStrategies)
	router.GET("/strategyReport", m.strategyReport)

	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	logger.Error(err)
	c.AbortWithStatusJSON(500, gin.H{
		"error": err.Error(),
	})
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.Error(err)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}
