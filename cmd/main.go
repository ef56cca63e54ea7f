package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"signalbrain/api"
	"signalbrain/internal/app"
	"signalbrain/internal/domain"
	"signalbrain/internal/logger"
	"signalbrain/internal/repository"
	l2_service "signalbrain/internal/service/l2"
	l3_service "signalbrain/internal/service/l3"
	"signalbrain/internal/util"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

type handler struct {
	Db                *sql.DB
	PositionLedger    *l2_service.PositionLedger
	TradeRepository   repository.TradeRepository
	DecisionService   l3_service.DecisionService
	StrategyReportApp app.StrategyReportApp
}

func initializeDependencies() (*handler, error) {
	dbConn, err := sql.Open("postgres", util.ConnectionStrFromEnv())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	err = repository.EnsureSchema(dbConn)
	if err != nil {
		return nil, err
	}

	tradeRepository := repository.NewTradeRepository(dbConn)

	ledger := l2_service.NewPositionLedger()
	openTrades, err := tradeRepository.ListOpen()
	if err != nil {
		return nil, err
	}
	closedTrades, err := tradeRepository.ListClosed()
	if err != nil {
		return nil, err
	}
	err = ledger.Rehydrate(openTrades, closedTrades)
	if err != nil {
		return nil, err
	}

	limits := domain.DefaultRiskLimits()
	decisionService := l3_service.NewDecisionService(ledger, limits, tradeRepository)

	return &handler{
		Db:                dbConn,
		PositionLedger:    ledger,
		TradeRepository:   tradeRepository,
		DecisionService:   decisionService,
		StrategyReportApp: app.NewStrategyReportApp(tradeRepository, nil),
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "signalbrain",
		Short: "trade lifecycle governance and strategy scoring engine",
	}

	var port int
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the http api",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := initializeDependencies()
			if err != nil {
				return err
			}

			apiHandler := api.ApiHandler{
				Db:                h.Db,
				DecisionService:   h.DecisionService,
				StrategyReportApp: h.StrategyReportApp,
			}
			logger.Info("starting api on port %d", port)
			return apiHandler.StartApi(port)
		},
	}
	serveCmd.Flags().IntVar(&port, "port", 3009, "port for the http api")

	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "score all strategies from closed trades and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := initializeDependencies()
			if err != nil {
				return err
			}

			report, err := h.StrategyReportApp.GenerateReport(context.Background())
			if err != nil {
				return err
			}

			util.Pprint(report)
			return nil
		},
	}

	var outPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export strategy scores as csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := initializeDependencies()
			if err != nil {
				return err
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}

			return h.StrategyReportApp.WriteScoresCsv(context.Background(), out)
		},
	}
	exportCmd.Flags().StringVar(&outPath, "out", "", "write csv here instead of stdout")

	rootCmd.AddCommand(serveCmd, scoreCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
