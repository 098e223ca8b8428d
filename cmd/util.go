package cmd

import (
	"database/sql"
	"divmetrics/api"
	"divmetrics/internal/repository"
	"divmetrics/internal/service"
	"divmetrics/internal/util"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	gptRepository, err := repository.NewGptRepository(secrets.ChatGPTApiKey)
	if err != nil {
		return nil, err
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	holdingRepository := repository.NewHoldingRepository()
	userAccountRepository := repository.NewUserAccountRepository(dbConn)
	quoteRepository := repository.NewQuoteRepository()
	priceHistoryRepository := repository.NewPriceHistoryRepository()

	var alpacaRepository repository.AlpacaRepository
	if secrets.Alpaca.ApiKey != "" {
		alpacaRepository = repository.NewAlpacaRepository(secrets.Alpaca.ApiKey, secrets.Alpaca.ApiSecret, secrets.Alpaca.Endpoint)
	}

	apiHandler := &api.ApiHandler{
		Db:                    dbConn,
		UserAccountRepository: userAccountRepository,
		HoldingService:        service.NewHoldingService(dbConn, holdingRepository),
		TradeService:          service.NewTradeService(dbConn, holdingRepository),
		ImportService:         service.NewImportService(dbConn, holdingRepository, gptRepository),
		QuoteService:          service.NewQuoteService(quoteRepository, alpacaRepository),
		RecommendationService: service.NewRecommendationService(priceHistoryRepository),
		JwtDecodeToken:        secrets.Jwt,
	}

	return apiHandler, nil
}
