package api

import (
	"divmetrics/internal/logger"
	"divmetrics/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type holdingResponse struct {
	ID            uuid.UUID        `json:"id"`
	Symbol        string           `json:"symbol"`
	Amount        decimal.Decimal  `json:"amount"`
	PurchasePrice decimal.Decimal  `json:"purchasePrice"`
	PurchaseDate  string           `json:"purchaseDate"`
	CurrentPrice  decimal.Decimal  `json:"currentPrice"`
	IsBond        bool             `json:"isBond"`
	Notes         *string          `json:"notes,omitempty"`
	Value         decimal.Decimal  `json:"value"`
	Gain          decimal.Decimal  `json:"gain"`
	GainPercent   *decimal.Decimal `json:"gainPercent"`
	ChangePercent *decimal.Decimal `json:"changePercent"`
	ManualPrice   bool             `json:"manualPrice"`
}

type getHoldingsResponse struct {
	Holdings          []holdingResponse `json:"holdings"`
	TotalValue        decimal.Decimal   `json:"totalValue"`
	TotalGain         decimal.Decimal   `json:"totalGain"`
	ManualMode        bool              `json:"manualMode"`
	MarketDataWarning *string           `json:"marketDataWarning,omitempty"`
}

func toHoldingResponse(pv service.PositionValuation) holdingResponse {
	return holdingResponse{
		ID:            pv.Holding.HoldingID,
		Symbol:        pv.Holding.Symbol,
		Amount:        pv.Holding.Amount,
		PurchasePrice: pv.Holding.PurchasePrice,
		PurchaseDate:  pv.Holding.PurchaseDate.Format(time.DateOnly),
		CurrentPrice:  pv.EffectivePrice,
		IsBond:        pv.Holding.IsBond,
		Notes:         pv.Holding.Notes,
		Value:         pv.Value,
		Gain:          pv.Gain,
		GainPercent:   pv.GainPercent,
		ChangePercent: pv.ChangePercent,
		ManualPrice:   pv.ManualPrice,
	}
}

func (m ApiHandler) getHoldings(c *gin.Context) {
	ctx := c.Request.Context()
	manualMode := c.Query("manualMode") == "true"
	refresh := c.Query("refresh") == "true"

	holdings, err := m.HoldingService.ListHoldings(ctx, userAccountID(c))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	var warning *string
	quotes, err := m.QuoteService.GetQuotes(ctx, holdings, manualMode, refresh)
	if err != nil {
		// valuation still works off purchase prices; only an explicit
		// refresh treats a dead market feed as a hard failure
		if refresh {
			returnErrorJson(err, c)
			return
		}
		logger.FromContext(ctx).Warnf("quote fetch failed: %v", err)
		msg := err.Error()
		warning = &msg
		quotes = nil
	}

	valuation := service.ValuePortfolio(holdings, quotes, manualMode)

	out := getHoldingsResponse{
		Holdings:          make([]holdingResponse, 0, len(valuation.Positions)),
		TotalValue:        valuation.TotalValue,
		TotalGain:         valuation.TotalGain,
		ManualMode:        manualMode,
		MarketDataWarning: warning,
	}
	for _, pv := range valuation.Positions {
		out.Holdings = append(out.Holdings, toHoldingResponse(pv))
	}

	c.JSON(200, out)
}
