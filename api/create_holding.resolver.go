package api

import (
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/domain"
	"divmetrics/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type holdingRequest struct {
	Symbol        string   `json:"symbol"`
	Amount        float64  `json:"amount"`
	PurchasePrice float64  `json:"purchasePrice"`
	PurchaseDate  *string  `json:"purchaseDate"`
	CurrentPrice  *float64 `json:"currentPrice"`
	IsBond        bool     `json:"isBond"`
	Notes         *string  `json:"notes"`
}

func (r holdingRequest) toInput(c *gin.Context) (service.HoldingInput, error) {
	input := service.HoldingInput{
		UserAccountID: userAccountID(c),
		Symbol:        r.Symbol,
		Amount:        decimal.NewFromFloat(r.Amount),
		PurchasePrice: decimal.NewFromFloat(r.PurchasePrice),
		IsBond:        r.IsBond,
		Notes:         r.Notes,
	}

	if r.PurchaseDate != nil && *r.PurchaseDate != "" {
		parsed, err := time.Parse(time.DateOnly, *r.PurchaseDate)
		if err != nil {
			return input, domain.ValidationError{Field: "purchaseDate", Reason: "must be formatted yyyy-mm-dd"}
		}
		input.PurchaseDate = parsed
	}
	if r.CurrentPrice != nil {
		price := decimal.NewFromFloat(*r.CurrentPrice)
		input.CurrentPrice = &price
	}

	return input, nil
}

func (m ApiHandler) createHolding(c *gin.Context) {
	var requestBody holdingRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	input, err := requestBody.toInput(c)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	holding, err := m.HoldingService.CreateHolding(c.Request.Context(), input)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	valuation := service.ValuePortfolio([]model.Holding{*holding}, nil, true)
	c.JSON(200, toHoldingResponse(valuation.Positions[0]))
}
