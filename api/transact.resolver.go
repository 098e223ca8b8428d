package api

import (
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/domain"
	"divmetrics/internal/service"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type transactRequest struct {
	Side   string  `json:"side"`
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
}

type transactResponse struct {
	Closed  bool             `json:"closed"`
	Holding *holdingResponse `json:"holding,omitempty"`
}

func (m ApiHandler) transact(c *gin.Context) {
	holdingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid holding id: %w", err), c, 400)
		return
	}

	var requestBody transactRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	input := service.TransactionInput{
		HoldingID:     holdingID,
		UserAccountID: userAccountID(c),
		Amount:        decimal.NewFromFloat(requestBody.Amount),
		Price:         decimal.NewFromFloat(requestBody.Price),
	}

	var holding *model.Holding
	switch requestBody.Side {
	case "buy":
		holding, err = m.TradeService.Buy(c.Request.Context(), input)
	case "sell":
		holding, err = m.TradeService.Sell(c.Request.Context(), input)
	default:
		err = domain.ValidationError{Field: "side", Reason: "must be buy or sell"}
	}
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := transactResponse{}
	if holding == nil {
		out.Closed = true
	} else {
		valuation := service.ValuePortfolio([]model.Holding{*holding}, nil, true)
		resp := toHoldingResponse(valuation.Positions[0])
		out.Holding = &resp
	}

	c.JSON(200, out)
}
