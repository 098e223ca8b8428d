package api

import (
	"divmetrics/internal/db/models/postgres/public/model"
	"divmetrics/internal/service"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (m ApiHandler) updateHolding(c *gin.Context) {
	holdingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid holding id: %w", err), c, 400)
		return
	}

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

	holding, err := m.HoldingService.UpdateHolding(c.Request.Context(), holdingID, input)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	valuation := service.ValuePortfolio([]model.Holding{*holding}, nil, true)
	c.JSON(200, toHoldingResponse(valuation.Positions[0]))
}
