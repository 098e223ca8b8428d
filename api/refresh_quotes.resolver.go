package api

import (
	"divmetrics/internal/domain"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) refreshQuotes(c *gin.Context) {
	ctx := c.Request.Context()

	holdings, err := m.HoldingService.ListHoldings(ctx, userAccountID(c))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	quotes, err := m.QuoteService.GetQuotes(ctx, holdings, false, true)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	if quotes == nil {
		quotes = map[string]domain.Quote{}
	}

	c.JSON(200, gin.H{"quotes": quotes})
}
