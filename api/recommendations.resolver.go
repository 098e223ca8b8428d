package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) getRecommendations(c *gin.Context) {
	ctx := c.Request.Context()

	max := 0
	if raw := c.Query("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			max = parsed
		}
	}

	holdings, err := m.HoldingService.ListHoldings(ctx, userAccountID(c))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	recommendations, err := m.RecommendationService.GetRecommendations(ctx, holdings, max)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{"recommendations": recommendations})
}
