package api

import (
	"github.com/gin-gonic/gin"
)

type importRequest struct {
	Input string `json:"input"`
}

type importResponse struct {
	Created int      `json:"created"`
	Merged  int      `json:"merged"`
	Skipped int      `json:"skipped"`
	Symbols []string `json:"symbols"`
}

func (m ApiHandler) importHoldings(c *gin.Context) {
	var requestBody importRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	result, err := m.ImportService.ImportHoldings(c.Request.Context(), userAccountID(c), requestBody.Input)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := importResponse{
		Created: result.Created,
		Merged:  result.Merged,
		Skipped: result.Skipped,
		Symbols: make([]string, 0, len(result.Holdings)),
	}
	for _, h := range result.Holdings {
		out.Symbols = append(out.Symbols, h.Symbol)
	}

	c.JSON(200, out)
}
