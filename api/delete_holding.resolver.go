package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (m ApiHandler) deleteHolding(c *gin.Context) {
	holdingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid holding id: %w", err), c, 400)
		return
	}

	if err := m.HoldingService.DeleteHolding(c.Request.Context(), holdingID, userAccountID(c)); err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, map[string]string{"message": "ok"})
}
