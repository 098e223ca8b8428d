package api

import (
	"database/sql"
	"divmetrics/internal/domain"
	"divmetrics/internal/logger"
	"divmetrics/internal/repository"
	"divmetrics/internal/service"
	"errors"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/qrm"
)

type ApiHandler struct {
	Db                    *sql.DB
	UserAccountRepository repository.UserAccountRepository
	HoldingService        service.HoldingService
	TradeService          service.TradeService
	ImportService         service.ImportService
	QuoteService          service.QuoteService
	RecommendationService service.RecommendationService
	JwtDecodeToken        string
}

// InitializeRouterEngine builds the gin engine without binding a port, so
// the same routes serve both the standalone server and the lambda adapter.
func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.authMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to divmetrics"})
	})
	router.GET("/holdings", m.getHoldings)
	router.POST("/holdings", m.createHolding)
	router.PUT("/holdings/:id", m.updateHolding)
	router.DELETE("/holdings/:id", m.deleteHolding)
	router.POST("/holdings/:id/transact", m.transact)
	router.GET("/holdings/export", m.exportHoldings)
	router.POST("/import", m.importHoldings)
	router.GET("/recommendations", m.getRecommendations)
	router.POST("/quotes/refresh", m.refreshQuotes)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	router := m.InitializeRouterEngine()
	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, statusCodeForError(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Error(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// statusCodeForError maps known domain errors to http statuses; anything
// unrecognized is a 500.
func statusCodeForError(err error) int {
	var validationErr domain.ValidationError
	var insufficientErr domain.InsufficientHoldingError
	var parseErr domain.ImportParseError
	var unavailableErr domain.MarketDataUnavailableError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &insufficientErr):
		return 400
	case errors.As(err, &parseErr):
		return 422
	case errors.As(err, &unavailableErr):
		return 503
	case errors.Is(err, qrm.ErrNoRows):
		return 404
	}

	return 500
}
