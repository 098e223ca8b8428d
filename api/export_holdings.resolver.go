package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

type exportRow struct {
	Symbol        string `csv:"Symbol"`
	Amount        string `csv:"Amount"`
	PurchasePrice string `csv:"PurchasePrice"`
	PurchaseDate  string `csv:"PurchaseDate"`
	CurrentPrice  string `csv:"CurrentPrice"`
	IsBond        bool   `csv:"IsBond"`
	Notes         string `csv:"Notes"`
}

func (m ApiHandler) exportHoldings(c *gin.Context) {
	holdings, err := m.HoldingService.ListHoldings(c.Request.Context(), userAccountID(c))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	rows := make([]exportRow, 0, len(holdings))
	for _, h := range holdings {
		row := exportRow{
			Symbol:        h.Symbol,
			Amount:        h.Amount.String(),
			PurchasePrice: h.PurchasePrice.String(),
			PurchaseDate:  h.PurchaseDate.Format(time.DateOnly),
			IsBond:        h.IsBond,
		}
		if h.CurrentPrice != nil {
			row.CurrentPrice = h.CurrentPrice.String()
		}
		if h.Notes != nil {
			row.Notes = *h.Notes
		}
		rows = append(rows, row)
	}

	csvContent, err := gocsv.MarshalString(&rows)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=holdings.csv")
	c.Data(200, "text/csv", []byte(csvContent))
}
