package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/planner"
	"github.com/eyeonstox/stoxagent/session"
)

// Stocks returns the handler for POST /api/v1/stocks. Only the multi-stock
// bucket of the plan is honored here; a prompt that plans into any other
// bucket gets a plain completion instead of stock data.
func Stocks(mgr *session.Manager, pl *planner.Planner, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.QueryResponse{
				Message: "invalid request",
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		ctx := c.Request.Context()

		plan, err := pl.GeneratePlan(ctx, req.Prompt)
		if err != nil || len(plan.MultiStock) == 0 {
			message, fbErr := pl.Fallback(ctx, req.Prompt)
			if fbErr != nil {
				message = "No stock actions could be planned for this prompt"
			}
			c.JSON(http.StatusOK, models.QueryResponse{
				Message: message,
				Stocks:  []models.StockRecord{},
			})
			return
		}

		c.JSON(http.StatusOK, execMultiStock(ctx, mgr, cfg, plan.MultiStock))
	}
}
