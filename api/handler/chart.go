package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/session"
)

// Chart returns the handler for GET /api/v1/chart.
//
// Query parameters:
//
//	ticker    — required
//	timeframe — optional date range alias (default "12M")
//
// A successful call leaves a visible browser window open on the server; that
// is the product, not a leak.
func Chart(mgr *session.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticker := c.Query("ticker")
		if ticker == "" {
			c.JSON(http.StatusBadRequest, models.QueryResponse{
				Message: "invalid request",
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "ticker query parameter is required",
				},
			})
			return
		}

		timeframe := c.DefaultQuery("timeframe", "12M")

		resp := execChart(c.Request.Context(), mgr, cfg, ticker, timeframe)
		c.JSON(http.StatusOK, resp)
	}
}
