package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/session"
)

// News returns the handler for GET /api/v1/stock/news.
//
// Query parameters:
//
//	symbol — required ticker
//	url    — optional news page override
//	count  — optional item cap (default 5)
func News(mgr *session.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		symbol := c.Query("symbol")
		if symbol == "" {
			c.JSON(http.StatusBadRequest, models.QueryResponse{
				Message: "invalid request",
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "symbol query parameter is required",
				},
			})
			return
		}

		count, _ := strconv.Atoi(c.DefaultQuery("count", "5"))

		resp := execNews(c.Request.Context(), mgr, cfg, symbol, c.Query("url"), count)
		c.JSON(http.StatusOK, resp)
	}
}
