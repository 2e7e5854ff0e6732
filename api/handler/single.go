package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/planner"
	"github.com/eyeonstox/stoxagent/session"
)

// Single returns the handler for POST /api/v1/stock/single.
func Single(mgr *session.Manager, pl *planner.Planner, cfg *config.Config) gin.HandlerFunc {
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
		if err != nil || len(plan.SingleStock) == 0 {
			message, fbErr := pl.Fallback(ctx, req.Prompt)
			if fbErr != nil {
				message = "No single-stock actions could be planned for this prompt"
			}
			c.JSON(http.StatusOK, models.QueryResponse{Message: message})
			return
		}

		c.JSON(http.StatusOK, execSingleStock(ctx, mgr, cfg, plan.SingleStock))
	}
}
