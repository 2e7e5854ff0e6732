package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/session"
)

// Sector returns the handler for GET /api/v1/sector.
//
// Query parameters:
//
//	name  — required sector name, e.g. "Technology Services"
//	count — optional row cap: a number or "all" (default 20)
func Sector(mgr *session.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, models.QueryResponse{
				Message: "invalid request",
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "name query parameter is required",
				},
			})
			return
		}

		count := parseCountParam(c.DefaultQuery("count", "20"))

		resp := execSector(c.Request.Context(), mgr, cfg, name, count)
		c.JSON(http.StatusOK, resp)
	}
}

// parseCountParam mirrors the plan-side count semantics for the URL form:
// a number, "all", or garbage kept raw for the scraper to log and treat
// as "all".
func parseCountParam(raw string) models.Count {
	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, "all") {
		return models.Count{All: true, Raw: trimmed}
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return models.Count{Value: n, Valid: true, Raw: trimmed}
	}
	return models.Count{Raw: trimmed}
}
