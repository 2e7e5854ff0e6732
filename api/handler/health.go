package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/session"
)

// maxHealthySessions is the open-session count beyond which health degrades;
// each session is a Chrome page (or a whole visible browser), so a pile-up
// means requests are stuck or chart windows are accumulating.
const maxHealthySessions = 20

// Health returns the handler for GET /api/v1/health.
func Health(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		active := mgr.ActiveSessions()

		status := "healthy"
		if active > maxHealthySessions {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:         status,
			Uptime:         mgr.Uptime().Round(time.Second).String(),
			ActiveSessions: active,
			Version:        "0.1.0",
		})
	}
}
