package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/planner"
	"github.com/eyeonstox/stoxagent/session"
)

// Query returns the handler for POST /api/v1/query, the combined endpoint:
// prompt → plan → route → scrape → optional summary.
//
// Recoverable failures (plan produced nothing, scrape found nothing) still
// answer 200 with a message; only an unusable plan request or an internal
// fault is an HTTP error.
func Query(mgr *session.Manager, pl *planner.Planner, cfg *config.Config) gin.HandlerFunc {
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
		if err != nil {
			// No plan: answer the prompt directly instead of failing.
			slog.Warn("plan generation failed, falling back to plain completion", "error", err)
			message, fbErr := pl.Fallback(ctx, req.Prompt)
			if fbErr != nil {
				c.JSON(http.StatusInternalServerError, models.QueryResponse{
					Message: "Failed to route request",
					Error: &models.ErrorDetail{
						Code:    models.ErrCodeLLMFailure,
						Message: fbErr.Error(),
					},
				})
				return
			}
			c.JSON(http.StatusOK, models.QueryResponse{Message: message})
			return
		}

		route := planner.Route(plan, req.Prompt)
		slog.Info("route selected", "route", route.Kind.String())

		var resp *models.QueryResponse
		switch route.Kind {
		case models.RouteSingleStock:
			resp = execSingleStock(ctx, mgr, cfg, route.Actions)
		case models.RouteMultiStock:
			resp = execMultiStock(ctx, mgr, cfg, route.Actions)
		case models.RouteChart:
			resp = execChart(ctx, mgr, cfg, route.Ticker, route.Timeframe)
		case models.RouteNews:
			resp = execNews(ctx, mgr, cfg, route.Symbol, route.URL, route.Count)
		case models.RouteSector:
			resp = execSector(ctx, mgr, cfg, route.Sector, route.SectorCount)
		default:
			resp = &models.QueryResponse{
				Message: route.Message,
				Stocks:  []models.StockRecord{},
				News:    []models.NewsItem{},
				Data:    []models.SectorRecord{},
			}
		}
		resp.Route = route.Kind.String()

		// The summary is decoration: its failure never degrades the
		// structured payload.
		if route.Kind != models.RouteNone {
			if summary, sumErr := pl.Summarize(ctx, req.Prompt, resp); sumErr == nil {
				resp.Summary = summary
			} else {
				slog.Warn("summary generation failed", "error", sumErr)
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}
