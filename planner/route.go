package planner

import (
	"fmt"

	"github.com/eyeonstox/stoxagent/models"
)

// Route defaults applied when the winning bucket's first action omits them.
const (
	DefaultTimeframe   = "1Y"
	DefaultNewsCount   = 5
	DefaultSectorCount = 20
)

// Route selects the single scraping pathway for a plan. Selection is a pure
// function of bucket occupancy with fixed precedence:
//
//	single_stock > multi_stock > chart > news > sector
//
// A plan with several populated buckets only ever takes the highest; the
// producing model does not get to declare the route. When every bucket is
// empty the result is a no-op route carrying the plan's message or a
// generated fallback.
func Route(plan *models.ActionPlan, prompt string) models.RouteResult {
	switch {
	case len(plan.SingleStock) > 0:
		return models.RouteResult{
			Kind:    models.RouteSingleStock,
			Actions: plan.SingleStock,
		}

	case len(plan.MultiStock) > 0:
		return models.RouteResult{
			Kind:    models.RouteMultiStock,
			Actions: plan.MultiStock,
		}

	case len(plan.Chart) > 0:
		first := plan.Chart[0]
		timeframe := first.Timeframe
		if timeframe == "" {
			timeframe = DefaultTimeframe
		}
		return models.RouteResult{
			Kind:      models.RouteChart,
			Actions:   plan.Chart,
			Ticker:    first.Ticker,
			Timeframe: timeframe,
		}

	case len(plan.News) > 0:
		first := plan.News[0]
		return models.RouteResult{
			Kind:    models.RouteNews,
			Actions: plan.News,
			Symbol:  first.Symbol,
			URL:     first.URL,
			Count:   first.Count.Limit(DefaultNewsCount),
		}

	case len(plan.Sector) > 0:
		first := plan.Sector[0]
		count := first.Count
		if count.IsZero() {
			count = models.Count{Value: DefaultSectorCount, Valid: true}
		}
		return models.RouteResult{
			Kind:        models.RouteSector,
			Actions:     plan.Sector,
			Sector:      first.Sector,
			SectorCount: count,
		}

	default:
		message := plan.Message
		if message == "" {
			message = fmt.Sprintf("No relevant stock actions found for '%s'", prompt)
		}
		return models.RouteResult{Kind: models.RouteNone, Message: message}
	}
}
