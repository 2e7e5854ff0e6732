package scrape

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/session"
)

// timeframeTabs maps an uppercased timeframe alias to the site's date-range
// tab identifier. Unknown aliases (including "1Y", which the site labels
// "12M") resolve through the default.
var timeframeTabs = map[string]string{
	"1D":  "date-range-tab-1D",
	"5D":  "date-range-tab-5D",
	"1M":  "date-range-tab-1M",
	"3M":  "date-range-tab-3M",
	"6M":  "date-range-tab-6M",
	"YTD": "date-range-tab-YTD",
	"12M": "date-range-tab-12M",
	"5Y":  "date-range-tab-60M",
	"ALL": "date-range-tab-ALL",
}

const defaultTimeframeTab = "date-range-tab-12M"

// ResolveTimeframe maps a user-facing timeframe to the chart toolbar's tab
// identifier, case-insensitively, defaulting to the 12-month tab.
func ResolveTimeframe(timeframe string) string {
	if tab, ok := timeframeTabs[strings.ToUpper(strings.TrimSpace(timeframe))]; ok {
		return tab
	}
	return defaultTimeframeTab
}

// Chart drives the site's own search UI to display a ticker's chart in the
// session's (visible) browser, then switches the chart to the requested
// timeframe.
//
// The three search steps are required: any failure there returns an error
// result. Everything after — tab switch, iframe hop, render confirmation —
// is best-effort: the chart is already on screen, so those failures are
// logged and the result still reports success. The caller must leave the
// session open on success; the whole point is a window the user can look at.
func Chart(s *session.Session, cfg config.ScraperConfig, sel config.SelectorConfig, ticker, timeframe string) models.ChartResult {
	slog.Info("displaying chart", "ticker", ticker, "timeframe", timeframe)

	// Step 1: open the search overlay.
	searchBtn, err := s.WaitVisible(sel.SearchButton, cfg.ElementTimeout)
	if err != nil {
		return chartError("search button not found", err)
	}
	if err := clickElement(searchBtn); err != nil {
		return chartError("could not open search", err)
	}

	// Step 2: type the ticker.
	input, err := s.WaitVisible(sel.SearchInput, cfg.ElementTimeout)
	if err != nil {
		return chartError("search input not found", err)
	}
	if err := input.SelectAllText(); err != nil {
		return chartError("could not clear search input", err)
	}
	if err := input.Input(ticker); err != nil {
		return chartError("could not type ticker into search", err)
	}
	time.Sleep(cfg.SettleDelay)

	// Step 3: open the first suggestion.
	result, err := s.WaitVisible(sel.SearchResult, cfg.ElementTimeout)
	if err != nil {
		return chartError("no search results for "+ticker, err)
	}
	if err := clickElement(result); err != nil {
		return chartError("could not open search result", err)
	}

	// The chart is now rendering; from here on nothing is fatal.
	time.Sleep(time.Second)
	s.SwitchToLatestPage()

	if s.EnterFrame(sel.ChartIframe) {
		slog.Info("chart rendered inside iframe")
	}
	if err := s.WaitPresent(sel.ChartContent, cfg.ElementTimeout); err != nil {
		slog.Warn("chart content area not confirmed", "error", err)
	}

	applyTimeframe(s, cfg, sel, timeframe)

	return models.ChartResult{
		Status: "success",
		Message: fmt.Sprintf(
			"Displaying %s chart for %s. Close the browser manually.",
			ticker, timeframe,
		),
	}
}

// applyTimeframe switches the chart's date range via the toolbar tab. The
// tab is clicked through script because the toolbar intercepts synthetic
// mouse events; a canvas redraw (size change) within the poll window
// confirms the switch took.
func applyTimeframe(s *session.Session, cfg config.ScraperConfig, sel config.SelectorConfig, timeframe string) {
	if err := s.WaitPresent(sel.TimeframeTabs, cfg.ElementTimeout); err != nil {
		slog.Warn("timeframe toolbar not found, chart stays on default range", "error", err)
		return
	}

	tab := ResolveTimeframe(timeframe)
	before := canvasSize(s, sel.GenericCanvas)

	has, el, err := s.Has(fmt.Sprintf("button[data-name='%s']", tab))
	if err != nil || !has {
		slog.Warn("timeframe tab not present", "tab", tab)
		return
	}
	if _, err := el.Eval(`() => this.click()`); err != nil {
		slog.Warn("timeframe tab click failed", "tab", tab, "error", err)
		return
	}
	slog.Info("timeframe selected", "tab", tab)

	for i := 0; i < 20; i++ {
		time.Sleep(500 * time.Millisecond)
		if after := canvasSize(s, sel.GenericCanvas); after != "" && after != before {
			slog.Info("chart redrawn for new timeframe", "size", after)
			return
		}
	}
	slog.Warn("chart redraw not confirmed within poll window", "tab", tab)
}

// canvasSize fingerprints the first chart canvas as "WxH", empty when no
// canvas is readable.
func canvasSize(s *session.Session, canvasSel string) string {
	return s.EvalString(fmt.Sprintf(`() => {
		const c = document.querySelector(%q);
		return c ? c.width + "x" + c.height : "";
	}`, canvasSel))
}

func clickElement(el *rod.Element) error {
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func chartError(msg string, err error) models.ChartResult {
	slog.Error("chart display failed", "reason", msg, "error", err)
	return models.ChartResult{Status: "error", Message: msg}
}
