// Package handler wires the HTTP endpoints to the planner and the scrapers.
// The combined endpoint and the per-capability endpoints share the executors
// in this file, so route behavior cannot drift between them.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/scrape"
	"github.com/eyeonstox/stoxagent/session"
)

// execMultiStock runs the multi-stock bucket: navigate to the movers page,
// extract the table, optionally click through to the best performer. The
// response message carries a formatted table plus a best-performer line.
func execMultiStock(ctx context.Context, mgr *session.Manager, cfg *config.Config, actions []models.Action) *models.QueryResponse {
	s, err := mgr.NewSession(ctx)
	if err != nil {
		return degraded("Failed to start browser session", err)
	}
	defer s.Close()

	var stocks []models.StockRecord
	bestIndex := -1

	for _, action := range actions {
		switch action.Kind {
		case models.ActionNavigate:
			slog.Info("navigating to movers page", "url", action.URL)
			if navErr := s.Navigate(action.URL); navErr != nil {
				return degraded("Failed to load stock data", navErr)
			}
			if waitErr := s.WaitPresent(cfg.Selectors.TickerPresent, cfg.Scraper.NavTimeout); waitErr != nil {
				return &models.QueryResponse{
					Message: "Failed to load stock data: Timeout",
					Stocks:  []models.StockRecord{},
				}
			}

		case models.ActionExtract:
			fields := scrape.TableFieldsFromPlan(cfg.Selectors, action.Fields)
			maxRows := action.Count.Limit(cfg.Scraper.MaxRows)
			stocks = scrape.Table(s, cfg.Scraper, cfg.Selectors.TableRow, fields, maxRows)
			if _, idx, ok := scrape.BestPerformer(stocks); ok {
				bestIndex = idx
			}

		case models.ActionClick:
			if bestIndex < 0 {
				continue
			}
			if clickErr := scrape.ClickRowLink(s, cfg.Selectors.TableRow, cfg.Selectors.TableTicker, bestIndex); clickErr != nil {
				slog.Warn("could not open best performer", "error", clickErr)
			}
		}
	}

	if len(stocks) == 0 {
		return &models.QueryResponse{
			Message: "No valid stock data found",
			Stocks:  []models.StockRecord{},
		}
	}

	var b strings.Builder
	b.WriteString("Top Stocks:\n")
	for _, st := range stocks {
		fmt.Fprintf(&b, "%s: Price: %s, Change: %s, Volume: %s\n",
			st.Ticker, st.Price, st.ChangePercent, st.Volume)
	}
	if best, _, ok := scrape.BestPerformer(stocks); ok {
		change, _ := scrape.ParseChangePercent(best.ChangePercent)
		fmt.Fprintf(&b, "\nBest performing: %s (%+.2f%%)", best.Ticker, change)
	}

	return &models.QueryResponse{Message: b.String(), Stocks: stocks}
}

// execSingleStock runs the single-stock bucket: navigate to the symbol page
// and extract scalars, performance, key stats, and the chart capture.
func execSingleStock(ctx context.Context, mgr *session.Manager, cfg *config.Config, actions []models.Action) *models.QueryResponse {
	s, err := mgr.NewSession(ctx)
	if err != nil {
		return degraded("Failed to start browser session", err)
	}
	defer s.Close()

	for _, action := range actions {
		switch action.Kind {
		case models.ActionNavigateSingle:
			slog.Info("navigating to symbol page", "url", action.URL)
			if navErr := s.Navigate(action.URL); navErr != nil {
				return degraded("Failed to load stock data", navErr)
			}
			// A known ticker lands on the symbol page; anything else
			// falls back to a portfolio-style page, which still counts
			// as loaded.
			if waitErr := s.WaitPresent(cfg.Selectors.SymbolHeader, cfg.Scraper.ElementTimeout); waitErr != nil {
				if fbErr := s.WaitPresent(cfg.Selectors.TickerPresent, cfg.Scraper.ElementTimeout); fbErr != nil {
					return &models.QueryResponse{
						Message: "Failed to load stock data: Timeout",
						Stocks:  []models.StockRecord{},
					}
				}
			}

		case models.ActionExtractSingle:
			symbolSel := action.Fields["symbol"]
			priceSel := action.Fields["price"]
			record := scrape.Single(s, cfg.Scraper, cfg.Selectors, symbolSel, priceSel)
			if record == nil {
				return &models.QueryResponse{Message: "No stock data found"}
			}
			return &models.QueryResponse{
				Message: fmt.Sprintf(
					"Stock Info:\nSymbol: %s\nPrice: %s\nPerformance entries: %d\nKey stats: %d\nChart: %s",
					record.Symbol, record.Price,
					record.Performance.Len(), record.KeyStats.Len(),
					attachedOrNot(record.ChartBase64 != ""),
				),
				Stock: record,
			}
		}
	}

	return &models.QueryResponse{Message: "No stock data found"}
}

// execNews scrapes a symbol's news page and sorts the kept items
// latest-first.
func execNews(ctx context.Context, mgr *session.Manager, cfg *config.Config, symbol, url string, count int) *models.QueryResponse {
	if url == "" {
		url = cfg.Site.SymbolURLBase + strings.ToUpper(symbol) + "/news/"
	}
	if count <= 0 {
		count = 5
	}

	s, err := mgr.NewSession(ctx)
	if err != nil {
		return degraded("Failed to start browser session", err)
	}
	defer s.Close()

	items := scrape.News(s, cfg.Scraper, cfg.Selectors, url, count, cfg.Scraper.NewsRecencyDays)
	if len(items) == 0 {
		return &models.QueryResponse{
			Message: "Invalid stock ticker for news",
			News:    []models.NewsItem{},
		}
	}

	scrape.SortNewsDesc(items)
	return &models.QueryResponse{
		Message: fmt.Sprintf("Latest %d news for %s", len(items), symbol),
		News:    items,
	}
}

// execSector scrapes a sector table. A result where no record carries the
// "Symbol" column is treated as invalid: the page rendered something, but
// not the stock listing we asked for.
func execSector(ctx context.Context, mgr *session.Manager, cfg *config.Config, sectorName string, count models.Count) *models.QueryResponse {
	s, err := mgr.NewSession(ctx)
	if err != nil {
		return degraded("Failed to start browser session", err)
	}
	defer s.Close()

	records := scrape.Sector(s, cfg.Scraper, cfg.Selectors, cfg.Site, sectorName, count)
	if len(records) == 0 || !anyHasSymbol(records) {
		return &models.QueryResponse{
			Message: fmt.Sprintf("No valid stock data found for sector '%s'", sectorName),
			Data:    []models.SectorRecord{},
		}
	}

	return &models.QueryResponse{
		Message: fmt.Sprintf("Found %d stocks in %s sector", len(records), sectorName),
		Data:    records,
	}
}

// execChart opens a dedicated visible browser and drives the chart UI. On
// success the browser is deliberately left open for the user; on error it is
// torn down like any other session.
func execChart(ctx context.Context, mgr *session.Manager, cfg *config.Config, ticker, timeframe string) *models.QueryResponse {
	s, err := mgr.NewVisibleSession(ctx)
	if err != nil {
		return degraded("Failed to start chart browser", err)
	}

	result := scrape.Chart(s, cfg.Scraper, cfg.Selectors, ticker, timeframe)
	if result.Status != "success" {
		s.Close()
	}

	return &models.QueryResponse{Message: result.Message, Chart: &result}
}

func anyHasSymbol(records []models.SectorRecord) bool {
	for _, r := range records {
		if _, ok := r["Symbol"]; ok {
			return true
		}
	}
	return false
}

func attachedOrNot(attached bool) string {
	if attached {
		return "Attached"
	}
	return "Not found"
}

// degraded builds the 200-with-error-detail response for recoverable
// failures. The structured detail keeps the error code visible without
// turning a scrape hiccup into an HTTP failure.
func degraded(message string, err error) *models.QueryResponse {
	slog.Error(message, "error", err)
	resp := &models.QueryResponse{Message: message}
	if scrapeErr, ok := err.(*models.ScrapeError); ok {
		resp.Error = scrapeErr.ToDetail()
	} else if err != nil {
		resp.Error = &models.ErrorDetail{Code: models.ErrCodeInternal, Message: err.Error()}
	}
	return resp
}
