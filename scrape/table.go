// Package scrape holds the five scraping routines: the multi-stock table,
// the single-entity page, the news list, the sector table, and the chart
// display driver. Every routine degrades to an empty or partial result on
// timeout or missing elements; raw errors never cross the package boundary.
package scrape

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-rod/rod"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/session"
)

// TableFields names the per-row selectors for a multi-stock extraction.
type TableFields struct {
	Ticker        string
	Price         string
	ChangePercent string
	Volume        string
}

// TableFieldsFromPlan overlays the plan's field selectors on the configured
// defaults; the plan may name any subset.
func TableFieldsFromPlan(sel config.SelectorConfig, planFields map[string]string) TableFields {
	f := TableFields{
		Ticker:        sel.TableTicker,
		Price:         sel.TablePrice,
		ChangePercent: sel.TableChange,
		Volume:        sel.TableVolume,
	}
	if v := planFields["ticker"]; v != "" {
		f.Ticker = v
	}
	if v := planFields["price"]; v != "" {
		f.Price = v
	}
	if v := planFields["change_percent"]; v != "" {
		f.ChangePercent = v
	}
	if v := planFields["volume"]; v != "" {
		f.Volume = v
	}
	return f
}

// Table reads up to maxRows rows from the current page's stock table.
//
// A scroll to the bottom triggers lazy loading, then two bounded waits make
// sure at least one row and at least one ticker link rendered. A row missing
// any one field is dropped entirely (logged, not fatal) and scraping
// continues. Timeout or zero matched rows yields an empty slice — callers
// treat that as "no data", not as an error.
func Table(s *session.Session, cfg config.ScraperConfig, rowSelector string, fields TableFields, maxRows int) []models.StockRecord {
	s.ScrollToBottom()

	if err := s.WaitPresent(rowSelector, cfg.ElementTimeout); err != nil {
		slog.Error("timeout waiting for stock rows", "selector", rowSelector, "error", err)
		return nil
	}
	if err := s.WaitPresent(fields.Ticker, cfg.NavTimeout); err != nil {
		slog.Error("timeout waiting for ticker links", "selector", fields.Ticker, "error", err)
		return nil
	}

	rows, err := s.Elements(rowSelector)
	if err != nil || len(rows) == 0 {
		slog.Error("no rows matched", "selector", rowSelector, "error", err)
		return nil
	}
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	records := make([]models.StockRecord, 0, len(rows))
	for i, row := range rows {
		record, fieldErr := extractRow(row, fields)
		if fieldErr != nil {
			slog.Warn("dropping row", "row", i+1, "error", fieldErr)
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		slog.Warn("no stock data parsed from rows", "rows", len(rows))
	}
	return records
}

// extractRow pulls the four fields from one row. Any missing field fails the
// whole row.
func extractRow(row *rod.Element, fields TableFields) (models.StockRecord, error) {
	ticker, err := fieldText(row, fields.Ticker)
	if err != nil {
		return models.StockRecord{}, err
	}
	price, err := fieldText(row, fields.Price)
	if err != nil {
		return models.StockRecord{}, err
	}
	change, err := fieldText(row, fields.ChangePercent)
	if err != nil {
		return models.StockRecord{}, err
	}
	volume, err := fieldText(row, fields.Volume)
	if err != nil {
		return models.StockRecord{}, err
	}
	return models.StockRecord{
		Ticker:        ticker,
		Price:         price,
		ChangePercent: change,
		Volume:        volume,
	}, nil
}

// fieldText resolves a selector inside a row without waiting — the row is
// already rendered, so absence means the field is genuinely missing.
func fieldText(row *rod.Element, selector string) (string, error) {
	el, err := row.Sleeper(rod.NotFoundSleeper).Element(selector)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ClickRowLink clicks the link inside the index-th row, used to open the best
// performer after a table extraction. Best-effort for callers: a stale index
// or missing link is an error, not a panic.
func ClickRowLink(s *session.Session, rowSelector, linkSelector string, index int) error {
	rows, err := s.Elements(rowSelector)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(rows) {
		return models.NewScrapeError(models.ErrCodeElementNotFound, "row index out of range", nil)
	}
	el, err := rows[index].Sleeper(rod.NotFoundSleeper).Element(linkSelector)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeElementNotFound, "no link in row", err)
	}
	return clickElement(el)
}

// ParseChangePercent coerces a raw change string ("+2.3%") to a float by
// stripping the percent sign and a leading plus. The bool reports whether
// the value parsed.
func ParseChangePercent(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.TrimPrefix(cleaned, "+")
	v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BestPerformer returns the record with the maximum parsed change percent
// and its index. Rows whose change fails to parse are skipped for ranking
// (they stay in the caller's slice). Comparison is strict, so the first row
// holding the maximum wins exact ties. ok is false when nothing parsed.
func BestPerformer(records []models.StockRecord) (best models.StockRecord, index int, ok bool) {
	bestChange := 0.0
	for i, r := range records {
		change, parsed := ParseChangePercent(r.ChangePercent)
		if !parsed {
			slog.Warn("failed to parse change_percent", "ticker", r.Ticker, "raw", r.ChangePercent)
			continue
		}
		if !ok || change > bestChange {
			bestChange = change
			best = r
			index = i
			ok = true
		}
	}
	return best, index, ok
}

// BestChange reports the best record's parsed change value, for the summary
// line. Mirrors BestPerformer's selection rule.
func BestChange(records []models.StockRecord) (float64, bool) {
	best, _, ok := BestPerformer(records)
	if !ok {
		return 0, false
	}
	v, _ := ParseChangePercent(best.ChangePercent)
	return v, true
}
