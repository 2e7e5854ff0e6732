package scrape

import (
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/session"
)

// Slugify derives the sector URL slug: lowercase, spaces to hyphens.
func Slugify(sectorName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(sectorName)), " ", "-")
}

// sectorLimit resolves the requested count to a concrete row limit, or -1
// for "all". Zero counts mean all rows, same as the sentinel; a malformed
// count is logged and also treated as "all".
func sectorLimit(count models.Count) int {
	switch {
	case count.Valid && count.Value > 0:
		return count.Value
	case count.Valid || count.All || count.IsZero():
		return -1
	default:
		slog.Warn("invalid sector count, defaulting to all rows", "raw", count.Raw)
		return -1
	}
}

// scrollDone reports whether the lazy-load pagination can stop: a concrete
// target count has been reached, or a scroll produced no new rows. limit < 0
// means all rows, where only a plateau ends the loop.
func scrollDone(prev, rows, limit int) bool {
	if limit > 0 && rows >= limit {
		return true
	}
	return rows == prev
}

// Sector scrapes the full table for a named category. The schema is read
// from the page per request: column headers drive the record keys, capped at
// models.SectorHeaderCap. Lazy-loaded rows are pulled in by a bounded
// scroll loop that stops early once the target count is reached (when
// concrete) or the row count stops growing.
func Sector(s *session.Session, cfg config.ScraperConfig, sel config.SelectorConfig, site config.SiteConfig, sectorName string, count models.Count) []models.SectorRecord {
	slug := Slugify(sectorName)
	url := site.SectorURLBase + slug + "/"
	slog.Info("navigating to sector page", "url", url)

	if err := s.Navigate(url); err != nil {
		slog.Error("failed to open sector page", "url", url, "error", err)
		return nil
	}

	// The site silently redirects bad category names; verify the address
	// actually landed on the requested sector before reading anything.
	currentURL := s.CurrentURL()
	if !strings.Contains(currentURL, slug) {
		slog.Error("sector navigation landed on wrong page",
			"expected", url, "got", currentURL)
		return nil
	}

	// Give any anti-bot interstitial a chance to clear.
	if err := s.WaitPresent("body", cfg.NavTimeout); err != nil {
		slog.Error("sector page never rendered", "url", url, "error", err)
		return nil
	}

	tableSel := sel.SectorTablePrimary
	if err := s.WaitPresent(tableSel+" tbody tr", cfg.NavTimeout); err != nil {
		tableSel = sel.SectorTableFallback
		if err := s.WaitPresent(tableSel+" tbody tr", cfg.NavTimeout); err != nil {
			slog.Error("no sector table found", "url", url, "error", err)
			return nil
		}
		slog.Info("fell back to generic table selector", "selector", tableSel)
	}

	limit := sectorLimit(count)
	rowSel := tableSel + " tbody tr"

	prevCount := 0
	for i := 0; i < cfg.SectorScrollRounds; i++ {
		s.ScrollToBottom()
		time.Sleep(cfg.SettleDelay)

		rows, err := s.Elements(rowSel)
		if err != nil {
			slog.Warn("failed to count sector rows", "error", err)
			break
		}
		if scrollDone(prevCount, len(rows), limit) {
			slog.Info("sector scroll finished", "rows", len(rows), "limit", limit)
			break
		}
		prevCount = len(rows)
	}

	s.ScrollToTop()
	time.Sleep(time.Second)

	html, err := s.HTML()
	if err != nil {
		slog.Error("failed to read sector page", "url", url, "error", err)
		return nil
	}

	records, err := ParseSectorTable(html, tableSel, sectorName, limit)
	if err != nil {
		slog.Error("sector table parse failed", "sector", sectorName, "error", err)
		return nil
	}
	if len(records) == 0 {
		slog.Warn("no data scraped for sector", "sector", sectorName)
	}
	return records
}

// ParseSectorTable builds records from the rendered table HTML. Headers come
// from the table's header row, truncated to models.SectorHeaderCap; each row
// zips at most min(cells, headers) pairs and gets the injected "Sector" key.
// limit < 0 means all rows. Missing headers are a distinct failure: the
// operation aborts (logged as an error by the caller) rather than guessing
// a schema.
func ParseSectorTable(html, tableSel, sectorName string, limit int) ([]models.SectorRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse sector page HTML", err)
	}

	table := doc.Find(tableSel).First()

	var headers []string
	table.Find("thead tr th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	if len(headers) == 0 {
		return nil, models.NewScrapeError(models.ErrCodeElementNotFound, "no table headers found", nil)
	}
	if len(headers) > models.SectorHeaderCap {
		headers = headers[:models.SectorHeaderCap]
	}

	var records []models.SectorRecord
	table.Find("tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if limit >= 0 && i >= limit {
			return false
		}
		cells := row.Find("td")
		if cells.Length() == 0 {
			return true
		}

		n := cells.Length()
		if n > len(headers) {
			n = len(headers)
		}
		record := make(models.SectorRecord, n+1)
		for j := 0; j < n; j++ {
			record[headers[j]] = strings.TrimSpace(cells.Eq(j).Text())
		}
		record["Sector"] = sectorName
		records = append(records, record)
		return true
	})

	return records, nil
}
