package scrape

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/session"
)

// newsDateLayout is the fixed date format the news page renders.
const newsDateLayout = "Jan 2, 2006"

// normalizedTimeLayout is the shape of successfully parsed news times.
const normalizedTimeLayout = "2006-01-02 15:04:05"

// titleTooltipAttr carries the full headline when the visible text is
// truncated.
const titleTooltipAttr = "data-overflow-tooltip-text"

// News navigates to the symbol's news page and extracts up to maxItems
// headline records in page order. A timeout waiting for headline containers
// returns an empty slice, not an error.
func News(s *session.Session, cfg config.ScraperConfig, sel config.SelectorConfig, url string, maxItems, recencyDays int) []models.NewsItem {
	if err := s.Navigate(url); err != nil {
		slog.Error("failed to open news page", "url", url, "error", err)
		return nil
	}
	if err := s.WaitPresent(sel.NewsHeadline, cfg.ElementTimeout); err != nil {
		slog.Warn("timeout waiting for news headlines", "url", url, "error", err)
		return nil
	}

	html, err := s.HTML()
	if err != nil {
		slog.Error("failed to read news page", "url", url, "error", err)
		return nil
	}

	return ParseNewsItems(html, sel.NewsHeadline, maxItems, recencyDays, time.Now())
}

// ParseNewsItems extracts headline records from rendered HTML.
//
// The title comes from the tooltip attribute, falling back to the visible
// text. The link is a nested anchor's href, nil when absent. The date is the
// first following sibling's text parsed against the page's fixed format:
// on success, items older than recencyDays are excluded (continue — later
// items are not assumed chronologically monotonic); on parse failure the raw
// text is kept as the time and the item bypasses the recency filter.
func ParseNewsItems(html, headlineSel string, maxItems, recencyDays int, now time.Time) []models.NewsItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Error("failed to parse news page HTML", "error", err)
		return nil
	}

	cutoff := now.AddDate(0, 0, -recencyDays)
	items := make([]models.NewsItem, 0, maxItems)

	doc.Find(headlineSel).EachWithBreak(func(i int, headline *goquery.Selection) bool {
		if maxItems > 0 && i >= maxItems {
			return false
		}

		title, ok := headline.Attr(titleTooltipAttr)
		if !ok || strings.TrimSpace(title) == "" {
			title = headline.Text()
		}
		title = strings.TrimSpace(title)

		var link *string
		if href, hasHref := headline.Find("a").First().Attr("href"); hasHref {
			trimmed := strings.TrimSpace(href)
			link = &trimmed
		}

		itemTime := ""
		dateText := strings.TrimSpace(headline.NextAllFiltered("span").First().Text())
		if dateText != "" {
			if published, parseErr := time.Parse(newsDateLayout, dateText); parseErr == nil {
				if published.Before(cutoff) {
					return true // too old — skip, keep scanning
				}
				itemTime = published.Format(normalizedTimeLayout)
			} else {
				// Fail-open: keep the raw text, bypass the recency filter.
				itemTime = dateText
			}
		}

		items = append(items, models.NewsItem{
			Title: title,
			Link:  link,
			Time:  itemTime,
		})
		return true
	})

	return items
}

// SortNewsDesc sorts the items latest-first by a plain string compare on the
// time field. When normalized and raw time strings are mixed in one result
// this is not a true chronological sort; that matches the page-facing
// behavior and is deliberately left untouched.
func SortNewsDesc(items []models.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Time > items[j].Time
	})
}
