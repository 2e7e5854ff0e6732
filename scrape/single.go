package scrape

import (
	"encoding/base64"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
	"github.com/eyeonstox/stoxagent/session"
)

// pngBase64Prefix is the canonical start of a base64-encoded PNG.
const pngBase64Prefix = "iVBORw0KGgo"

// captureViewportWidth/Height size the window before the chart screenshot
// so the canvas is fully visible.
const (
	captureViewportWidth  = 800
	captureViewportHeight = 600
)

// Single extracts one symbol page: scalar fields, the performance block,
// the key-stats block, and a best-effort chart capture.
//
// The symbol is read via the primary selector only — absence fails the whole
// operation and nil is returned. The price walks an ordered fallback chain:
// the caller's selector first, then the configured fixed fallbacks; each
// candidate must become visible and then yield non-empty text; first success
// wins. A record is never returned with an empty price.
func Single(s *session.Session, cfg config.ScraperConfig, sel config.SelectorConfig, symbolSelector, priceSelector string) *models.SingleStockRecord {
	if symbolSelector == "" {
		symbolSelector = sel.SymbolHeader
	}
	if priceSelector == "" {
		priceSelector = sel.PriceLast
	}

	symbolEl, err := s.WaitVisible(symbolSelector, cfg.LongWait)
	if err != nil {
		slog.Error("timeout waiting for symbol header", "selector", symbolSelector, "error", err)
		return nil
	}
	symbolText, err := symbolEl.Text()
	if err != nil {
		slog.Error("failed to read symbol text", "error", err)
		return nil
	}
	symbol := strings.TrimSpace(symbolText)

	price := resolvePrice(s, cfg, append([]string{priceSelector}, sel.PriceFallbacks...))
	if price == "" {
		slog.Error("price element not found with any selector", "symbol", symbol)
		return nil
	}

	record := &models.SingleStockRecord{
		Symbol: symbol,
		Price:  price + " USD",
	}

	// Performance and key stats come from the rendered HTML; both are
	// best-effort and leave the blocks empty on failure.
	if html, htmlErr := s.HTML(); htmlErr == nil {
		record.Performance = ParsePerformanceBlock(html, sel.PerfContainer)
		record.KeyStats = ParseKeyStats(html, sel.StatLabel, sel.StatValue)
	} else {
		slog.Warn("could not read rendered page for performance/stats", "error", htmlErr)
	}

	record.ChartBase64 = captureChart(s, cfg, sel, symbol)

	return record
}

// resolvePrice walks the candidate selectors in order: wait for visibility,
// then for non-empty text, accept the first success.
func resolvePrice(s *session.Session, cfg config.ScraperConfig, candidates []string) string {
	return firstNonEmpty(candidates, func(selector string) (string, bool) {
		el, err := s.WaitVisible(selector, cfg.LongWait)
		if err != nil {
			return "", false
		}
		text, err := s.WaitNonEmptyText(el, cfg.LongWait)
		if err != nil {
			return "", false
		}
		return text, true
	})
}

// firstNonEmpty returns the first non-empty text the lookup yields, in
// candidate order, or "" once every candidate is exhausted.
func firstNonEmpty(candidates []string, lookup func(selector string) (string, bool)) string {
	for _, candidate := range candidates {
		if text, ok := lookup(candidate); ok && text != "" {
			return text
		}
	}
	return ""
}

// ParsePerformanceBlock scans the containers matching containerSel and keeps
// those with exactly two child spans: label then value. Containers with any
// other child count are silently skipped. Page order is preserved.
func ParsePerformanceBlock(html, containerSel string) models.LabelValues {
	var perf models.LabelValues
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("could not parse page for performance block", "error", err)
		return perf
	}

	doc.Find(containerSel).Each(func(_ int, container *goquery.Selection) {
		spans := container.ChildrenFiltered("span")
		if spans.Length() != 2 {
			return
		}
		label := strings.TrimSpace(spans.Eq(0).Text())
		value := strings.TrimSpace(spans.Eq(1).Text())
		if label != "" && value != "" {
			perf.Set(label, value)
		}
	})
	return perf
}

// ParseKeyStats zips the label column against the value column positionally.
// Mismatched lengths truncate to the shorter side; nothing is padded.
func ParseKeyStats(html, labelSel, valueSel string) models.LabelValues {
	var stats models.LabelValues
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("could not parse page for key stats", "error", err)
		return stats
	}

	labels := doc.Find(labelSel)
	values := doc.Find(valueSel)
	n := labels.Length()
	if values.Length() < n {
		n = values.Length()
	}
	for i := 0; i < n; i++ {
		label := strings.TrimSpace(labels.Eq(i).Text())
		value := strings.TrimSpace(values.Eq(i).Text())
		if label != "" {
			stats.Set(label, value)
		}
	}
	return stats
}

// captureChart screenshots the first chart canvas through a temporary file,
// base64-encodes it, and validates the PNG header. Every step is
// best-effort: any failure degrades to "no chart" and the temporary file is
// deleted unconditionally once written.
func captureChart(s *session.Session, cfg config.ScraperConfig, sel config.SelectorConfig, symbol string) string {
	if err := s.WaitPresent(sel.ChartCanvas, cfg.ElementTimeout); err != nil {
		slog.Warn("timeout waiting for chart canvas", "error", err)
		return ""
	}
	canvases, err := s.Elements(sel.ChartCanvas)
	if err != nil || len(canvases) == 0 {
		slog.Warn("no canvas elements found for chart")
		return ""
	}

	if err := s.SetViewport(captureViewportWidth, captureViewportHeight); err != nil {
		slog.Warn("could not resize viewport for chart capture", "error", err)
	}

	shot, err := s.ScreenshotElement(canvases[0])
	if err != nil {
		slog.Warn("chart screenshot failed", "error", err)
		return ""
	}

	tmp, err := os.CreateTemp("", symbol+"_chart_*.png")
	if err != nil {
		slog.Warn("could not create temporary chart file", "error", err)
		return ""
	}
	tmpPath := tmp.Name()
	defer func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil {
			slog.Warn("could not delete temporary chart file", "path", tmpPath, "error", removeErr)
		}
	}()

	if _, err := tmp.Write(shot); err != nil {
		_ = tmp.Close()
		slog.Warn("could not write temporary chart file", "error", err)
		return ""
	}
	if err := tmp.Close(); err != nil {
		slog.Warn("could not close temporary chart file", "error", err)
		return ""
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		slog.Warn("could not read back temporary chart file", "error", err)
		return ""
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	if !ValidPNGBase64(encoded) {
		slog.Warn("invalid chart image captured", "symbol", symbol)
		return ""
	}
	slog.Info("chart screenshot captured", "symbol", symbol, "bytes", len(data))
	return encoded
}

// ValidPNGBase64 reports whether the encoded payload starts with the
// canonical PNG base64 header.
func ValidPNGBase64(encoded string) bool {
	return strings.HasPrefix(encoded, pngBase64Prefix)
}
