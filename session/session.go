package session

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/eyeonstox/stoxagent/models"
)

// Session is a per-request render context: one page, opened at the start of
// a route handler and closed (best-effort) at its end. Scrapers never retain
// a session past the call; DOM handles do not outlive teardown.
type Session struct {
	mgr     *Manager
	browser *rod.Browser
	page    *rod.Page
	owns    bool // session owns its browser (visible chart session)
	counted bool // registered in the manager's session gauge
	closed  bool
}

// newSession creates the page, applies stealth and identity settings, and
// warms it on the site home page. Stealth must be injected before the first
// navigation or it never takes effect.
func newSession(ctx context.Context, mgr *Manager, browser *rod.Browser, ownsBrowser bool) (*Session, error) {
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}

	s := &Session{mgr: mgr, browser: browser, page: page, owns: ownsBrowser}

	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	if ua := mgr.browserCfg.UserAgent; ua != "" {
		if uaErr := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); uaErr != nil {
			slog.Warn("failed to set user agent", "error", uaErr)
		}
	}

	// A plausible search-engine Referer for the first navigation.
	if u, parseErr := url.Parse(mgr.site.HomeURL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{
				"Referer": "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()),
			}),
		}.Call(page)
	}

	if vpErr := s.SetViewport(mgr.browserCfg.WindowWidth, mgr.browserCfg.WindowHeight); vpErr != nil {
		slog.Warn("failed to set viewport", "error", vpErr)
	}

	p := page.Context(ctx)
	if navErr := p.Navigate(mgr.site.HomeURL); navErr != nil {
		s.Close()
		return nil, categorizeError(navErr, "failed to open site home")
	}
	if waitErr := s.WaitPresent("body", mgr.navTimeout); waitErr != nil {
		s.Close()
		return nil, waitErr
	}

	return s, nil
}

// Navigate loads a URL in the session's page.
func (s *Session) Navigate(rawURL string) error {
	if err := s.page.Navigate(rawURL); err != nil {
		return categorizeError(err, "navigation to target URL failed")
	}
	return nil
}

// CurrentURL returns the page's address after redirects, empty on failure.
func (s *Session) CurrentURL() string {
	res, err := s.page.Eval(`() => window.location.href`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// HTML returns the rendered DOM as HTML.
func (s *Session) HTML() (string, error) {
	html, err := s.page.HTML()
	if err != nil {
		return "", categorizeError(err, "failed to extract page HTML")
	}
	return html, nil
}

// WaitPresent blocks until at least one element matches the selector or the
// timeout lapses.
func (s *Session) WaitPresent(selector string, timeout time.Duration) error {
	p := s.page.Timeout(timeout)
	defer p.CancelTimeout()
	if _, err := p.Element(selector); err != nil {
		return notFoundError(err, "timeout waiting for "+selector)
	}
	return nil
}

// WaitVisible blocks until an element matching the selector is visible and
// returns it.
func (s *Session) WaitVisible(selector string, timeout time.Duration) (*rod.Element, error) {
	p := s.page.Timeout(timeout)
	defer p.CancelTimeout()
	el, err := p.Element(selector)
	if err != nil {
		return nil, notFoundError(err, "timeout waiting for "+selector)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, notFoundError(err, selector+" never became visible")
	}
	return el, nil
}

// WaitNonEmptyText polls the element until its text is non-empty, returning
// the trimmed text.
func (s *Session) WaitNonEmptyText(el *rod.Element, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for {
		text, err := el.Text()
		if err == nil {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				return trimmed, nil
			}
		}
		if time.Now().After(deadline) {
			return "", models.NewScrapeError(
				models.ErrCodeTimeout,
				"element text stayed empty",
				nil,
			)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Elements returns all elements matching the selector without waiting.
func (s *Session) Elements(selector string) (rod.Elements, error) {
	return s.page.Elements(selector)
}

// Has reports whether the selector matches, returning the first match.
func (s *Session) Has(selector string) (bool, *rod.Element, error) {
	return s.page.Has(selector)
}

// Eval runs JavaScript in the page context.
func (s *Session) Eval(js string) error {
	_, err := s.page.Eval(js)
	return err
}

// EvalString runs JavaScript and returns its string result, empty on failure.
func (s *Session) EvalString(js string) string {
	res, err := s.page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// ScrollToBottom triggers lazy-loading by jumping to the document end.
func (s *Session) ScrollToBottom() {
	if err := s.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		slog.Debug("scroll to bottom failed", "error", err)
	}
}

// ScrollToTop returns the viewport to the document start.
func (s *Session) ScrollToTop() {
	if err := s.Eval(`() => window.scrollTo(0, 0)`); err != nil {
		slog.Debug("scroll to top failed", "error", err)
	}
}

// SetViewport resizes the render viewport.
func (s *Session) SetViewport(width, height int) error {
	return s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
}

// ScreenshotElement captures a PNG of the given element.
func (s *Session) ScreenshotElement(el *rod.Element) ([]byte, error) {
	return el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
}

// SwitchToLatestPage re-targets the session at the newest tab when the site
// opened one, e.g. a chart opening in a new window. No-op with one tab.
func (s *Session) SwitchToLatestPage() {
	pages, err := s.browser.Pages()
	if err != nil || len(pages) < 2 {
		return
	}
	latest := pages[len(pages)-1]
	if _, err := latest.Activate(); err != nil {
		slog.Warn("failed to activate latest tab", "error", err)
		return
	}
	s.page = latest
	slog.Info("switched to newest tab")
}

// EnterFrame re-targets the session inside an iframe matching the selector.
// Returns false when no such frame exists; the session is unchanged.
func (s *Session) EnterFrame(selector string) bool {
	has, el, err := s.page.Has(selector)
	if err != nil || !has {
		return false
	}
	frame, err := el.Frame()
	if err != nil {
		slog.Warn("failed to enter iframe", "selector", selector, "error", err)
		return false
	}
	s.page = frame
	return true
}

// Page exposes the underlying rod page for interaction-heavy flows.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Close tears the session down best-effort: failures are swallowed and
// logged, never propagated. Closing twice is safe. Only sessions the manager
// registered touch the gauge; a session torn down mid-setup was never
// counted.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.counted {
		s.mgr.activeSessions.Add(-1)
	}

	if s.owns {
		// Dedicated browser: kill the whole process.
		if s.browser == nil {
			return
		}
		if err := s.browser.Close(); err != nil {
			slog.Warn("failed to close session browser", "error", err)
		}
		return
	}
	if s.page == nil {
		return
	}
	if err := s.page.Close(); err != nil {
		slog.Warn("failed to close session page", "error", err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed ScrapeErrors so callers can
// convert them to partial or empty results.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}

// notFoundError classifies a selector-wait failure: a lapsed deadline is a
// timeout, anything else means the element never existed.
func notFoundError(err error, msg string) *models.ScrapeError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	}
	return models.NewScrapeError(models.ErrCodeElementNotFound, msg, err)
}
