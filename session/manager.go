package session

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
)

// Manager owns the shared headless browser and hands out one render session
// per request. It is safe for concurrent use.
type Manager struct {
	browser        *rod.Browser
	browserCfg     config.BrowserConfig
	site           config.SiteConfig
	navTimeout     time.Duration
	activeSessions atomic.Int32
	startTime      time.Time
}

// NewManager launches the shared headless browser.
func NewManager(browserCfg config.BrowserConfig, site config.SiteConfig, navTimeout time.Duration) (*Manager, error) {
	browser, err := launchBrowser(browserCfg, browserCfg.Headless, true)
	if err != nil {
		return nil, err
	}

	return &Manager{
		browser:    browser,
		browserCfg: browserCfg,
		site:       site,
		navTimeout: navTimeout,
		startTime:  time.Now(),
	}, nil
}

// launchBrowser starts a Chromium instance and connects to it. leakless
// ties the browser's lifetime to this process; the visible chart browser
// disables it so the window survives for manual inspection.
func launchBrowser(cfg config.BrowserConfig, headless, leakless bool) (*rod.Browser, error) {
	l := launcher.New().
		Headless(headless).
		Leakless(leakless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-notifications"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL, "headless", headless)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}
	return browser, nil
}

// NewSession opens a fresh page on the shared browser, applies stealth and
// identity settings, and warms it on the site home page.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	s, err := newSession(ctx, m, m.browser, false)
	if err != nil {
		return nil, err
	}
	m.activeSessions.Add(1)
	s.counted = true
	return s, nil
}

// NewVisibleSession launches a dedicated non-headless browser for the chart
// route. The caller decides whether to tear it down; on the chart success
// path it is deliberately left open.
func (m *Manager) NewVisibleSession(ctx context.Context) (*Session, error) {
	browser, err := launchBrowser(m.browserCfg, false, false)
	if err != nil {
		return nil, err
	}
	s, err := newSession(ctx, m, browser, true)
	if err != nil {
		// newSession closes the browser when it got far enough to own it;
		// a second close is harmless.
		_ = browser.Close()
		return nil, err
	}
	m.activeSessions.Add(1)
	s.counted = true
	return s, nil
}

// ActiveSessions reports how many sessions are currently open.
func (m *Manager) ActiveSessions() int {
	return int(m.activeSessions.Load())
}

// Uptime reports how long the manager has been running.
func (m *Manager) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// Close kills the shared browser process. Call on graceful shutdown to
// prevent zombie Chrome processes.
func (m *Manager) Close() {
	slog.Info("session manager shutting down: closing browser")
	m.browser.MustClose()
	slog.Info("session manager shutdown complete")
}
