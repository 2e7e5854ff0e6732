package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	LLM       LLMConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Site      SiteConfig
	Selectors SelectorConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the shared scraping browser runs headless.
	// The chart route always launches its own visible browser.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// UserAgent is sent on every session.
	UserAgent string

	// WindowWidth/WindowHeight size the viewport.
	WindowWidth  int // default: 1920
	WindowHeight int // default: 1080
}

// ScraperConfig controls scraping behavior.
type ScraperConfig struct {
	// NavTimeout bounds the wait for page context after navigation.
	NavTimeout time.Duration // default: 20s

	// ElementTimeout bounds individual element presence/visibility waits.
	ElementTimeout time.Duration // default: 10s

	// LongWait is used where the page is known to load slowly
	// (symbol header, price fallbacks).
	LongWait time.Duration // default: 30s

	// SettleDelay is the pause after a scroll before re-counting rows.
	SettleDelay time.Duration // default: 2s

	// MaxRows caps a multi-stock extraction when the plan gives no count.
	MaxRows int // default: 100

	// NewsRecencyDays is the recency window for news filtering.
	NewsRecencyDays int // default: 7

	// SectorScrollRounds caps the lazy-load pagination loop.
	SectorScrollRounds int // default: 5
}

// LLMConfig controls the plan/summary LLM calls.
type LLMConfig struct {
	BaseURL string        // default: "https://api.openai.com/v1"
	APIKey  string
	Model   string        // default: "gpt-4o-mini"
	Timeout time.Duration // default: 60s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	Enabled bool // default: false
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 // default: 5
	Burst             int     // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// SiteConfig holds the scraped site's URLs. The sector URL is completed by
// appending the slug derived from the sector name.
type SiteConfig struct {
	HomeURL       string
	GainersURL    string
	LosersURL     string
	SymbolURLBase string // + "<TICKER>/"
	SectorURLBase string // + "<slug>/"
}

// SelectorConfig holds every CSS selector used by the scrapers. The site
// layout changes frequently, so selectors are configuration, not code.
type SelectorConfig struct {
	// Multi-stock table.
	TableRow      string
	TableTicker   string
	TablePrice    string
	TableChange   string
	TableVolume   string
	TickerPresent string // waited on after navigation to a movers page

	// Single-stock page.
	SymbolHeader   string
	PriceLast      string
	PriceFallbacks []string // tried in order after the caller's selector
	PerfContainer  string
	StatLabel      string
	StatValue      string
	ChartCanvas    string

	// News page.
	NewsHeadline string

	// Sector table.
	SectorTablePrimary  string
	SectorTableFallback string

	// Chart interaction.
	SearchButton   string
	SearchInput    string
	SearchResult   string
	ChartIframe    string
	ChartContent   string
	TimeframeTabs  string
	GenericCanvas  string
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("STOX_HOST", "0.0.0.0"),
			Port: envIntOr("STOX_PORT", 8080),
			Mode: envOr("STOX_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("STOX_HEADLESS", true),
			NoSandbox:  envBoolOr("STOX_NO_SANDBOX", false),
			BrowserBin: os.Getenv("STOX_BROWSER_BIN"),
			UserAgent: envOr("STOX_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
					"(KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"),
			WindowWidth:  envIntOr("STOX_WINDOW_WIDTH", 1920),
			WindowHeight: envIntOr("STOX_WINDOW_HEIGHT", 1080),
		},
		Scraper: ScraperConfig{
			NavTimeout:         envDurationOr("STOX_NAV_TIMEOUT", 20*time.Second),
			ElementTimeout:     envDurationOr("STOX_ELEMENT_TIMEOUT", 10*time.Second),
			LongWait:           envDurationOr("STOX_LONG_WAIT", 30*time.Second),
			SettleDelay:        envDurationOr("STOX_SETTLE_DELAY", 2*time.Second),
			MaxRows:            envIntOr("STOX_MAX_ROWS", 100),
			NewsRecencyDays:    envIntOr("STOX_NEWS_RECENCY_DAYS", 7),
			SectorScrollRounds: envIntOr("STOX_SECTOR_SCROLL_ROUNDS", 5),
		},
		LLM: LLMConfig{
			BaseURL: envOr("STOX_LLM_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  os.Getenv("STOX_LLM_API_KEY"),
			Model:   envOr("STOX_LLM_MODEL", "gpt-4o-mini"),
			Timeout: envDurationOr("STOX_LLM_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("STOX_AUTH_ENABLED", false),
			APIKeys: envSliceOr("STOX_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("STOX_RATE_RPS", 5.0),
			Burst:             envIntOr("STOX_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("STOX_LOG_LEVEL", "info"),
			Format: envOr("STOX_LOG_FORMAT", "json"),
		},
		Site: SiteConfig{
			HomeURL:       envOr("STOX_HOME_URL", "https://www.tradingview.com/"),
			GainersURL:    envOr("STOX_GAINERS_URL", "https://www.tradingview.com/markets/stocks-usa/market-movers-gainers/"),
			LosersURL:     envOr("STOX_LOSERS_URL", "https://www.tradingview.com/markets/stocks-usa/market-movers-losers/"),
			SymbolURLBase: envOr("STOX_SYMBOL_URL_BASE", "https://www.tradingview.com/symbols/"),
			SectorURLBase: envOr("STOX_SECTOR_URL_BASE", "https://www.tradingview.com/markets/stocks-usa/sectorandindustry-sector/"),
		},
		Selectors: SelectorConfig{
			TableRow:      envOr("STOX_SEL_TABLE_ROW", "table tbody tr"),
			TableTicker:   envOr("STOX_SEL_TABLE_TICKER", "a[href*='/symbols/']"),
			TablePrice:    envOr("STOX_SEL_TABLE_PRICE", "td:nth-child(3)"),
			TableChange:   envOr("STOX_SEL_TABLE_CHANGE", "td:nth-child(2)"),
			TableVolume:   envOr("STOX_SEL_TABLE_VOLUME", "td:nth-child(4)"),
			TickerPresent: envOr("STOX_SEL_TICKER_PRESENT", "a[class*='tickerNameBox']"),

			SymbolHeader: envOr("STOX_SEL_SYMBOL_HEADER", "h1.apply-overflow-tooltip"),
			PriceLast:    envOr("STOX_SEL_PRICE_LAST", "span.js-symbol-last"),
			PriceFallbacks: envSliceOr("STOX_SEL_PRICE_FALLBACKS", []string{
				"span[data-test='instrument-price-last']",
				"div[data-test='instrument-price-last']",
				"span[class*='last']",
			}),
			PerfContainer: envOr("STOX_SEL_PERF_CONTAINER", "span.content-o1CQs_Mg"),
			StatLabel:     envOr("STOX_SEL_STAT_LABEL", "div.label-QCJM7wcY"),
			StatValue:     envOr("STOX_SEL_STAT_VALUE", "div.value-QCJM7wcY"),
			ChartCanvas:   envOr("STOX_SEL_CHART_CANVAS", "canvas.chart-canvas"),

			NewsHeadline: envOr("STOX_SEL_NEWS_HEADLINE", "div[data-qa-id='news-headline-title']"),

			SectorTablePrimary:  envOr("STOX_SEL_SECTOR_TABLE", "table.tv-data-table"),
			SectorTableFallback: envOr("STOX_SEL_SECTOR_TABLE_FALLBACK", "table"),

			SearchButton:  envOr("STOX_SEL_SEARCH_BUTTON", "button.js-header-search-button"),
			SearchInput:   envOr("STOX_SEL_SEARCH_INPUT", "input[name='query']"),
			SearchResult:  envOr("STOX_SEL_SEARCH_RESULT", "div[data-name='list-item-title']"),
			ChartIframe:   envOr("STOX_SEL_CHART_IFRAME", "iframe[src*='chart']"),
			ChartContent:  envOr("STOX_SEL_CHART_CONTENT", "div[data-name='chart-content']"),
			TimeframeTabs: envOr("STOX_SEL_TIMEFRAME_TABS", "div[data-name='date-ranges-tabs']"),
			GenericCanvas: envOr("STOX_SEL_GENERIC_CANVAS", "canvas"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
