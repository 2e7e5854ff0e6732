package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Action kinds produced by the plan LLM. Payload fields are optional and
// presence depends on the kind.
const (
	ActionNavigate       = "navigate"
	ActionNavigateSingle = "navigate_single"
	ActionExtract        = "extract"
	ActionExtractSingle  = "extract_single"
	ActionClick          = "click"
	ActionType           = "type"
	ActionFetchNews      = "fetch_stock_news"
	ActionFetchSector    = "fetch_sector_data"
	ActionDisplayChart   = "display_chart"
)

// Count is a row/item count that the plan LLM may emit as a JSON number,
// a numeric string, or the sentinel string "all". A malformed value keeps
// its raw text so the consumer can log it and fall back.
type Count struct {
	// Value is the parsed integer when Valid is true.
	Value int
	// All is true for the "all" sentinel (case-insensitive).
	All bool
	// Valid is true when Value holds a parsed integer.
	Valid bool
	// Raw is the original token for logging malformed input.
	Raw string
}

// IsZero reports whether the count was absent from the plan.
func (c Count) IsZero() bool {
	return !c.Valid && !c.All && c.Raw == ""
}

// Limit returns the concrete limit, or fallback when the count is absent,
// zero, "all", or malformed.
func (c Count) Limit(fallback int) int {
	if c.Valid && c.Value > 0 {
		return c.Value
	}
	return fallback
}

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.Raw = s
		if strings.EqualFold(strings.TrimSpace(s), "all") {
			c.All = true
			return nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			c.Value = n
			c.Valid = true
		}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		// Non-integer numbers and other junk are malformed, not fatal.
		c.Raw = string(data)
		return nil
	}
	c.Value = n
	c.Valid = true
	c.Raw = string(data)
	return nil
}

func (c Count) MarshalJSON() ([]byte, error) {
	switch {
	case c.All:
		return json.Marshal("all")
	case c.Valid:
		return json.Marshal(c.Value)
	default:
		return []byte("0"), nil
	}
}

// Action is one step of a plan bucket. All payload fields default to
// empty/zero; which ones matter depends on Kind.
type Action struct {
	Kind      string            `json:"action"`
	Selector  string            `json:"selector,omitempty"`
	URL       string            `json:"url,omitempty"`
	Count     Count             `json:"count,omitempty"`
	Ticker    string            `json:"ticker,omitempty"`
	Timeframe string            `json:"timeframe,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Sector    string            `json:"sector,omitempty"`
	Symbol    string            `json:"symbol,omitempty"`
	Value     string            `json:"value,omitempty"`
}

// ActionPlan is the parsed output of intent classification: five independent
// buckets of ordered actions plus an optional message used only when every
// bucket is empty. Route selection is precedence-based, never plan-declared.
type ActionPlan struct {
	MultiStock  []Action `json:"actions"`
	SingleStock []Action `json:"actions_single"`
	News        []Action `json:"actions_news"`
	Sector      []Action `json:"action_sector"`
	Chart       []Action `json:"actions_chart"`
	Message     string   `json:"message"`
}

// Empty reports whether no bucket holds any action.
func (p *ActionPlan) Empty() bool {
	return len(p.MultiStock) == 0 &&
		len(p.SingleStock) == 0 &&
		len(p.News) == 0 &&
		len(p.Sector) == 0 &&
		len(p.Chart) == 0
}

// RouteKind is the single scraping pathway selected for a request.
type RouteKind int

const (
	RouteNone RouteKind = iota
	RouteSingleStock
	RouteMultiStock
	RouteChart
	RouteNews
	RouteSector
)

func (k RouteKind) String() string {
	switch k {
	case RouteSingleStock:
		return "single_stock"
	case RouteMultiStock:
		return "multi_stock"
	case RouteChart:
		return "chart"
	case RouteNews:
		return "news"
	case RouteSector:
		return "sector"
	default:
		return "none"
	}
}

// RouteResult is the outcome of precedence-based route selection. The
// payload fields are filled from the first action of the winning bucket;
// Message is set only for RouteNone.
type RouteResult struct {
	Kind    RouteKind
	Actions []Action // the winning bucket, in plan order

	// Chart route payload.
	Ticker    string
	Timeframe string

	// News route payload.
	Symbol string
	URL    string
	Count  int

	// Sector route payload.
	Sector      string
	SectorCount Count

	// Message for the no-op route.
	Message string
}
