package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LabelValues is a label→value mapping that keeps insertion order, so
// page-ordered blocks (performance timeframes, key stats) serialize in the
// order the page presented them. Keys are whatever labels the page exposes.
type LabelValues struct {
	keys   []string
	values map[string]string
}

// Set appends the pair, overwriting the value if the label already exists.
func (lv *LabelValues) Set(label, value string) {
	if lv.values == nil {
		lv.values = make(map[string]string)
	}
	if _, ok := lv.values[label]; !ok {
		lv.keys = append(lv.keys, label)
	}
	lv.values[label] = value
}

// Get looks up a label's value.
func (lv *LabelValues) Get(label string) (string, bool) {
	v, ok := lv.values[label]
	return v, ok
}

// Len reports the number of pairs.
func (lv *LabelValues) Len() int {
	return len(lv.keys)
}

// Labels returns the labels in insertion order.
func (lv *LabelValues) Labels() []string {
	return append([]string(nil), lv.keys...)
}

func (lv LabelValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range lv.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(lv.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (lv *LabelValues) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object for label/value mapping, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		lv.Set(keyTok.(string), value)
	}
	_, err = dec.Token() // closing brace
	return err
}

// StockRecord is one row of a multi-stock table scrape. All fields are raw
// page text; no numeric coercion happens here. Identity is scrape order and
// rows are not deduplicated.
type StockRecord struct {
	Ticker        string `json:"ticker"`
	Price         string `json:"price"`
	ChangePercent string `json:"change_percent"` // raw, e.g. "+2.3%"
	Volume        string `json:"volume"`
}

// SingleStockRecord holds the scalar fields, the page-ordered performance
// block, and the key-stats block for one symbol page. ChartBase64 is set
// only when the canvas capture succeeded end to end; the temporary
// screenshot file never survives the extraction call.
type SingleStockRecord struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"` // unit suffix appended, e.g. "189.12 USD"

	// Performance maps the page's timeframe labels (whatever it exposes,
	// e.g. "1 day", "Year to date") to percent-change strings, in page order.
	Performance LabelValues `json:"performance"`

	// KeyStats zips the label column against the value column positionally.
	KeyStats LabelValues `json:"key_stats"`

	// ChartBase64 is the base64-encoded PNG of the first chart canvas,
	// empty when capture failed at any step.
	ChartBase64 string `json:"chart_image_base64,omitempty"`
}

// NewsItem is one headline record. Time is either a normalized
// "2006-01-02 15:04:05" string or, when the page date failed to parse,
// the raw page text (fail-open — such items bypass the recency filter).
type NewsItem struct {
	Title string  `json:"title"`
	Link  *string `json:"link"`
	Time  string  `json:"time"`
}

// SectorRecord is a dynamic mapping keyed by page-supplied column headers
// (capped at 11 per page load) plus an injected "Sector" key carrying the
// requested category name. The schema is read from the page per request.
type SectorRecord map[string]string

// SectorHeaderCap is the maximum number of page columns honored per load.
const SectorHeaderCap = 11

// ChartResult reports the outcome of a chart display interaction. No chart
// data is returned; the rendered chart stays on screen for inspection.
type ChartResult struct {
	Status  string `json:"status"` // "success" or "error"
	Message string `json:"message"`
}
