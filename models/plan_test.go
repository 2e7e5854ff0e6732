package models

import (
	"encoding/json"
	"testing"
)

func TestCount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue int
		wantValid bool
		wantAll   bool
	}{
		{"number", `10`, 10, true, false},
		{"numeric string", `"25"`, 25, true, false},
		{"all sentinel", `"all"`, 0, false, true},
		{"all uppercase", `"ALL"`, 0, false, true},
		{"zero", `0`, 0, true, false},
		{"null", `null`, 0, false, false},
		{"malformed string", `"ten"`, 0, false, false},
		{"float", `2.5`, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Count
			if err := json.Unmarshal([]byte(tt.input), &c); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
			}
			if c.Value != tt.wantValue || c.Valid != tt.wantValid || c.All != tt.wantAll {
				t.Errorf("Unmarshal(%s) = %+v, want value=%d valid=%v all=%v",
					tt.input, c, tt.wantValue, tt.wantValid, tt.wantAll)
			}
		})
	}
}

func TestCount_MalformedKeepsRaw(t *testing.T) {
	var c Count
	if err := json.Unmarshal([]byte(`"ten"`), &c); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if c.Raw != "ten" {
		t.Errorf("Raw = %q, want %q", c.Raw, "ten")
	}
}

func TestCount_Limit(t *testing.T) {
	tests := []struct {
		name     string
		count    Count
		fallback int
		want     int
	}{
		{"valid value", Count{Value: 7, Valid: true}, 100, 7},
		{"all uses fallback", Count{All: true}, 100, 100},
		{"absent uses fallback", Count{}, 100, 100},
		{"zero uses fallback", Count{Value: 0, Valid: true}, 100, 100},
		{"malformed uses fallback", Count{Raw: "ten"}, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.count.Limit(tt.fallback); got != tt.want {
				t.Errorf("Limit(%d) = %d, want %d", tt.fallback, got, tt.want)
			}
		})
	}
}

func TestActionPlan_BucketTags(t *testing.T) {
	raw := `{
		"actions": [{"action": "navigate", "url": "https://example.com"}],
		"actions_single": [{"action": "navigate_single"}],
		"actions_news": [{"action": "fetch_stock_news", "symbol": "AAPL", "count": "all"}],
		"action_sector": [{"action": "fetch_sector_data", "sector": "Finance"}],
		"actions_chart": [{"action": "display_chart", "ticker": "NVDA", "timeframe": "5D"}],
		"message": "ok"
	}`

	var plan ActionPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if len(plan.MultiStock) != 1 || plan.MultiStock[0].Kind != ActionNavigate {
		t.Errorf("MultiStock = %+v", plan.MultiStock)
	}
	if len(plan.SingleStock) != 1 {
		t.Errorf("SingleStock = %+v", plan.SingleStock)
	}
	if len(plan.News) != 1 || !plan.News[0].Count.All {
		t.Errorf("News = %+v", plan.News)
	}
	if len(plan.Sector) != 1 || plan.Sector[0].Sector != "Finance" {
		t.Errorf("Sector = %+v", plan.Sector)
	}
	if len(plan.Chart) != 1 || plan.Chart[0].Ticker != "NVDA" {
		t.Errorf("Chart = %+v", plan.Chart)
	}
	if plan.Empty() {
		t.Error("Empty() = true for populated plan")
	}
}

func TestActionPlan_Empty(t *testing.T) {
	var plan ActionPlan
	if err := json.Unmarshal([]byte(`{"message": "Invalid stock ticker"}`), &plan); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !plan.Empty() {
		t.Error("Empty() = false for plan with no buckets")
	}
	if plan.Message != "Invalid stock ticker" {
		t.Errorf("Message = %q", plan.Message)
	}
}
