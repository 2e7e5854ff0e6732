package planner

import (
	"testing"

	"github.com/eyeonstox/stoxagent/models"
)

func planWith(buckets map[string][]models.Action) *models.ActionPlan {
	return &models.ActionPlan{
		MultiStock:  buckets["multi"],
		SingleStock: buckets["single"],
		News:        buckets["news"],
		Sector:      buckets["sector"],
		Chart:       buckets["chart"],
	}
}

func one(kind string) []models.Action {
	return []models.Action{{Kind: kind}}
}

func TestRoute_SingleBucket(t *testing.T) {
	tests := []struct {
		bucket string
		want   models.RouteKind
	}{
		{"single", models.RouteSingleStock},
		{"multi", models.RouteMultiStock},
		{"chart", models.RouteChart},
		{"news", models.RouteNews},
		{"sector", models.RouteSector},
	}

	for _, tt := range tests {
		t.Run(tt.bucket, func(t *testing.T) {
			plan := planWith(map[string][]models.Action{tt.bucket: one("x")})
			got := Route(plan, "prompt")
			if got.Kind != tt.want {
				t.Errorf("Route with only %s bucket = %s, want %s", tt.bucket, got.Kind, tt.want)
			}
		})
	}
}

func TestRoute_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		buckets []string
		want    models.RouteKind
	}{
		{"single beats multi", []string{"single", "multi"}, models.RouteSingleStock},
		{"single beats everything", []string{"single", "multi", "chart", "news", "sector"}, models.RouteSingleStock},
		{"multi beats chart", []string{"multi", "chart"}, models.RouteMultiStock},
		{"chart beats news", []string{"chart", "news"}, models.RouteChart},
		{"news beats sector", []string{"news", "sector"}, models.RouteNews},
		{"multi beats sector", []string{"multi", "sector"}, models.RouteMultiStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets := make(map[string][]models.Action, len(tt.buckets))
			for _, b := range tt.buckets {
				buckets[b] = one("x")
			}
			got := Route(planWith(buckets), "prompt")
			if got.Kind != tt.want {
				t.Errorf("Route(%v) = %s, want %s", tt.buckets, got.Kind, tt.want)
			}
		})
	}
}

func TestRoute_ChartDefaults(t *testing.T) {
	plan := planWith(map[string][]models.Action{
		"chart": {{Kind: models.ActionDisplayChart, Ticker: "NVDA"}},
	})
	got := Route(plan, "show nvda chart")
	if got.Ticker != "NVDA" {
		t.Errorf("Ticker = %q, want NVDA", got.Ticker)
	}
	if got.Timeframe != DefaultTimeframe {
		t.Errorf("Timeframe = %q, want %q", got.Timeframe, DefaultTimeframe)
	}
}

func TestRoute_ChartExplicitTimeframe(t *testing.T) {
	plan := planWith(map[string][]models.Action{
		"chart": {{Kind: models.ActionDisplayChart, Ticker: "NVDA", Timeframe: "5D"}},
	})
	got := Route(plan, "prompt")
	if got.Timeframe != "5D" {
		t.Errorf("Timeframe = %q, want 5D", got.Timeframe)
	}
}

func TestRoute_NewsDefaults(t *testing.T) {
	plan := planWith(map[string][]models.Action{
		"news": {{Kind: models.ActionFetchNews, Symbol: "AAPL", URL: "https://example.com/news"}},
	})
	got := Route(plan, "apple news")
	if got.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", got.Symbol)
	}
	if got.Count != DefaultNewsCount {
		t.Errorf("Count = %d, want %d", got.Count, DefaultNewsCount)
	}
}

func TestRoute_NewsExplicitCount(t *testing.T) {
	plan := planWith(map[string][]models.Action{
		"news": {{Kind: models.ActionFetchNews, Symbol: "AAPL", Count: models.Count{Value: 3, Valid: true}}},
	})
	got := Route(plan, "prompt")
	if got.Count != 3 {
		t.Errorf("Count = %d, want 3", got.Count)
	}
}

func TestRoute_SectorDefaults(t *testing.T) {
	plan := planWith(map[string][]models.Action{
		"sector": {{Kind: models.ActionFetchSector, Sector: "Finance"}},
	})
	got := Route(plan, "finance sector")
	if got.Sector != "Finance" {
		t.Errorf("Sector = %q, want Finance", got.Sector)
	}
	if !got.SectorCount.Valid || got.SectorCount.Value != DefaultSectorCount {
		t.Errorf("SectorCount = %+v, want %d", got.SectorCount, DefaultSectorCount)
	}
}

func TestRoute_SectorAllPreserved(t *testing.T) {
	plan := planWith(map[string][]models.Action{
		"sector": {{Kind: models.ActionFetchSector, Sector: "Finance", Count: models.Count{All: true}}},
	})
	got := Route(plan, "prompt")
	if !got.SectorCount.All {
		t.Errorf("SectorCount.All = false, want true")
	}
}

func TestRoute_EmptyPlan(t *testing.T) {
	got := Route(&models.ActionPlan{}, "tell me a joke")
	if got.Kind != models.RouteNone {
		t.Fatalf("Kind = %s, want none", got.Kind)
	}
	want := "No relevant stock actions found for 'tell me a joke'"
	if got.Message != want {
		t.Errorf("Message = %q, want %q", got.Message, want)
	}
}

func TestRoute_EmptyPlanWithMessage(t *testing.T) {
	plan := &models.ActionPlan{Message: "Invalid stock ticker"}
	got := Route(plan, "prompt")
	if got.Message != "Invalid stock ticker" {
		t.Errorf("Message = %q, want plan message", got.Message)
	}
}
