package scrape

import "testing"

func TestResolveTimeframe(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1D", "date-range-tab-1D"},
		{"5D", "date-range-tab-5D"},
		{"1M", "date-range-tab-1M"},
		{"3M", "date-range-tab-3M"},
		{"6M", "date-range-tab-6M"},
		{"YTD", "date-range-tab-YTD"},
		{"12M", "date-range-tab-12M"},
		{"5Y", "date-range-tab-60M"},
		{"ALL", "date-range-tab-ALL"},

		// Lowercase and padded aliases resolve the same way.
		{"ytd", "date-range-tab-YTD"},
		{" 5d ", "date-range-tab-5D"},

		// "1Y" is not a page tab; it resolves through the default like any
		// unknown alias.
		{"1Y", "date-range-tab-12M"},
		{"2W", "date-range-tab-12M"},
		{"", "date-range-tab-12M"},
		{"garbage", "date-range-tab-12M"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ResolveTimeframe(tt.input); got != tt.want {
				t.Errorf("ResolveTimeframe(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
