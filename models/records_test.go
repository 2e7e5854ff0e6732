package models

import (
	"encoding/json"
	"testing"
)

func TestLabelValues_PreservesInsertionOrder(t *testing.T) {
	var lv LabelValues
	lv.Set("1 day", "-0.64%")
	lv.Set("5 days", "+2.30%")
	lv.Set("1 month", "+5.11%")

	data, err := json.Marshal(lv)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	want := `{"1 day":"-0.64%","5 days":"+2.30%","1 month":"+5.11%"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestLabelValues_RoundTrip(t *testing.T) {
	var lv LabelValues
	lv.Set("Market cap", "3.1T")
	lv.Set("P/E", "29.4")
	lv.Set("Dividend yield", "0.44%")

	data, err := json.Marshal(lv)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var decoded LabelValues
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	wantLabels := []string{"Market cap", "P/E", "Dividend yield"}
	gotLabels := decoded.Labels()
	if len(gotLabels) != len(wantLabels) {
		t.Fatalf("Labels() = %v, want %v", gotLabels, wantLabels)
	}
	for i, label := range wantLabels {
		if gotLabels[i] != label {
			t.Errorf("Labels()[%d] = %q, want %q", i, gotLabels[i], label)
		}
		want, _ := lv.Get(label)
		if got, _ := decoded.Get(label); got != want {
			t.Errorf("Get(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestLabelValues_SetOverwrites(t *testing.T) {
	var lv LabelValues
	lv.Set("1 day", "-0.64%")
	lv.Set("1 day", "+1.00%")

	if lv.Len() != 1 {
		t.Errorf("Len() = %d, want 1", lv.Len())
	}
	if v, _ := lv.Get("1 day"); v != "+1.00%" {
		t.Errorf("Get = %q, want +1.00%%", v)
	}
}

func TestLabelValues_EmptyMarshals(t *testing.T) {
	var lv LabelValues
	data, err := json.Marshal(lv)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Marshal = %s, want {}", data)
	}
}
