package scrape

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/eyeonstox/stoxagent/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Technology Services", "technology-services"},
		{"Finance", "finance"},
		{"  Health Technology  ", "health-technology"},
		{"Electronic Technology", "electronic-technology"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func sectorFixture(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("<html><body><table class='tv-data-table'><thead><tr>")
	for _, h := range headers {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

const sectorTableSel = "table.tv-data-table"

func TestParseSectorTable(t *testing.T) {
	html := sectorFixture(
		[]string{"Symbol", "Price", "Change %"},
		[][]string{
			{"AAPL", "189.12", "+1.2%"},
			{"MSFT", "410.50", "-0.3%"},
		},
	)

	records, err := ParseSectorTable(html, sectorTableSel, "Technology Services", -1)
	if err != nil {
		t.Fatalf("ParseSectorTable error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first["Symbol"] != "AAPL" || first["Price"] != "189.12" {
		t.Errorf("first record = %v", first)
	}
	if first["Sector"] != "Technology Services" {
		t.Errorf("Sector = %q, want injected sector name", first["Sector"])
	}
}

func TestParseSectorTable_HeaderCap(t *testing.T) {
	headers := make([]string, models.SectorHeaderCap+3)
	row := make([]string, len(headers))
	for i := range headers {
		headers[i] = fmt.Sprintf("Col%d", i)
		row[i] = fmt.Sprintf("v%d", i)
	}
	html := sectorFixture(headers, [][]string{row})

	records, err := ParseSectorTable(html, sectorTableSel, "Finance", -1)
	if err != nil {
		t.Fatalf("ParseSectorTable error: %v", err)
	}
	// Capped columns plus the injected Sector key.
	if len(records[0]) != models.SectorHeaderCap+1 {
		t.Errorf("record has %d keys, want %d", len(records[0]), models.SectorHeaderCap+1)
	}
	if _, ok := records[0][fmt.Sprintf("Col%d", models.SectorHeaderCap)]; ok {
		t.Error("column beyond the cap should not appear")
	}
}

func TestParseSectorTable_ShortRowNoPadding(t *testing.T) {
	html := sectorFixture(
		[]string{"Symbol", "Price", "Change %"},
		[][]string{{"AAPL", "189.12"}},
	)

	records, err := ParseSectorTable(html, sectorTableSel, "Finance", -1)
	if err != nil {
		t.Fatalf("ParseSectorTable error: %v", err)
	}
	if _, ok := records[0]["Change %"]; ok {
		t.Error("missing cell should not produce a padded key")
	}
	if records[0]["Symbol"] != "AAPL" {
		t.Errorf("Symbol = %q", records[0]["Symbol"])
	}
}

func TestParseSectorTable_Limit(t *testing.T) {
	html := sectorFixture(
		[]string{"Symbol"},
		[][]string{{"AAA"}, {"BBB"}, {"CCC"}},
	)

	records, err := ParseSectorTable(html, sectorTableSel, "Finance", 2)
	if err != nil {
		t.Fatalf("ParseSectorTable error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestParseSectorTable_NoHeaders(t *testing.T) {
	html := "<html><body><table class='tv-data-table'><tbody><tr><td>AAPL</td></tr></tbody></table></body></html>"

	_, err := ParseSectorTable(html, sectorTableSel, "Finance", -1)
	if err == nil {
		t.Fatal("expected error for headerless table")
	}
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) || scrapeErr.Code != models.ErrCodeElementNotFound {
		t.Errorf("error = %v, want ELEMENT_NOT_FOUND", err)
	}
}

func TestSectorLimit(t *testing.T) {
	tests := []struct {
		name  string
		count models.Count
		want  int
	}{
		{"concrete", models.Count{Value: 15, Valid: true}, 15},
		{"all", models.Count{All: true}, -1},
		{"absent", models.Count{}, -1},
		{"zero means all", models.Count{Value: 0, Valid: true, Raw: "0"}, -1},
		{"negative means all", models.Count{Value: -3, Valid: true, Raw: "-3"}, -1},
		{"malformed", models.Count{Raw: "ten"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sectorLimit(tt.count); got != tt.want {
				t.Errorf("sectorLimit(%+v) = %d, want %d", tt.count, got, tt.want)
			}
		})
	}
}

func TestScrollDone(t *testing.T) {
	tests := []struct {
		name              string
		prev, rows, limit int
		want              bool
	}{
		{"rows still growing", 10, 20, -1, false},
		{"plateau stops", 20, 20, -1, true},
		{"target reached stops", 10, 25, 25, true},
		{"target exceeded stops", 10, 30, 25, true},
		{"below target keeps scrolling", 10, 20, 25, false},
		{"plateau stops even below target", 20, 20, 25, true},
		{"empty page stops immediately", 0, 0, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scrollDone(tt.prev, tt.rows, tt.limit); got != tt.want {
				t.Errorf("scrollDone(%d, %d, %d) = %v, want %v",
					tt.prev, tt.rows, tt.limit, got, tt.want)
			}
		})
	}
}
