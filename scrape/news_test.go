package scrape

import (
	"testing"
	"time"

	"github.com/eyeonstox/stoxagent/models"
)

const newsFixture = `
<html><body>
<div class="list">
  <article>
    <div data-qa-id="news-headline-title" data-overflow-tooltip-text="Apple unveils new chip lineup">
      <a href="/news/apple-chip/">Apple unveils new…</a>
    </div>
    <span>Jun 28, 2024</span>
  </article>
  <article>
    <div data-qa-id="news-headline-title">Analysts raise Apple price target</div>
    <span>Jun 25, 2024</span>
  </article>
  <article>
    <div data-qa-id="news-headline-title" data-overflow-tooltip-text="Old story about Apple">
      <a href="/news/old/">Old story…</a>
    </div>
    <span>Jun 20, 2024</span>
  </article>
  <article>
    <div data-qa-id="news-headline-title" data-overflow-tooltip-text="Undated market chatter">
      <a href="/news/chatter/">Chatter…</a>
    </div>
    <span>garbled</span>
  </article>
</div>
</body></html>`

var newsNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

const headlineSel = "div[data-qa-id='news-headline-title']"

func TestParseNewsItems(t *testing.T) {
	items := ParseNewsItems(newsFixture, headlineSel, 10, 7, newsNow)

	// Four headlines, the Jun 20 one falls outside the 7-day window.
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3: %+v", len(items), items)
	}

	first := items[0]
	if first.Title != "Apple unveils new chip lineup" {
		t.Errorf("Title = %q, want tooltip text", first.Title)
	}
	if first.Link == nil || *first.Link != "/news/apple-chip/" {
		t.Errorf("Link = %v, want /news/apple-chip/", first.Link)
	}
	if first.Time != "2024-06-28 00:00:00" {
		t.Errorf("Time = %q, want normalized timestamp", first.Time)
	}

	// No tooltip attribute: visible text is the title; no anchor: nil link.
	second := items[1]
	if second.Title != "Analysts raise Apple price target" {
		t.Errorf("fallback Title = %q", second.Title)
	}
	if second.Link != nil {
		t.Errorf("Link = %v, want nil", *second.Link)
	}

	// Unparseable date: kept verbatim, recency filter bypassed.
	third := items[2]
	if third.Title != "Undated market chatter" {
		t.Errorf("Title = %q, want undated item kept", third.Title)
	}
	if third.Time != "garbled" {
		t.Errorf("Time = %q, want raw text preserved", third.Time)
	}
}

func TestParseNewsItems_MaxItemsCountsContainers(t *testing.T) {
	// The cap counts scanned containers, not kept items: with max 3 the
	// garbled-date item is never reached.
	items := ParseNewsItems(newsFixture, headlineSel, 3, 7, newsNow)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}

func TestParseNewsItems_NoHeadlines(t *testing.T) {
	items := ParseNewsItems("<html><body><p>nothing here</p></body></html>", headlineSel, 5, 7, newsNow)
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestSortNewsDesc(t *testing.T) {
	items := []models.NewsItem{
		{Title: "a", Time: "2024-06-25 00:00:00"},
		{Title: "b", Time: "2024-06-28 00:00:00"},
		{Title: "c", Time: "2024-06-26 00:00:00"},
	}
	SortNewsDesc(items)

	want := []string{"b", "c", "a"}
	for i, title := range want {
		if items[i].Title != title {
			t.Errorf("items[%d] = %s, want %s", i, items[i].Title, title)
		}
	}
}

func TestSortNewsDesc_RawTimesStable(t *testing.T) {
	// String compare puts "garbled" after digit-leading timestamps; the sort
	// must not panic or drop items on mixed input.
	items := []models.NewsItem{
		{Title: "a", Time: "garbled"},
		{Title: "b", Time: "2024-06-28 00:00:00"},
	}
	SortNewsDesc(items)
	if len(items) != 2 {
		t.Fatalf("len = %d", len(items))
	}
	if items[0].Title != "a" {
		t.Errorf("items[0] = %s, want raw-time item first under string order", items[0].Title)
	}
}
