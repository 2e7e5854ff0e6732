package planner

import (
	"fmt"

	"github.com/eyeonstox/stoxagent/config"
)

// validSectors are the category names the plan LLM is allowed to emit for
// sector queries.
var validSectors = []string{
	"Commercial services", "Communications", "Consumer durables",
	"Consumer non-durables", "Consumer services", "Distribution services",
	"Electronic technology", "Energy minerals", "Finance", "Government",
	"Health services", "Health technology", "Industrial services",
	"Miscellaneous", "Non-energy minerals", "Process industries",
	"Producer manufacturing", "Retail trade", "Technology services",
	"Transportation", "Utilities",
}

// planSystemPrompt instructs the model to classify a stock query into the
// five action buckets. The model must answer with pure JSON.
func planSystemPrompt(site config.SiteConfig) string {
	return fmt.Sprintf(`You are an assistant integrated with a system that scrapes live stock data from a market website.

Respond with ONLY a valid JSON object. No code fences, no explanations.

Buckets (all optional, ordered action lists):
- "actions": multiple stocks (gainers/losers tables). Kinds: "navigate", "extract", "click", "type".
- "actions_single": one stock's detail page. Kinds: "navigate_single", "extract_single".
- "actions_news": stock news. Kind: "fetch_stock_news" with "symbol", "url", "count".
- "action_sector": sector tables. Kind: "fetch_sector_data" with "sector", "count" (integer or "all").
- "actions_chart": chart display. Kind: "display_chart" with "ticker", "timeframe".
- "message": set only when every bucket is empty (invalid or unrelated prompt).

Map company names to tickers (Apple -> AAPL, Microsoft -> MSFT, Google -> GOOGL, Amazon -> AMZN, Tesla -> TSLA, NVIDIA -> NVDA, Infosys -> INFY, Netflix -> NFLX, and so on). For an unknown name use "type" + "click" search actions.

Case guide:
1. Best performers: navigate to %[1]s then extract rows. If the user gives a number, set "count"; default 10.
2. Worst performers: navigate to %[2]s then extract rows, same count rules.
3. Single stock: navigate_single to %[3]s<TICKER>/ then extract_single with fields {"symbol": ..., "price": ...}.
4. News: fetch_stock_news with url %[3]s<TICKER>/news/, default count 5.
5. Chart: display_chart with the ticker and the timeframe the user asked for ("1 year" -> "12M", "6 months" -> "6M", "1 month" -> "1M", "5 years" -> "60M"); default "1Y" when unspecified.
6. Sector data: fetch_sector_data with one of the valid sector names: %[4]v. Use "count": "all" when the user wants everything.
7. Unrelated or invalid prompts: every bucket empty plus {"message": "No relevant stock actions found"}.

Example (worst 4 stocks):
{"actions": [
  {"action": "navigate", "url": "%[2]s"},
  {"action": "extract", "selector": "table tbody tr", "count": 4,
   "fields": {"ticker": "a[href*='/symbols/']", "price": "td:nth-child(3)", "change_percent": "td:nth-child(2)", "volume": "td:nth-child(4)"}}
]}

Example (Apple chart for 1 year):
{"actions_chart": [{"action": "display_chart", "ticker": "AAPL", "timeframe": "12M"}]}

Example (latest 3 news on Apple):
{"actions_news": [{"action": "fetch_stock_news", "url": "%[3]sAAPL/news/", "symbol": "AAPL", "count": 3}]}`,
		site.GainersURL, site.LosersURL, site.SymbolURLBase, validSectors)
}

// summarySystemPrompt turns a structured scrape response into a short,
// human-friendly message grounded only in the provided data.
const summarySystemPrompt = `You are EyeOnStox, a stock assistant. You are given structured data scraped from a market website. Answer from that data only; never guess values.

Rules:
1. Convert the structured response into a clear, concise, human-friendly message.
2. Stock data: summarize price, change, and volume as bullets or a simple table.
3. Performance history: present the timeframe labels plainly.
4. News: list headlines as bullets with dates when available.
5. Chart results: relay the status message; never mention image encodings.
6. Plain greetings get a friendly reply without any invented numbers.
7. If the data is empty, say "Data not available".`

// summaryUserPrompt pairs the user's question with the structured payload.
func summaryUserPrompt(prompt, structuredJSON string) string {
	return fmt.Sprintf("The user asked: %q\n\nStructured system response:\n%s", prompt, structuredJSON)
}
