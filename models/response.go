package models

// QueryRequest is the payload for the prompt-driven endpoints.
type QueryRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// QueryResponse is the envelope shared by the combined endpoint and the
// per-capability endpoints. Recoverable failures (timeout, no data, invalid
// ticker) still respond 200 with a message and empty data fields.
type QueryResponse struct {
	Message string `json:"message"`

	Stocks []StockRecord      `json:"stocks,omitempty"`
	Stock  *SingleStockRecord `json:"stock,omitempty"`
	News   []NewsItem         `json:"news,omitempty"`
	Data   []SectorRecord     `json:"data,omitempty"`
	Chart  *ChartResult       `json:"chart,omitempty"`

	// Summary is the LLM-written rendition of the structured data,
	// present only on the combined endpoint and only when the summary
	// pass succeeded.
	Summary string `json:"summary,omitempty"`

	// Route names the scraping pathway that produced the data.
	Route string `json:"route,omitempty"`

	// Error carries detail for degraded responses on the per-capability
	// endpoints; the HTTP status remains 200.
	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status         string `json:"status"` // "healthy" or "degraded"
	Uptime         string `json:"uptime"`
	ActiveSessions int    `json:"active_sessions"`
	Version        string `json:"version"`
}
