package planner

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/models"
)

// Planner turns a free-text prompt into an ActionPlan and structured scrape
// results back into prose. The LLM is an opaque collaborator: text in,
// typed plan out, or failure.
type Planner struct {
	client *Client
	site   config.SiteConfig
}

// New creates a Planner.
func New(client *Client, site config.SiteConfig) *Planner {
	return &Planner{client: client, site: site}
}

// GeneratePlan asks the LLM to classify the prompt into action buckets.
func (p *Planner) GeneratePlan(ctx context.Context, prompt string) (*models.ActionPlan, error) {
	raw, err := p.client.CompleteJSON(ctx, planSystemPrompt(p.site), prompt)
	if err != nil {
		return nil, err
	}

	var plan models.ActionPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeLLMFailure,
			"LLM plan did not match the expected shape",
			err,
		)
	}

	slog.Info("plan generated",
		"multi", len(plan.MultiStock),
		"single", len(plan.SingleStock),
		"news", len(plan.News),
		"sector", len(plan.Sector),
		"chart", len(plan.Chart),
	)
	return &plan, nil
}

// Summarize writes a human-friendly rendition of the structured response.
// Best-effort: callers degrade to the structured payload on failure.
func (p *Planner) Summarize(ctx context.Context, prompt string, resp *models.QueryResponse) (string, error) {
	structured, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	raw, err := p.client.chat(ctx, summarySystemPrompt, summaryUserPrompt(prompt, string(structured)), nil)
	if err != nil {
		return "", err
	}
	return raw, nil
}

// Fallback asks for a plain completion when no plan could be produced; its
// text becomes the response message with empty records.
func (p *Planner) Fallback(ctx context.Context, prompt string) (string, error) {
	return p.client.Complete(ctx, prompt)
}
