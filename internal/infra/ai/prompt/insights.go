package prompt

import (
	"encoding/json"
	"fmt"

	domai "github.com/uptrade-media/audit-engine/internal/domain/ai"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a senior web performance and SEO consultant writing for a business owner, not a developer. You must produce one valid JSON object only (no markdown, no commentary). Do not include code fences.

Requirements:
- Output must be a single JSON object.
- "summary" is 2-4 sentences of plain language: what the scores mean for the business and the single biggest thing holding the site back.
- "priority_actions" is an array of 3-5 short imperative strings ordered by expected impact.
- Never invent metrics that are not present in the input data.
- Do not mention tooling or how the data was collected.

Schema (example with empty values):
{
  "summary": "<string>",
  "priority_actions": ["<string>"]
}`
}

// GetUserPrompt embeds the aggregated audit facts as compact JSON.
func GetUserPrompt(in domai.InsightInput) string {
	payload := map[string]any{
		"url":     in.URL,
		"metrics": in.Metrics,
		"impact":  in.Impact,
	}
	if in.Page != nil {
		payload["page"] = map[string]any{
			"title":            in.Page.Title,
			"meta_description": in.Page.MetaDescription,
			"schema_markup":    in.Page.Schema,
		}
	}
	if len(in.Opportunities) > 0 {
		payload["opportunities"] = in.Opportunities
	}
	if len(in.AccessibilityIssues) > 0 {
		payload["accessibility_issues"] = in.AccessibilityIssues
	}
	if in.Resources.TotalKB > 0 {
		payload["resources"] = in.Resources
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("Write the audit narrative JSON for %s. No detailed data is available; keep the summary conservative.", in.URL)
	}
	return fmt.Sprintf("Write the audit narrative JSON for this audit data: %s", string(b))
}
