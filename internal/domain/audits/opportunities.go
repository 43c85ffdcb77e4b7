package audits

import "sort"

const maxOpportunities = 10

// Opportunity is one actionable provider audit with estimated savings.
type Opportunity struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Score       float64 `json:"score"`
	SavingsMs   float64 `json:"savings_ms"`
}

// ExtractOpportunities filters the provider audits down to failing
// opportunity entries, worst first.
func ExtractOpportunities(perf *PerformanceFacts) []Opportunity {
	if perf == nil {
		return []Opportunity{}
	}

	out := []Opportunity{}
	for id, a := range perf.Audits {
		if a.DetailsType != "opportunity" {
			continue
		}
		if a.Score == nil || *a.Score >= 1 {
			continue
		}
		out = append(out, Opportunity{
			ID:          id,
			Title:       a.Title,
			Description: a.Description,
			Score:       *a.Score,
			SavingsMs:   a.SavingsMs,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > maxOpportunities {
		out = out[:maxOpportunities]
	}
	return out
}
