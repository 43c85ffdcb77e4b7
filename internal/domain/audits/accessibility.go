package audits

import "sort"

const maxAccessibilityIssues = 10

// AccessibilityIssue is one failing accessibility audit from the provider.
type AccessibilityIssue struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Severity    Severity `json:"severity"`
	Score       float64  `json:"score"`
}

// ExtractAccessibilityIssues maps the provider's accessibility audit refs to
// their results and keeps the failing ones, classified by score.
func ExtractAccessibilityIssues(perf *PerformanceFacts) []AccessibilityIssue {
	if perf == nil {
		return []AccessibilityIssue{}
	}

	out := []AccessibilityIssue{}
	for _, ref := range perf.AccessibilityRefs {
		a, ok := perf.Audits[ref]
		if !ok || a.Score == nil || *a.Score >= 1 {
			continue
		}
		out = append(out, AccessibilityIssue{
			ID:          ref,
			Title:       a.Title,
			Description: a.Description,
			Severity:    accessibilitySeverity(*a.Score),
			Score:       *a.Score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > maxAccessibilityIssues {
		out = out[:maxAccessibilityIssues]
	}
	return out
}

func accessibilitySeverity(score float64) Severity {
	switch {
	case score == 0:
		return SeverityCritical
	case score < 0.5:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
