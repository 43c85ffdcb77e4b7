package audits

import (
	"fmt"
	"strings"
)

// IndustryBenchmark is one row of average category scores.
type IndustryBenchmark struct {
	Performance   int `json:"performance"`
	SEO           int `json:"seo"`
	Accessibility int `json:"accessibility"`
	Security      int `json:"security"`
}

// Fixed benchmark table; unknown industries fall back to "default".
var industryBenchmarks = map[string]IndustryBenchmark{
	"ecommerce":    {Performance: 58, SEO: 74, Accessibility: 71, Security: 62},
	"healthcare":   {Performance: 62, SEO: 70, Accessibility: 75, Security: 68},
	"finance":      {Performance: 65, SEO: 72, Accessibility: 74, Security: 78},
	"technology":   {Performance: 70, SEO: 78, Accessibility: 76, Security: 72},
	"education":    {Performance: 64, SEO: 71, Accessibility: 78, Security: 65},
	"media":        {Performance: 52, SEO: 80, Accessibility: 70, Security: 60},
	"professional": {Performance: 63, SEO: 73, Accessibility: 72, Security: 64},
	"default":      {Performance: 62, SEO: 74, Accessibility: 73, Security: 66},
}

// CategoryComparison is a per-category diff against the benchmark row.
type CategoryComparison struct {
	Category  string `json:"category"`
	Score     int    `json:"score"`
	Benchmark int    `json:"benchmark"`
	Diff      int    `json:"diff"`
	Label     string `json:"label"` // "above average" | "below average" | "average"
}

// BenchmarkComparison is the full industry comparison.
type BenchmarkComparison struct {
	Industry   string               `json:"industry"`
	Categories []CategoryComparison `json:"categories"`
	Summary    string               `json:"summary"`
}

// CompareToIndustry diffs the audit's category scores against the industry
// benchmark row, falling back to the default row for unknown industries.
func CompareToIndustry(m *AuditMetrics, industry string) BenchmarkComparison {
	key := strings.ToLower(strings.TrimSpace(industry))
	row, ok := industryBenchmarks[key]
	if !ok {
		key = "default"
		row = industryBenchmarks[key]
	}

	categories := []CategoryComparison{
		compare("performance", m.Performance, row.Performance),
		compare("seo", m.SEO, row.SEO),
		compare("accessibility", m.Accessibility, row.Accessibility),
		compare("security", m.Security, row.Security),
	}

	above := 0
	for _, c := range categories {
		if c.Diff > 0 {
			above++
		}
	}

	return BenchmarkComparison{
		Industry:   key,
		Categories: categories,
		Summary: fmt.Sprintf("The site outperforms the %s industry average in %d of %d categories.",
			key, above, len(categories)),
	}
}

func compare(category string, score, benchmark int) CategoryComparison {
	c := CategoryComparison{
		Category:  category,
		Score:     score,
		Benchmark: benchmark,
		Diff:      score - benchmark,
	}
	switch {
	case c.Diff > 0:
		c.Label = "above average"
	case c.Diff < 0:
		c.Label = "below average"
	default:
		c.Label = "average"
	}
	return c
}
