package audits

// Narrative is the AI-generated executive summary with prioritized actions.
// Nil whenever the narrative step degraded; the rule-based text stands in.
type Narrative struct {
	Summary string   `json:"summary" validate:"required"`
	Actions []string `json:"priority_actions" validate:"required,min=1,dive,required"`
}

// Report is the full persisted summary payload: the aggregated metrics plus
// every derived insight, written into the job's summary column and uploaded
// as the report artifact.
type Report struct {
	TargetURL           string              `json:"target_url"`
	Metrics             AuditMetrics        `json:"metrics"`
	Resources           ResourceBreakdown   `json:"resources"`
	Opportunities       []Opportunity       `json:"opportunities"`
	AccessibilityIssues []AccessibilityIssue `json:"accessibility_issues"`
	BusinessImpact      BusinessImpact      `json:"business_impact"`
	Benchmark           BenchmarkComparison `json:"benchmark"`
	Snippets            []CodeSnippet       `json:"snippets"`
	PwaIssues           []PwaIssue          `json:"pwa_issues"`
	Narrative           *Narrative          `json:"narrative,omitempty"`
}
