package audits

// Severity enum for issue lists
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue is one entry in an ordered issue list.
type Issue struct {
	Title          string   `json:"title"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	Details        string   `json:"details,omitempty"`
}

// SecurityFlags mirrors the header checks the security score is built from.
type SecurityFlags struct {
	HTTPS               bool `json:"https"`
	HSTS                bool `json:"hsts"`
	XFrameOptions       bool `json:"x_frame_options"`
	XContentTypeOptions bool `json:"x_content_type_options"`
	CSP                 bool `json:"csp"`
	ReferrerPolicy      bool `json:"referrer_policy"`
}

// AuditMetrics is the canonical report core produced once per run.
// Derived once, then treated as immutable.
type AuditMetrics struct {
	Performance   int `json:"performance"`
	SEO           int `json:"seo"`
	Accessibility int `json:"accessibility"`
	BestPractices int `json:"best_practices"`
	PWA           int `json:"pwa"`

	// LighthouseSEO is the raw provider SEO score before schema blending.
	LighthouseSEO int `json:"lighthouse_seo"`

	Security int   `json:"security"`
	Overall  int   `json:"overall"`
	Grade    Grade `json:"grade"`

	LCPMs        float64 `json:"lcp_ms"`
	FCPMs        float64 `json:"fcp_ms"`
	CLS          float64 `json:"cls"`
	TBTMs        float64 `json:"tbt_ms"`
	TTIMs        float64 `json:"tti_ms"`
	SpeedIndexMs float64 `json:"speed_index_ms"`

	SEOIssues         []Issue       `json:"seo_issues"`
	PerformanceIssues []Issue       `json:"performance_issues"`
	SecurityIssues    SecurityFlags `json:"security_issues"`

	PriorityActions []string     `json:"priority_actions"`
	InsightsSummary string       `json:"insights_summary"`
	Schema          SchemaMarkup `json:"schema_markup"`
}
