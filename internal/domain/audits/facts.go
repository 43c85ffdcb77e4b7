package audits

// StrategyScores holds the external provider's category scores for one
// strategy, already normalized to 0-100. A nil field means the provider did
// not return that category.
type StrategyScores struct {
	Performance   *float64 `json:"performance,omitempty"`
	Accessibility *float64 `json:"accessibility,omitempty"`
	BestPractices *float64 `json:"best_practices,omitempty"`
	SEO           *float64 `json:"seo,omitempty"`
}

// CoreWebVitals in milliseconds except CLS (unitless). Zero means the
// provider did not report the metric; every downstream rule is a strict
// greater-than comparison so zero never trips a threshold.
type CoreWebVitals struct {
	LCPMs        float64 `json:"lcp_ms"`
	FCPMs        float64 `json:"fcp_ms"`
	CLS          float64 `json:"cls"`
	TBTMs        float64 `json:"tbt_ms"`
	TTIMs        float64 `json:"tti_ms"`
	SpeedIndexMs float64 `json:"speed_index_ms"`
	FIDMs        float64 `json:"fid_ms"`
}

// NetworkRequest is one raw request entry from the provider's network audit.
type NetworkRequest struct {
	URL               string `json:"url"`
	TransferSizeBytes int64  `json:"transfer_size_bytes"`
}

// AuditEntry is one provider audit result, kept for opportunity and
// accessibility extraction.
type AuditEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Score       *float64 `json:"score,omitempty"`
	DetailsType string   `json:"details_type,omitempty"`
	SavingsMs   float64  `json:"savings_ms,omitempty"`
}

// PerformanceFacts is the immutable output of the performance analyzer.
type PerformanceFacts struct {
	Mobile            *StrategyScores  `json:"mobile,omitempty"`
	Desktop           *StrategyScores  `json:"desktop,omitempty"`
	Vitals            CoreWebVitals    `json:"vitals"`
	Requests          []NetworkRequest `json:"requests,omitempty"`
	Audits            map[string]AuditEntry
	AccessibilityRefs []string
}

// HasData reports whether at least one strategy resolved. When false the
// whole audit is fatal.
func (f *PerformanceFacts) HasData() bool {
	return f != nil && (f.Mobile != nil || f.Desktop != nil)
}

// SecurityHeaders presence flags from the page response.
type SecurityHeaders struct {
	HSTS                bool `json:"hsts"`
	XFrameOptions       bool `json:"x_frame_options"`
	XContentTypeOptions bool `json:"x_content_type_options"`
	CSP                 bool `json:"csp"`
	ReferrerPolicy      bool `json:"referrer_policy"`
}

// SchemaDetail records attribute presence for one parsed schema instance.
type SchemaDetail struct {
	Type           string `json:"type"`
	HasName        bool   `json:"has_name"`
	HasDescription bool   `json:"has_description"`
	HasURL         bool   `json:"has_url"`
	HasRating      bool   `json:"has_rating"`
	HasReviews     bool   `json:"has_reviews"`
}

// SchemaRecommendation is one suggested schema type with its trigger reason.
type SchemaRecommendation struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// SchemaMarkup summarizes structured-data markup found on the page.
type SchemaMarkup struct {
	Found          bool                   `json:"found"`
	Count          int                    `json:"count"`
	Types          []string               `json:"types"`
	Details        []SchemaDetail         `json:"details,omitempty"`
	Recommended    []SchemaRecommendation `json:"recommended,omitempty"`
	Score          int                    `json:"score"`
	HasParseErrors bool                   `json:"has_parse_errors"`
	HasMicrodata   bool                   `json:"has_microdata"`
}

// PageFacts is the output of the page analyzer.
type PageFacts struct {
	Title                 string          `json:"title"`
	TitleLength           int             `json:"title_length"`
	MetaDescription       string          `json:"meta_description"`
	MetaDescriptionLength int             `json:"meta_description_length"`
	HasH1                 bool            `json:"has_h1"`
	H1Count               int             `json:"h1_count"`
	H1Text                string          `json:"h1_text,omitempty"`
	Canonical             string          `json:"canonical,omitempty"`
	OGTitle               string          `json:"og_title,omitempty"`
	OGDescription         string          `json:"og_description,omitempty"`
	OGImage               string          `json:"og_image,omitempty"`
	HasJSONLD             bool            `json:"has_json_ld"`
	HasViewport           bool            `json:"has_viewport"`
	HasRobotsTxt          bool            `json:"has_robots_txt"`
	HasSitemap            bool            `json:"has_sitemap"`
	IsHTTPS               bool            `json:"is_https"`
	Headers               SecurityHeaders `json:"headers"`
	SecurityScore         int             `json:"security_score"`
	Schema                SchemaMarkup    `json:"schema_markup"`
}

// DegradedPageFacts is what the orchestrator uses when page analysis fails
// outright. SEO-check problems never fail the whole audit.
func DegradedPageFacts() *PageFacts {
	return &PageFacts{
		SecurityScore: 0,
		IsHTTPS:       false,
		Schema:        SchemaMarkup{Found: false, Types: []string{}, Score: 0},
	}
}

// ManifestIcon is one icon entry from a web app manifest.
type ManifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes,omitempty"`
}

// ManifestFacts summarizes a fetched web app manifest.
type ManifestFacts struct {
	HasName            bool           `json:"has_name"`
	HasIcons           bool           `json:"has_icons"`
	HasStartURL        bool           `json:"has_start_url"`
	HasDisplay         bool           `json:"has_display"`
	HasThemeColor      bool           `json:"has_theme_color"`
	HasBackgroundColor bool           `json:"has_background_color"`
	Icons              []ManifestIcon `json:"icons,omitempty"`
}

// PwaFacts is the output of the PWA analyzer.
type PwaFacts struct {
	IsHTTPS           bool           `json:"is_https"`
	HasManifestLink   bool           `json:"has_manifest_link"`
	HasServiceWorker  bool           `json:"has_service_worker"`
	HasAppleTouchIcon bool           `json:"has_apple_touch_icon"`
	HasThemeColor     bool           `json:"has_theme_color"`
	HasViewport       bool           `json:"has_viewport"`
	ManifestURL       string         `json:"manifest_url,omitempty"`
	Manifest          *ManifestFacts `json:"manifest,omitempty"`
	Score             int            `json:"score"`
}

// DegradedPwaFacts is the zero-score fallback when the PWA analyzer fails.
func DegradedPwaFacts() *PwaFacts {
	return &PwaFacts{Score: 0}
}
