package audits

import (
	"fmt"
	"math"
)

// CWV rule thresholds (ms except CLS)
const (
	lcpWarningMs  = 2500
	lcpCriticalMs = 4000
	fcpWarningMs  = 1800
	clsWarning    = 0.1
	clsCritical   = 0.25
	tbtWarningMs  = 200
	tbtCriticalMs = 600
	ttiWarningMs  = 3800
	ttiCriticalMs = 7300
)

// Summarize combines the three fact bundles into one AuditMetrics record.
// Pure function, no I/O. Calling it twice with identical inputs yields an
// identical result.
func Summarize(perf *PerformanceFacts, page *PageFacts, pwaScore int) AuditMetrics {
	if perf == nil {
		perf = &PerformanceFacts{}
	}
	if page == nil {
		page = DegradedPageFacts()
	}

	mobilePerf := categoryScore(perf.Mobile, func(s *StrategyScores) *float64 { return s.Performance })
	desktopPerf := categoryScore(perf.Desktop, func(s *StrategyScores) *float64 { return s.Performance })

	// Desktop is never queried under the current fetcher scope, so this mean
	// works out to round(mobile/2). The averaging formula stays as-is.
	performance := roundMean(mobilePerf, desktopPerf)

	lighthouseSEO := int(math.Round(categoryScore(perf.Mobile, func(s *StrategyScores) *float64 { return s.SEO })))
	traditional := traditionalSEOScore(lighthouseSEO, page)

	// Structured data is always a 10% modifier, never the dominant signal.
	seo := int(math.Round(float64(traditional)*0.9 + float64(page.Schema.Score)*0.1))

	accessibility := int(math.Round(categoryScore(perf.Mobile, func(s *StrategyScores) *float64 { return s.Accessibility })))
	if accessibility == 0 {
		// Absent or zero means "unknown", not "zero accessibility".
		accessibility = 60
	}

	bestPractices := int(math.Round(categoryScore(perf.Mobile, func(s *StrategyScores) *float64 { return s.BestPractices })))

	security := page.SecurityScore

	// bestPractices and pwa are excluded from the overall score even though
	// both are computed and displayed.
	overall := int(math.Round((float64(performance) + float64(seo) + float64(security) + float64(accessibility)) / 4))

	m := AuditMetrics{
		Performance:   performance,
		SEO:           seo,
		Accessibility: accessibility,
		BestPractices: bestPractices,
		PWA:           pwaScore,
		LighthouseSEO: lighthouseSEO,
		Security:      security,
		Overall:       overall,
		Grade:         GradeFor(overall),
		LCPMs:         perf.Vitals.LCPMs,
		FCPMs:         perf.Vitals.FCPMs,
		CLS:           perf.Vitals.CLS,
		TBTMs:         perf.Vitals.TBTMs,
		TTIMs:         perf.Vitals.TTIMs,
		SpeedIndexMs:  perf.Vitals.SpeedIndexMs,
		SEOIssues:     generateSEOIssues(page),
		SecurityIssues: SecurityFlags{
			HTTPS:               page.IsHTTPS,
			HSTS:                page.Headers.HSTS,
			XFrameOptions:       page.Headers.XFrameOptions,
			XContentTypeOptions: page.Headers.XContentTypeOptions,
			CSP:                 page.Headers.CSP,
			ReferrerPolicy:      page.Headers.ReferrerPolicy,
		},
		Schema: page.Schema,
	}
	m.PerformanceIssues = generatePerformanceIssues(perf.Vitals)
	m.PriorityActions = generatePriorityActions(&m)
	m.InsightsSummary = ruleBasedSummary(&m)
	return m
}

// GradeFor maps an overall score to its letter grade.
func GradeFor(overall int) Grade {
	switch {
	case overall >= 90:
		return GradeA
	case overall >= 80:
		return GradeB
	case overall >= 70:
		return GradeC
	case overall >= 60:
		return GradeD
	default:
		return GradeF
	}
}

func categoryScore(s *StrategyScores, pick func(*StrategyScores) *float64) float64 {
	if s == nil {
		return 0
	}
	v := pick(s)
	if v == nil {
		return 0
	}
	return *v
}

func roundMean(a, b float64) int {
	return int(math.Round((a + b) / 2))
}

// traditionalSEOScore uses the provider's SEO score when it is present and
// nonzero, otherwise falls back to on-page banding.
func traditionalSEOScore(lighthouseSEO int, page *PageFacts) int {
	if lighthouseSEO > 0 {
		return lighthouseSEO
	}

	score := 40
	switch {
	case page.TitleLength >= 30 && page.TitleLength <= 60:
		score += 15
	case page.TitleLength > 0:
		score += 8
	}
	switch {
	case page.MetaDescriptionLength >= 120 && page.MetaDescriptionLength <= 160:
		score += 15
	case page.MetaDescriptionLength > 0:
		score += 8
	}
	switch {
	case page.H1Count == 1:
		score += 10
	case page.HasH1:
		score += 5
	}
	if page.HasRobotsTxt {
		score += 7
	}
	if page.HasSitemap {
		score += 8
	}
	if page.OGTitle != "" {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	return score
}

func generateSEOIssues(page *PageFacts) []Issue {
	issues := []Issue{}

	switch {
	case page.TitleLength == 0:
		issues = append(issues, Issue{
			Title:          "Missing Page Title",
			Severity:       SeverityCritical,
			Description:    "The page has no <title> tag.",
			Recommendation: "Add a descriptive title between 30 and 60 characters.",
		})
	case page.TitleLength < 30:
		issues = append(issues, Issue{
			Title:          "Title Too Short",
			Severity:       SeverityWarning,
			Description:    fmt.Sprintf("The title is %d characters; search engines favor 30-60.", page.TitleLength),
			Recommendation: "Expand the title to describe the page and include primary keywords.",
			Details:        page.Title,
		})
	case page.TitleLength > 60:
		issues = append(issues, Issue{
			Title:          "Title Too Long",
			Severity:       SeverityWarning,
			Description:    fmt.Sprintf("The title is %d characters and will be truncated in results.", page.TitleLength),
			Recommendation: "Shorten the title to 60 characters or fewer.",
			Details:        page.Title,
		})
	}

	switch {
	case page.MetaDescriptionLength == 0:
		issues = append(issues, Issue{
			Title:          "Missing Meta Description",
			Severity:       SeverityCritical,
			Description:    "The page has no meta description.",
			Recommendation: "Add a meta description between 120 and 160 characters.",
		})
	case page.MetaDescriptionLength < 120:
		issues = append(issues, Issue{
			Title:          "Meta Description Too Short",
			Severity:       SeverityInfo,
			Description:    fmt.Sprintf("The meta description is %d characters; 120-160 performs best.", page.MetaDescriptionLength),
			Recommendation: "Expand the description to summarize the page for searchers.",
		})
	case page.MetaDescriptionLength > 160:
		issues = append(issues, Issue{
			Title:          "Meta Description Too Long",
			Severity:       SeverityWarning,
			Description:    fmt.Sprintf("The meta description is %d characters and will be truncated.", page.MetaDescriptionLength),
			Recommendation: "Trim the description to 160 characters or fewer.",
		})
	}

	switch {
	case !page.HasH1:
		issues = append(issues, Issue{
			Title:          "Missing H1 Tag",
			Severity:       SeverityCritical,
			Description:    "The page has no H1 heading.",
			Recommendation: "Add a single H1 that states the page topic.",
		})
	case page.H1Count > 1:
		issues = append(issues, Issue{
			Title:          "Multiple H1 Tags",
			Severity:       SeverityWarning,
			Description:    fmt.Sprintf("The page has %d H1 headings.", page.H1Count),
			Recommendation: "Keep exactly one H1 per page.",
		})
	}

	if page.Canonical == "" {
		issues = append(issues, Issue{
			Title:          "Missing Canonical Tag",
			Severity:       SeverityInfo,
			Description:    "No canonical link was found.",
			Recommendation: "Add a canonical link to avoid duplicate-content dilution.",
		})
	}
	if !page.HasRobotsTxt {
		issues = append(issues, Issue{
			Title:          "Missing robots.txt",
			Severity:       SeverityWarning,
			Description:    "No robots.txt file was found at the site root.",
			Recommendation: "Publish a robots.txt that references the sitemap.",
		})
	}
	if !page.HasSitemap {
		issues = append(issues, Issue{
			Title:          "Missing XML Sitemap",
			Severity:       SeverityWarning,
			Description:    "No sitemap.xml file was found at the site root.",
			Recommendation: "Generate a sitemap and submit it to search consoles.",
		})
	}
	if page.OGTitle == "" {
		issues = append(issues, Issue{
			Title:          "Missing Open Graph Tags",
			Severity:       SeverityInfo,
			Description:    "No og:title tag was found, so shares render without a preview.",
			Recommendation: "Add og:title, og:description, and og:image meta tags.",
		})
	}
	switch {
	case !page.Schema.Found:
		issues = append(issues, Issue{
			Title:          "Missing Structured Data",
			Severity:       SeverityWarning,
			Description:    "No schema.org markup was found on the page.",
			Recommendation: "Add JSON-LD structured data for rich results eligibility.",
		})
	case page.Schema.Score < 50:
		issues = append(issues, Issue{
			Title:          "Limited Structured Data",
			Severity:       SeverityInfo,
			Description:    "Schema markup exists but covers few of the recommended types.",
			Recommendation: "Extend the markup with the recommended schema types.",
		})
	}

	return issues
}

func generatePerformanceIssues(v CoreWebVitals) []Issue {
	issues := []Issue{}

	if v.LCPMs > lcpWarningMs {
		issues = append(issues, Issue{
			Title:          "Slow Largest Contentful Paint",
			Severity:       severityOver(v.LCPMs, lcpCriticalMs),
			Description:    fmt.Sprintf("LCP is %.0fms; good pages stay under %dms.", v.LCPMs, lcpWarningMs),
			Recommendation: "Optimize the largest above-the-fold element: compress hero images, preload critical assets, reduce server response time.",
		})
	}
	if v.FCPMs > fcpWarningMs {
		issues = append(issues, Issue{
			Title:          "Slow First Contentful Paint",
			Severity:       SeverityWarning,
			Description:    fmt.Sprintf("FCP is %.0fms; good pages stay under %dms.", v.FCPMs, fcpWarningMs),
			Recommendation: "Eliminate render-blocking resources and inline critical CSS.",
		})
	}
	if v.CLS > clsWarning {
		issues = append(issues, Issue{
			Title:          "Layout Shift Detected",
			Severity:       severityOver(v.CLS, clsCritical),
			Description:    fmt.Sprintf("CLS is %.2f; good pages stay under %.1f.", v.CLS, clsWarning),
			Recommendation: "Reserve space for images, ads, and embeds with explicit dimensions.",
		})
	}
	if v.TBTMs > tbtWarningMs {
		issues = append(issues, Issue{
			Title:          "High Total Blocking Time",
			Severity:       severityOver(v.TBTMs, tbtCriticalMs),
			Description:    fmt.Sprintf("TBT is %.0fms; good pages stay under %dms.", v.TBTMs, tbtWarningMs),
			Recommendation: "Split long JavaScript tasks and defer non-critical scripts.",
		})
	}
	if v.TTIMs > ttiWarningMs {
		issues = append(issues, Issue{
			Title:          "Slow Time to Interactive",
			Severity:       severityOver(v.TTIMs, ttiCriticalMs),
			Description:    fmt.Sprintf("TTI is %.0fms; good pages stay under %dms.", v.TTIMs, ttiWarningMs),
			Recommendation: "Reduce JavaScript payloads and avoid long main-thread work.",
		})
	}

	return issues
}

func severityOver(value, criticalThreshold float64) Severity {
	if value > criticalThreshold {
		return SeverityCritical
	}
	return SeverityWarning
}

// generatePriorityActions appends each matching action independently, in
// rule order. Conditions are not mutually exclusive.
func generatePriorityActions(m *AuditMetrics) []string {
	actions := []string{}

	if hasSeverity(m.SEOIssues, SeverityCritical) {
		actions = append(actions, "Fix critical SEO issues to protect search visibility")
	}
	if hasSeverity(m.PerformanceIssues, SeverityCritical) {
		actions = append(actions, "Address critical performance problems affecting user experience")
	}
	switch {
	case m.Accessibility < 70:
		actions = append(actions, "Improve accessibility to meet WCAG guidelines")
	case m.Accessibility < 90:
		actions = append(actions, "Enhance accessibility for a wider audience")
	}
	if m.Security < 60 {
		actions = append(actions, "Add missing security headers to protect visitors")
	}
	if m.BestPractices < 80 {
		actions = append(actions, "Follow web best practices flagged by the audit")
	}
	if !m.Schema.Found || m.Schema.Score < 50 {
		actions = append(actions, "Implement structured data markup for rich results")
	}

	return actions
}

func hasSeverity(issues []Issue, sev Severity) bool {
	for _, i := range issues {
		if i.Severity == sev {
			return true
		}
	}
	return false
}

func ruleBasedSummary(m *AuditMetrics) string {
	critical := 0
	for _, i := range m.SEOIssues {
		if i.Severity == SeverityCritical {
			critical++
		}
	}
	for _, i := range m.PerformanceIssues {
		if i.Severity == SeverityCritical {
			critical++
		}
	}

	if critical > 0 {
		return fmt.Sprintf("The site scored %d/100 (grade %s) with %d critical issue(s) requiring immediate attention. Resolving the priority actions below should produce a measurable improvement.",
			m.Overall, m.Grade, critical)
	}
	return fmt.Sprintf("The site scored %d/100 (grade %s) with no critical issues. The remaining recommendations are incremental optimizations.",
		m.Overall, m.Grade)
}
