package page

import (
	"encoding/json"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/uptrade-media/audit-engine/internal/domain/audits"
)

const maxSchemaRecommendations = 5

var articlePathRe = regexp.MustCompile(`^/(insights|blog|articles)/`)

// extractSchema parses every JSON-LD block on the page and derives the
// structured-data summary: found types, per-instance attribute flags, the
// recommendation list and the schema score.
func extractSchema(doc *goquery.Document, targetURL string) audits.SchemaMarkup {
	m := audits.SchemaMarkup{Types: []string{}}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		nodes, ok := parseJSONLD(s.Text())
		if !ok {
			m.HasParseErrors = true
			return
		}
		for _, node := range nodes {
			d := describeNode(node)
			if d.Type == "" {
				continue
			}
			m.Count++
			m.Details = append(m.Details, d)
		}
	})

	seen := map[string]bool{}
	for _, d := range m.Details {
		if !seen[d.Type] {
			seen[d.Type] = true
			m.Types = append(m.Types, d.Type)
		}
	}
	sort.Strings(m.Types)
	m.Found = m.Count > 0

	m.HasMicrodata = doc.Find("[itemscope], [itemtype]").Length() > 0
	m.Recommended = recommendSchemas(doc, targetURL, seen)
	m.Score = schemaScore(m)
	return m
}

// parseJSONLD flattens one script block into its schema nodes: a bare
// object, a top-level array, or an @graph collection.
func parseJSONLD(raw string) ([]map[string]any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, false
	}

	var nodes []map[string]any
	var collect func(v interface{})
	collect = func(v interface{}) {
		switch t := v.(type) {
		case map[string]any:
			if graph, ok := t["@graph"].([]any); ok {
				for _, g := range graph {
					collect(g)
				}
				return
			}
			nodes = append(nodes, t)
		case []any:
			for _, e := range t {
				collect(e)
			}
		}
	}
	collect(parsed)
	return nodes, true
}

func describeNode(node map[string]any) audits.SchemaDetail {
	d := audits.SchemaDetail{}
	switch t := node["@type"].(type) {
	case string:
		d.Type = t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				d.Type = s
			}
		}
	}
	_, d.HasName = node["name"]
	_, d.HasDescription = node["description"]
	_, d.HasURL = node["url"]
	_, d.HasRating = node["aggregateRating"]
	if !d.HasReviews {
		_, d.HasReviews = node["review"]
	}
	if !d.HasReviews {
		_, d.HasReviews = node["reviews"]
	}
	return d
}

//
// ==== RECOMMENDATIONS ====
//

var (
	ecommerceCues = []string{"add to cart", "checkout", "buy now", "shop now", "add to basket"}
	serviceCues   = []string{"our services", "request a quote", "free consultation", "book a consultation", "schedule a call"}
)

// recommendSchemas suggests missing schema types in a fixed priority order,
// stopping at five. Product and Service are mutually exclusive: service
// businesses are classified first so they are never pushed toward Product.
func recommendSchemas(doc *goquery.Document, targetURL string, present map[string]bool) []audits.SchemaRecommendation {
	text := strings.ToLower(doc.Text())
	pagePath := pathOf(targetURL)

	hasAny := func(types ...string) bool {
		for _, t := range types {
			if present[t] {
				return true
			}
		}
		return false
	}
	containsAny := func(cues []string) bool {
		for _, c := range cues {
			if strings.Contains(text, c) {
				return true
			}
		}
		return false
	}

	isService := hasAny("Service") || containsAny(serviceCues)

	var recs []audits.SchemaRecommendation
	add := func(typ, reason string) {
		if len(recs) < maxSchemaRecommendations {
			recs = append(recs, audits.SchemaRecommendation{Type: typ, Reason: reason})
		}
	}

	if !hasAny("Organization", "LocalBusiness") {
		add("Organization", "No business identity markup found; search engines cannot attribute the site to an entity.")
	}
	if !hasAny("WebSite") {
		add("WebSite", "WebSite markup enables the sitelinks search box in results.")
	}
	if !hasAny("WebPage") {
		add("WebPage", "WebPage markup gives search engines per-page context.")
	}
	if !hasAny("FAQPage") && isFAQPage(text) {
		add("FAQPage", "The page reads like an FAQ; FAQPage markup unlocks expandable rich results.")
	}
	if !hasAny("Product") && containsAny(ecommerceCues) && !isService {
		add("Product", "E-commerce signals detected without Product markup for price and availability rich results.")
	}
	if !hasAny("Service") && isService {
		add("Service", "Service offerings detected without Service markup describing them.")
	}
	if !hasAny("Article", "BlogPosting") && isArticlePage(doc, pagePath, text) {
		add("Article", "Editorial content detected; Article markup improves visibility in news and discover surfaces.")
	}
	if !hasAny("BreadcrumbList") && hasBreadcrumbs(doc, text) {
		add("BreadcrumbList", "Breadcrumb navigation present without BreadcrumbList markup for result breadcrumbs.")
	}

	return recs
}

func isFAQPage(text string) bool {
	return strings.Contains(text, "frequently asked") || strings.Count(text, "faq") >= 2
}

func isArticlePage(doc *goquery.Document, pagePath, text string) bool {
	if articlePathRe.MatchString(pagePath) {
		return true
	}
	if doc.Find("article").Length() == 0 {
		return false
	}
	if doc.Find("time[datetime]").Length() > 0 {
		return true
	}
	if doc.Find(`meta[property^="article:"]`).Length() > 0 {
		return true
	}
	return strings.Contains(text, "published")
}

func hasBreadcrumbs(doc *goquery.Document, text string) bool {
	if doc.Find(`[class*="breadcrumb"], [aria-label="breadcrumb"], [aria-label="Breadcrumb"]`).Length() > 0 {
		return true
	}
	return strings.Contains(text, "›") || strings.Contains(text, "»")
}

//
// ==== SCORE ====
//

// schemaScore applies the additive bonus table, capped at 100.
func schemaScore(m audits.SchemaMarkup) int {
	score := 0
	if m.Found {
		score += 30
	}
	switch {
	case len(m.Types) >= 3:
		score += 20
	case len(m.Types) >= 1:
		score += 10
	}

	has := func(types ...string) bool {
		for _, want := range types {
			for _, t := range m.Types {
				if t == want {
					return true
				}
			}
		}
		return false
	}

	if has("Organization", "LocalBusiness") {
		score += 15
	}
	if has("WebSite") {
		score += 10
	}
	if has("WebPage") {
		score += 5
	}
	if has("FAQPage", "Product", "Article", "BlogPosting", "BreadcrumbList") {
		score += 10
	}

	var anyRating, anyReviews bool
	for _, d := range m.Details {
		anyRating = anyRating || d.HasRating
		anyReviews = anyReviews || d.HasReviews
	}
	if anyRating {
		score += 5
	}
	if anyReviews {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "/"
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
