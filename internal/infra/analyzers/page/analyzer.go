package page

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"

	"github.com/uptrade-media/audit-engine/internal/domain/audits"
	"github.com/uptrade-media/audit-engine/internal/infra/analyzers/fetch"
)

// Security header weights, summed into the 0-100 security score.
const (
	httpsWeight          = 30
	hstsWeight           = 15
	xFrameWeight         = 15
	xContentTypeWeight   = 15
	cspWeight            = 15
	referrerPolicyWeight = 10
)

// Analyzer extracts SEO and security signals from the target document.
// Fetch is the shared per-run page cache, so the PWA analyzer reuses the
// same response.
type Analyzer struct {
	Fetch *fetch.Cache
}

func New(cache *fetch.Cache) *Analyzer {
	return &Analyzer{Fetch: cache}
}

// Analyze never fails the audit: any error along the way degrades to the
// zero-signal facts.
func (a *Analyzer) Analyze(ctx context.Context, targetURL string) (*audits.PageFacts, error) {
	page, err := a.Fetch.Get(ctx, targetURL)
	if err != nil {
		log.Warn().Err(err).Str("url", targetURL).Msg("page fetch failed")
		return audits.DegradedPageFacts(), nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		log.Warn().Err(err).Str("url", targetURL).Msg("page parse failed")
		return audits.DegradedPageFacts(), nil
	}

	f := &audits.PageFacts{}

	f.Title = strings.TrimSpace(doc.Find("title").First().Text())
	f.TitleLength = len(f.Title)

	f.MetaDescription, _ = firstAttr(doc, `meta[name="description"]`, "content")
	f.MetaDescription = strings.TrimSpace(f.MetaDescription)
	f.MetaDescriptionLength = len(f.MetaDescription)

	h1s := doc.Find("h1")
	f.H1Count = h1s.Length()
	f.HasH1 = f.H1Count > 0
	if f.HasH1 {
		f.H1Text = strings.TrimSpace(h1s.First().Text())
	}

	f.Canonical, _ = firstAttr(doc, `link[rel="canonical"]`, "href")
	f.OGTitle, _ = firstAttr(doc, `meta[property="og:title"]`, "content")
	f.OGDescription, _ = firstAttr(doc, `meta[property="og:description"]`, "content")
	f.OGImage, _ = firstAttr(doc, `meta[property="og:image"]`, "content")
	_, f.HasViewport = firstAttr(doc, `meta[name="viewport"]`, "content")

	f.IsHTTPS = strings.HasPrefix(strings.ToLower(targetURL), "https://")
	f.Headers = securityHeaders(page)
	f.SecurityScore = securityScore(f.IsHTTPS, f.Headers)

	f.Schema = extractSchema(doc, targetURL)
	f.HasJSONLD = f.Schema.Found

	f.HasRobotsTxt = a.probe(ctx, targetURL, "/robots.txt")
	f.HasSitemap = a.probe(ctx, targetURL, "/sitemap.xml")

	return f, nil
}

// probe checks the existence of a well-known path on the target's origin.
// Any error is swallowed as absent.
func (a *Analyzer) probe(ctx context.Context, targetURL, wellKnown string) bool {
	u, err := url.Parse(targetURL)
	if err != nil || u.Host == "" {
		return false
	}
	resp, err := a.Fetch.Head(ctx, u.Scheme+"://"+u.Host+wellKnown)
	if err != nil {
		return false
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func securityHeaders(p *fetch.Page) audits.SecurityHeaders {
	has := func(name string) bool { return p.Header.Get(name) != "" }
	return audits.SecurityHeaders{
		HSTS:                has("Strict-Transport-Security"),
		XFrameOptions:       has("X-Frame-Options"),
		XContentTypeOptions: has("X-Content-Type-Options"),
		CSP:                 has("Content-Security-Policy"),
		ReferrerPolicy:      has("Referrer-Policy"),
	}
}

func securityScore(isHTTPS bool, h audits.SecurityHeaders) int {
	score := 0
	if isHTTPS {
		score += httpsWeight
	}
	if h.HSTS {
		score += hstsWeight
	}
	if h.XFrameOptions {
		score += xFrameWeight
	}
	if h.XContentTypeOptions {
		score += xContentTypeWeight
	}
	if h.CSP {
		score += cspWeight
	}
	if h.ReferrerPolicy {
		score += referrerPolicyWeight
	}
	return score
}

func firstAttr(doc *goquery.Document, selector, attr string) (string, bool) {
	return doc.Find(selector).First().Attr(attr)
}
