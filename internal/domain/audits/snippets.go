package audits

import (
	"fmt"
	"strings"
)

// CodeSnippet is one ready-to-paste fix template gated on a detected issue.
type CodeSnippet struct {
	Title       string `json:"title"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// GenerateCodeSnippets emits up to five fix templates, each gated by the
// corresponding issue actually being present.
func GenerateCodeSnippets(m *AuditMetrics, page *PageFacts, resources ResourceBreakdown) []CodeSnippet {
	snippets := []CodeSnippet{}

	if m.LCPMs > lcpWarningMs && len(resources.Images.Entries) > 0 {
		snippets = append(snippets, CodeSnippet{
			Title:    "Lazy-load below-the-fold images",
			Language: "html",
			Code: `<img src="hero.webp" width="1200" height="630" fetchpriority="high" alt="...">
<img src="gallery-1.webp" width="600" height="400" loading="lazy" alt="...">`,
			Description: "Keep the LCP image eager with fetchpriority, lazy-load everything below the fold.",
		})
	}

	if len(resources.ThirdParty.Entries) > 0 {
		var b strings.Builder
		seen := map[string]bool{}
		for _, e := range resources.ThirdParty.Entries {
			origin := hostOf(e.URL)
			if origin == "" || seen[origin] {
				continue
			}
			seen[origin] = true
			fmt.Fprintf(&b, "<link rel=\"preconnect\" href=\"https://%s\" crossorigin>\n", origin)
			if len(seen) == 3 {
				break
			}
		}
		snippets = append(snippets, CodeSnippet{
			Title:       "Preconnect to third-party origins",
			Language:    "html",
			Code:        strings.TrimRight(b.String(), "\n"),
			Description: "Warm up connections to the heaviest third-party origins before their resources are requested.",
		})
	}

	if m.Security < 100 {
		snippets = append(snippets, CodeSnippet{
			Title:    "Add security headers",
			Language: "text",
			Code: `Strict-Transport-Security: max-age=31536000; includeSubDomains
X-Frame-Options: DENY
X-Content-Type-Options: nosniff
Content-Security-Policy: default-src 'self'
Referrer-Policy: strict-origin-when-cross-origin`,
			Description: "Serve these response headers from the CDN or origin to close the flagged gaps.",
		})
	}

	if page != nil && page.MetaDescriptionLength == 0 {
		snippets = append(snippets, CodeSnippet{
			Title:       "Add a meta description",
			Language:    "html",
			Code:        `<meta name="description" content="A 120-160 character summary of this page, including the primary keyword and a reason to click.">`,
			Description: "Search engines use this text for the result snippet when it is present and relevant.",
		})
	}

	if m.CLS > clsWarning {
		snippets = append(snippets, CodeSnippet{
			Title:    "Prevent layout shift",
			Language: "css",
			Code: `img, video { height: auto; }
img[width][height] { aspect-ratio: attr(width) / attr(height); }
.ad-slot { min-height: 250px; }`,
			Description: "Reserve space for media and late-loading embeds so content does not jump.",
		})
	}

	return snippets
}
