package page

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/uptrade-media/audit-engine/internal/domain/audits"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return doc
}

func TestExtractSchemaGraphFlattening(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@context":"https://schema.org","@graph":[
		{"@type":"Organization","name":"Acme"},
		{"@type":"WebSite","url":"https://acme.example/"},
		{"@type":"WebPage","name":"Home"}
	]}
	</script></head><body></body></html>`

	m := extractSchema(docFrom(t, html), "https://acme.example/")

	if !m.Found || m.Count != 3 {
		t.Fatalf("Found=%v Count=%d, want 3 nodes from the graph", m.Found, m.Count)
	}
	want := []string{"Organization", "WebPage", "WebSite"}
	if len(m.Types) != 3 {
		t.Fatalf("Types = %v, want %v", m.Types, want)
	}
	for i, w := range want {
		if m.Types[i] != w {
			t.Errorf("Types[%d] = %s, want %s (sorted)", i, m.Types[i], w)
		}
	}
	// 30 found + 20 three types + 15 org + 10 website + 5 webpage
	if m.Score != 80 {
		t.Errorf("Score = %d, want 80", m.Score)
	}
}

func TestExtractSchemaRatingsAndReviews(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@type":"LocalBusiness","name":"Acme","aggregateRating":{"ratingValue":"4.8"},"review":[{"author":"Pat"}]}
	</script></head><body></body></html>`

	m := extractSchema(docFrom(t, html), "https://acme.example/")

	// 30 found + 10 one type + 15 business + 5 rating + 5 reviews
	if m.Score != 65 {
		t.Errorf("Score = %d, want 65", m.Score)
	}
	if len(m.Details) != 1 || !m.Details[0].HasRating || !m.Details[0].HasReviews {
		t.Errorf("Details = %+v, want rating and review flags set", m.Details)
	}
}

func TestExtractSchemaScoreBounds(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	[{"@type":"Organization","name":"A"},
	 {"@type":"WebSite"},
	 {"@type":"WebPage"},
	 {"@type":"FAQPage"},
	 {"@type":"Product","aggregateRating":{"ratingValue":"5"},"reviews":[{}]}]
	</script></head><body></body></html>`

	m := extractSchema(docFrom(t, html), "https://acme.example/")
	if m.Score != 100 {
		t.Errorf("Score = %d, want capped at 100", m.Score)
	}
}

func TestExtractSchemaParseErrors(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">{not json at all</script>
	<script type="application/ld+json">{"@type":"WebSite"}</script>
	</head><body></body></html>`

	m := extractSchema(docFrom(t, html), "https://acme.example/")

	if !m.HasParseErrors {
		t.Error("HasParseErrors = false, want true for the malformed block")
	}
	// the valid block still counts
	if !m.Found || m.Count != 1 {
		t.Errorf("Found=%v Count=%d, want the valid block parsed", m.Found, m.Count)
	}
}

func TestExtractSchemaNoMarkup(t *testing.T) {
	m := extractSchema(docFrom(t, `<html><body><p>plain page</p></body></html>`), "https://acme.example/")
	if m.Found || m.Score != 0 {
		t.Errorf("Found=%v Score=%d, want empty result", m.Found, m.Score)
	}
	if len(m.Types) != 0 {
		t.Errorf("Types = %v, want empty slice", m.Types)
	}
}

func TestRecommendSchemasFAQ(t *testing.T) {
	html := `<html><body><h2>Frequently Asked Questions</h2><p>How does it work?</p></body></html>`
	m := extractSchema(docFrom(t, html), "https://acme.example/")

	if !hasRecommendation(m.Recommended, "FAQPage") {
		t.Errorf("Recommended = %+v, want FAQPage", m.Recommended)
	}
}

func TestRecommendSchemasServiceBeatsProduct(t *testing.T) {
	// both cue sets present: the service classification wins
	html := `<html><body>
	<p>Request a quote for our services today.</p>
	<p>Buy now and save.</p>
	</body></html>`
	m := extractSchema(docFrom(t, html), "https://acme.example/")

	if hasRecommendation(m.Recommended, "Product") {
		t.Errorf("Recommended = %+v, Product must lose to the service classification", m.Recommended)
	}
	if !hasRecommendation(m.Recommended, "Service") {
		t.Errorf("Recommended = %+v, want Service", m.Recommended)
	}
}

func TestRecommendSchemasArticleByPath(t *testing.T) {
	html := `<html><body><p>story text</p></body></html>`
	m := extractSchema(docFrom(t, html), "https://acme.example/blog/launch-post")

	if !hasRecommendation(m.Recommended, "Article") {
		t.Errorf("Recommended = %+v, want Article for a blog path", m.Recommended)
	}
}

func TestRecommendSchemasCap(t *testing.T) {
	// fire every trigger at once on an unmarked page
	html := `<html><body>
	<nav class="breadcrumb">Home › Blog</nav>
	<article><time datetime="2024-01-01">Jan</time>Frequently asked questions. faq faq</article>
	<p>Request a quote for our services. Buy now.</p>
	</body></html>`
	m := extractSchema(docFrom(t, html), "https://acme.example/blog/post")

	if len(m.Recommended) != maxSchemaRecommendations {
		t.Errorf("got %d recommendations, want capped at %d: %+v", len(m.Recommended), maxSchemaRecommendations, m.Recommended)
	}
}

func hasRecommendation(recs []audits.SchemaRecommendation, typ string) bool {
	for _, r := range recs {
		if r.Type == typ {
			return true
		}
	}
	return false
}
