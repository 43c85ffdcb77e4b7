package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uptrade-media/audit-engine/internal/domain/audits"
	"github.com/uptrade-media/audit-engine/internal/infra/analyzers/fetch"
)

const localBusinessHTML = `<!DOCTYPE html>
<html>
<head>
<title>Smith Plumbing | Emergency Plumbers in Denver</title>
<meta name="description" content="Smith Plumbing offers 24/7 emergency plumbing across the Denver metro area. Licensed, insured, and trusted by homeowners for over twenty years.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta property="og:title" content="Smith Plumbing">
<link rel="canonical" href="https://smithplumbing.example/">
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"LocalBusiness","name":"Smith Plumbing","url":"https://smithplumbing.example/","aggregateRating":{"@type":"AggregateRating","ratingValue":"4.8"}}
</script>
</head>
<body>
<h1>Emergency Plumbing in Denver</h1>
<p>Call us any time.</p>
</body>
</html>`

func newTestAnalyzer(handler http.Handler) (*Analyzer, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(fetch.NewCache(5 * time.Second)), srv
}

func TestAnalyzeExtractsPageFacts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Write([]byte(localBusinessHTML))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	a, srv := newTestAnalyzer(mux)
	defer srv.Close()

	facts, err := a.Analyze(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, "Smith Plumbing | Emergency Plumbers in Denver", facts.Title)
	assert.Equal(t, len(facts.Title), facts.TitleLength)
	assert.NotZero(t, facts.MetaDescriptionLength)
	assert.True(t, facts.HasH1)
	assert.Equal(t, 1, facts.H1Count)
	assert.Equal(t, "Emergency Plumbing in Denver", facts.H1Text)
	assert.Equal(t, "https://smithplumbing.example/", facts.Canonical)
	assert.Equal(t, "Smith Plumbing", facts.OGTitle)
	assert.True(t, facts.HasViewport)
	assert.True(t, facts.HasRobotsTxt)
	assert.False(t, facts.HasSitemap)

	// the test server speaks plain http
	assert.False(t, facts.IsHTTPS)
	assert.True(t, facts.Headers.HSTS)
	assert.True(t, facts.Headers.CSP)
	assert.Equal(t, 70, facts.SecurityScore)

	require.True(t, facts.Schema.Found)
	assert.True(t, facts.HasJSONLD)
	assert.Equal(t, []string{"LocalBusiness"}, facts.Schema.Types)

	recommended := map[string]bool{}
	for _, r := range facts.Schema.Recommended {
		recommended[r.Type] = true
	}
	// a LocalBusiness already covers the business identity slot
	assert.False(t, recommended["Organization"])
	assert.True(t, recommended["WebSite"])
	assert.True(t, recommended["WebPage"])
}

func TestAnalyzeDegradesOnFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // force a connection error

	a := New(fetch.NewCache(2 * time.Second))
	facts, err := a.Analyze(context.Background(), srv.URL+"/")

	require.NoError(t, err)
	assert.Equal(t, audits.DegradedPageFacts(), facts)
}

func TestSecurityScore(t *testing.T) {
	all := audits.SecurityHeaders{HSTS: true, XFrameOptions: true, XContentTypeOptions: true, CSP: true, ReferrerPolicy: true}

	tests := []struct {
		name    string
		isHTTPS bool
		headers audits.SecurityHeaders
		want    int
	}{
		{"nothing", false, audits.SecurityHeaders{}, 0},
		{"https only", true, audits.SecurityHeaders{}, 30},
		{"headers only", false, all, 70},
		{"everything", true, all, 100},
		{"https plus hsts", true, audits.SecurityHeaders{HSTS: true}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, securityScore(tt.isHTTPS, tt.headers))
		})
	}
}
