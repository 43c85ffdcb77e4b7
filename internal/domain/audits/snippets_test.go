package audits

import (
	"strings"
	"testing"
)

func TestGenerateCodeSnippetsAllGatesOpen(t *testing.T) {
	m := &AuditMetrics{LCPMs: 4000, CLS: 0.2, Security: 50}
	page := &PageFacts{MetaDescriptionLength: 0}
	resources := ResourceBreakdown{
		Images: ResourceBucket{Entries: []ResourceEntry{{URL: "https://example.com/hero.jpg", SizeKB: 200}}},
		ThirdParty: ResourceBucket{Entries: []ResourceEntry{
			{URL: "https://cdn.a.com/x.js", SizeKB: 50},
			{URL: "https://cdn.a.com/y.js", SizeKB: 40},
			{URL: "https://cdn.b.com/z.js", SizeKB: 30},
		}},
	}

	got := GenerateCodeSnippets(m, page, resources)

	wantTitles := []string{
		"Lazy-load below-the-fold images",
		"Preconnect to third-party origins",
		"Add security headers",
		"Add a meta description",
		"Prevent layout shift",
	}
	if len(got) != len(wantTitles) {
		t.Fatalf("got %d snippets, want %d", len(got), len(wantTitles))
	}
	for i, w := range wantTitles {
		if got[i].Title != w {
			t.Errorf("snippet[%d] = %q, want %q", i, got[i].Title, w)
		}
		if got[i].Code == "" || got[i].Language == "" {
			t.Errorf("snippet[%d] %q missing code or language", i, got[i].Title)
		}
	}

	// preconnect dedupes by origin
	preconnect := got[1].Code
	if strings.Count(preconnect, "cdn.a.com") != 1 {
		t.Errorf("preconnect repeats an origin:\n%s", preconnect)
	}
	if !strings.Contains(preconnect, "cdn.b.com") {
		t.Errorf("preconnect missing second origin:\n%s", preconnect)
	}
}

func TestGenerateCodeSnippetsAllGatesClosed(t *testing.T) {
	m := &AuditMetrics{LCPMs: 2000, CLS: 0.05, Security: 100}
	page := &PageFacts{MetaDescriptionLength: 140}
	if got := GenerateCodeSnippets(m, page, ResourceBreakdown{}); len(got) != 0 {
		t.Errorf("got %d snippets, want none: %+v", len(got), got)
	}
}

func TestGenerateCodeSnippetsLCPNeedsImages(t *testing.T) {
	m := &AuditMetrics{LCPMs: 4000, Security: 100}
	page := &PageFacts{MetaDescriptionLength: 140}
	got := GenerateCodeSnippets(m, page, ResourceBreakdown{})
	for _, s := range got {
		if s.Title == "Lazy-load below-the-fold images" {
			t.Error("image snippet emitted without any image entries")
		}
	}
}
