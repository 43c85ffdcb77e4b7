package audits

import (
	"fmt"
	"testing"
)

func TestExtractOpportunities(t *testing.T) {
	perf := &PerformanceFacts{
		Audits: map[string]AuditEntry{
			"render-blocking-resources": {Title: "Eliminate render-blocking resources", DetailsType: "opportunity", Score: fp(0.3), SavingsMs: 500},
			"unused-javascript":         {Title: "Reduce unused JavaScript", DetailsType: "opportunity", Score: fp(0.1), SavingsMs: 1200},
			"uses-http2":                {Title: "Use HTTP/2", DetailsType: "opportunity", Score: fp(1)},
			"no-score":                  {Title: "Informational", DetailsType: "opportunity"},
			"mainthread-work-breakdown": {Title: "Minimize main-thread work", DetailsType: "table", Score: fp(0.2)},
		},
	}

	got := ExtractOpportunities(perf)

	if len(got) != 2 {
		t.Fatalf("got %d opportunities, want 2: %+v", len(got), got)
	}
	if got[0].ID != "unused-javascript" || got[1].ID != "render-blocking-resources" {
		t.Errorf("order = [%s, %s], want worst score first", got[0].ID, got[1].ID)
	}
	if got[0].SavingsMs != 1200 {
		t.Errorf("SavingsMs = %.0f, want 1200", got[0].SavingsMs)
	}
}

func TestExtractOpportunitiesTieBreaksByID(t *testing.T) {
	perf := &PerformanceFacts{
		Audits: map[string]AuditEntry{
			"b-audit": {Title: "B", DetailsType: "opportunity", Score: fp(0.2)},
			"a-audit": {Title: "A", DetailsType: "opportunity", Score: fp(0.2)},
		},
	}
	got := ExtractOpportunities(perf)
	if len(got) != 2 || got[0].ID != "a-audit" {
		t.Errorf("got %+v, want a-audit first on equal scores", got)
	}
}

func TestExtractOpportunitiesCap(t *testing.T) {
	perf := &PerformanceFacts{Audits: map[string]AuditEntry{}}
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("audit-%02d", i)
		perf.Audits[id] = AuditEntry{Title: id, DetailsType: "opportunity", Score: fp(float64(i) / 100)}
	}
	if got := ExtractOpportunities(perf); len(got) != 10 {
		t.Errorf("got %d opportunities, want capped at 10", len(got))
	}
}

func TestExtractOpportunitiesNil(t *testing.T) {
	if got := ExtractOpportunities(nil); len(got) != 0 {
		t.Errorf("got %+v, want empty", got)
	}
}
