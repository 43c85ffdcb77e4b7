package audits

import "testing"

func TestExtractAccessibilityIssues(t *testing.T) {
	perf := &PerformanceFacts{
		AccessibilityRefs: []string{"color-contrast", "image-alt", "html-has-lang", "document-title", "not-in-audits"},
		Audits: map[string]AuditEntry{
			"color-contrast": {Title: "Background and foreground colors do not have sufficient contrast", Score: fp(0)},
			"image-alt":      {Title: "Image elements do not have [alt] attributes", Score: fp(0.4)},
			"html-has-lang":  {Title: "<html> element has a [lang] attribute", Score: fp(1)},
			"document-title": {Title: "Document has a <title> element", Score: fp(0.7)},
		},
	}

	got := ExtractAccessibilityIssues(perf)

	if len(got) != 3 {
		t.Fatalf("got %d issues, want 3: %+v", len(got), got)
	}
	if got[0].ID != "color-contrast" || got[0].Severity != SeverityCritical {
		t.Errorf("issue[0] = %s/%s, want color-contrast critical", got[0].ID, got[0].Severity)
	}
	if got[1].ID != "image-alt" || got[1].Severity != SeverityWarning {
		t.Errorf("issue[1] = %s/%s, want image-alt warning", got[1].ID, got[1].Severity)
	}
	if got[2].ID != "document-title" || got[2].Severity != SeverityInfo {
		t.Errorf("issue[2] = %s/%s, want document-title info", got[2].ID, got[2].Severity)
	}
}

func TestAccessibilitySeverityBands(t *testing.T) {
	tests := []struct {
		score float64
		want  Severity
	}{
		{0, SeverityCritical},
		{0.49, SeverityWarning},
		{0.5, SeverityInfo},
		{0.99, SeverityInfo},
	}
	for _, tt := range tests {
		if got := accessibilitySeverity(tt.score); got != tt.want {
			t.Errorf("accessibilitySeverity(%.2f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestExtractAccessibilityIssuesNil(t *testing.T) {
	if got := ExtractAccessibilityIssues(nil); len(got) != 0 {
		t.Errorf("got %+v, want empty", got)
	}
}
