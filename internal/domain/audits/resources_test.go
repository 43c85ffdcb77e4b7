package audits

import (
	"fmt"
	"testing"
)

func TestExtractResourceBreakdown(t *testing.T) {
	perf := &PerformanceFacts{
		Requests: []NetworkRequest{
			{URL: "https://example.com/", TransferSizeBytes: 102400},
			{URL: "https://example.com/img/hero.jpg", TransferSizeBytes: 204800},
			{URL: "https://example.com/img/logo.svg", TransferSizeBytes: 10240},
			{URL: "https://cdn.example.net/app.js", TransferSizeBytes: 51200},
			{URL: "https://example.com/styles/main.css", TransferSizeBytes: 20480},
			{URL: "https://fonts.gstatic.com/font.woff2", TransferSizeBytes: 30720},
		},
	}

	bd := ExtractResourceBreakdown(perf, "https://example.com/")

	if bd.Images.Count != 2 || bd.Images.TotalKB != 210.0 {
		t.Errorf("Images = count %d total %.1f, want 2 / 210.0", bd.Images.Count, bd.Images.TotalKB)
	}
	if bd.Images.Entries[0].URL != "https://example.com/img/hero.jpg" {
		t.Errorf("images not sorted largest first: %+v", bd.Images.Entries)
	}
	if bd.Scripts.Count != 1 || bd.Scripts.TotalKB != 50.0 {
		t.Errorf("Scripts = count %d total %.1f, want 1 / 50.0", bd.Scripts.Count, bd.Scripts.TotalKB)
	}
	if bd.Fonts.Count != 1 || bd.Fonts.TotalKB != 30.0 {
		t.Errorf("Fonts = count %d total %.1f, want 1 / 30.0", bd.Fonts.Count, bd.Fonts.TotalKB)
	}
	if bd.Stylesheets.Count != 1 || bd.Stylesheets.TotalKB != 20.0 {
		t.Errorf("Stylesheets = count %d total %.1f, want 1 / 20.0", bd.Stylesheets.Count, bd.Stylesheets.TotalKB)
	}
	// the cross-origin script and font land in third-party as well
	if bd.ThirdParty.Count != 2 || bd.ThirdParty.TotalKB != 80.0 {
		t.Errorf("ThirdParty = count %d total %.1f, want 2 / 80.0", bd.ThirdParty.Count, bd.ThirdParty.TotalKB)
	}
	// the grand total counts every request exactly once, document included
	if bd.TotalKB != 410.0 {
		t.Errorf("TotalKB = %.1f, want 410.0", bd.TotalKB)
	}
}

func TestExtractResourceBreakdownCapsEntries(t *testing.T) {
	perf := &PerformanceFacts{}
	for i := 0; i < 7; i++ {
		perf.Requests = append(perf.Requests, NetworkRequest{
			URL:               fmt.Sprintf("https://example.com/img/photo-%d.jpg", i),
			TransferSizeBytes: int64((i + 1) * 1024),
		})
	}

	bd := ExtractResourceBreakdown(perf, "https://example.com/")

	if bd.Images.Count != 7 {
		t.Errorf("Count = %d, want the untruncated 7", bd.Images.Count)
	}
	if len(bd.Images.Entries) != 5 {
		t.Errorf("Entries = %d, want capped at 5", len(bd.Images.Entries))
	}
	// 1+2+...+7 KB
	if bd.Images.TotalKB != 28.0 {
		t.Errorf("TotalKB = %.1f, want 28.0 over all entries before truncation", bd.Images.TotalKB)
	}
	if bd.Images.Entries[0].SizeKB != 7.0 {
		t.Errorf("largest entry = %.1f, want 7.0", bd.Images.Entries[0].SizeKB)
	}
}

func TestExtractResourceBreakdownEmpty(t *testing.T) {
	bd := ExtractResourceBreakdown(nil, "https://example.com/")
	if bd.TotalKB != 0 || bd.Images.Count != 0 {
		t.Errorf("nil facts should produce an empty breakdown, got %+v", bd)
	}
}
