package audits

import (
	"net/url"
	"path"
	"sort"
	"strings"
)

// Per-bucket entry caps for the user-facing breakdown.
const (
	maxImageEntries      = 5
	maxScriptEntries     = 5
	maxFontEntries       = 5
	maxStylesheetEntries = 3
	maxThirdPartyEntries = 8
)

// ResourceEntry is one network request sized in KB.
type ResourceEntry struct {
	URL    string  `json:"url"`
	SizeKB float64 `json:"size_kb"`
}

// ResourceBucket is a truncated, size-ordered slice of requests with totals
// computed over the whole bucket before truncation.
type ResourceBucket struct {
	Entries []ResourceEntry `json:"entries"`
	Count   int             `json:"count"`
	TotalKB float64         `json:"total_kb"`
}

// ResourceBreakdown groups a page's network requests by type and origin.
type ResourceBreakdown struct {
	Images      ResourceBucket `json:"images"`
	Scripts     ResourceBucket `json:"scripts"`
	Fonts       ResourceBucket `json:"fonts"`
	Stylesheets ResourceBucket `json:"stylesheets"`
	ThirdParty  ResourceBucket `json:"third_party"`
	TotalKB     float64        `json:"total_kb"`
}

var (
	imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true, ".avif": true, ".ico": true}
	scriptExts = map[string]bool{".js": true, ".mjs": true}
	fontExts   = map[string]bool{".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true}
)

// ExtractResourceBreakdown buckets the raw network requests by extension and
// origin. A cross-origin image lands in both the image and third-party
// buckets; the grand total counts each request once.
func ExtractResourceBreakdown(perf *PerformanceFacts, targetURL string) ResourceBreakdown {
	var bd ResourceBreakdown
	if perf == nil || len(perf.Requests) == 0 {
		return bd
	}

	targetHost := hostOf(targetURL)

	var images, scripts, fonts, styles, third []ResourceEntry
	for _, req := range perf.Requests {
		entry := ResourceEntry{URL: req.URL, SizeKB: float64(req.TransferSizeBytes) / 1024}
		bd.TotalKB += entry.SizeKB

		ext := strings.ToLower(path.Ext(pathOf(req.URL)))
		switch {
		case imageExts[ext]:
			images = append(images, entry)
		case scriptExts[ext]:
			scripts = append(scripts, entry)
		case fontExts[ext]:
			fonts = append(fonts, entry)
		case ext == ".css":
			styles = append(styles, entry)
		}

		if h := hostOf(req.URL); h != "" && targetHost != "" && h != targetHost {
			third = append(third, entry)
		}
	}

	bd.Images = bucket(images, maxImageEntries)
	bd.Scripts = bucket(scripts, maxScriptEntries)
	bd.Fonts = bucket(fonts, maxFontEntries)
	bd.Stylesheets = bucket(styles, maxStylesheetEntries)
	bd.ThirdParty = bucket(third, maxThirdPartyEntries)
	bd.TotalKB = roundKB(bd.TotalKB)
	return bd
}

func bucket(entries []ResourceEntry, cap int) ResourceBucket {
	b := ResourceBucket{Count: len(entries)}
	for _, e := range entries {
		b.TotalKB += e.SizeKB
	}
	b.TotalKB = roundKB(b.TotalKB)

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].SizeKB > entries[j].SizeKB })
	if len(entries) > cap {
		entries = entries[:cap]
	}
	for i := range entries {
		entries[i].SizeKB = roundKB(entries[i].SizeKB)
	}
	b.Entries = entries
	return b
}

func roundKB(kb float64) float64 {
	return float64(int(kb*10+0.5)) / 10
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}
