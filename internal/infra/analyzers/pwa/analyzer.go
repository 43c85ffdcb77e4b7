package pwa

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"

	"github.com/uptrade-media/audit-engine/internal/domain/audits"
	"github.com/uptrade-media/audit-engine/internal/infra/analyzers/fetch"
)

const maxManifestIcons = 5

// Analyzer checks installability signals: manifest, service worker, icons
// and theming. It shares the page cache with the page analyzer so the
// target document is fetched once per run.
type Analyzer struct {
	Fetch *fetch.Cache
}

func New(cache *fetch.Cache) *Analyzer {
	return &Analyzer{Fetch: cache}
}

// Analyze degrades to the zero-score facts on any top-level failure.
func (a *Analyzer) Analyze(ctx context.Context, targetURL string) (*audits.PwaFacts, error) {
	page, err := a.Fetch.Get(ctx, targetURL)
	if err != nil {
		log.Warn().Err(err).Str("url", targetURL).Msg("pwa fetch failed")
		return audits.DegradedPwaFacts(), nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		log.Warn().Err(err).Str("url", targetURL).Msg("pwa parse failed")
		return audits.DegradedPwaFacts(), nil
	}

	f := &audits.PwaFacts{}
	f.IsHTTPS = strings.HasPrefix(strings.ToLower(targetURL), "https://")

	manifestHref, hasManifest := doc.Find(`link[rel="manifest"]`).First().Attr("href")
	f.HasManifestLink = hasManifest

	_, f.HasAppleTouchIcon = doc.Find(`link[rel="apple-touch-icon"]`).First().Attr("href")
	_, f.HasThemeColor = doc.Find(`meta[name="theme-color"]`).First().Attr("content")
	_, f.HasViewport = doc.Find(`meta[name="viewport"]`).First().Attr("content")

	f.HasServiceWorker = a.detectServiceWorker(ctx, targetURL, page.Body)

	if hasManifest {
		if mu := resolveURL(targetURL, manifestHref); mu != "" {
			f.ManifestURL = mu
			f.Manifest = a.fetchManifest(ctx, mu)
		}
	}

	f.Score = audits.ScorePwa(f)
	return f, nil
}

// detectServiceWorker looks for registration text in the document source and
// only then falls back to probing /sw.js for a script content type.
func (a *Analyzer) detectServiceWorker(ctx context.Context, targetURL string, body []byte) bool {
	src := string(body)
	if strings.Contains(src, "navigator.serviceWorker.register") ||
		strings.Contains(src, "workbox") ||
		strings.Contains(src, "sw.js") {
		return true
	}

	u, err := url.Parse(targetURL)
	if err != nil || u.Host == "" {
		return false
	}
	resp, err := a.Fetch.Head(ctx, u.Scheme+"://"+u.Host+"/sw.js")
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	return strings.Contains(ct, "javascript") || strings.Contains(ct, "ecmascript")
}

// fetchManifest validates the linked manifest. Any fetch or parse failure is
// non-fatal: nil just means the manifest sub-checks cannot pass.
func (a *Analyzer) fetchManifest(ctx context.Context, manifestURL string) *audits.ManifestFacts {
	page, err := a.Fetch.Get(ctx, manifestURL)
	if err != nil || page.StatusCode < 200 || page.StatusCode >= 300 {
		return nil
	}

	var raw struct {
		Name            string `json:"name"`
		ShortName       string `json:"short_name"`
		StartURL        string `json:"start_url"`
		Display         string `json:"display"`
		ThemeColor      string `json:"theme_color"`
		BackgroundColor string `json:"background_color"`
		Icons           []struct {
			Src   string `json:"src"`
			Sizes string `json:"sizes"`
		} `json:"icons"`
	}
	if err := json.Unmarshal(page.Body, &raw); err != nil {
		return nil
	}

	m := &audits.ManifestFacts{
		HasName:            raw.Name != "" || raw.ShortName != "",
		HasIcons:           len(raw.Icons) > 0,
		HasStartURL:        raw.StartURL != "",
		HasDisplay:         raw.Display != "",
		HasThemeColor:      raw.ThemeColor != "",
		HasBackgroundColor: raw.BackgroundColor != "",
	}
	for i, ic := range raw.Icons {
		if i == maxManifestIcons {
			break
		}
		m.Icons = append(m.Icons, audits.ManifestIcon{Src: ic.Src, Sizes: ic.Sizes})
	}
	return m
}

func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}
