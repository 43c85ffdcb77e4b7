package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/phuslu/log"

	"github.com/uptrade-media/audit-engine/internal/domain/audits"
)

const defaultBaseURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

var categories = []string{"performance", "accessibility", "best-practices", "seo", "pwa"}

// Client queries the PageSpeed Insights API for the mobile strategy.
// Provider failures degrade: the returned facts simply have no strategy
// data, and the orchestrator decides whether that is fatal.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Analyze runs the mobile strategy and maps the response into facts. Never
// returns an error for provider-side failures.
func (c *Client) Analyze(ctx context.Context, targetURL string) (*audits.PerformanceFacts, error) {
	facts := &audits.PerformanceFacts{}

	body, err := c.runStrategy(ctx, targetURL, "mobile")
	if err != nil {
		log.Warn().Err(err).Str("url", targetURL).Msg("pagespeed mobile strategy unavailable")
		return facts, nil
	}

	var resp psiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Warn().Err(err).Str("url", targetURL).Msg("pagespeed response unparseable")
		return facts, nil
	}

	facts.Mobile = resp.strategyScores()
	facts.Vitals = resp.vitals()
	facts.Requests = resp.networkRequests()
	facts.Audits = resp.auditEntries()
	facts.AccessibilityRefs = resp.accessibilityRefs()
	return facts, nil
}

func (c *Client) runStrategy(ctx context.Context, targetURL, strategy string) ([]byte, error) {
	q := url.Values{}
	q.Set("url", targetURL)
	q.Set("strategy", strategy)
	for _, cat := range categories {
		q.Add("category", cat)
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("pagespeed returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

//
// ==== RESPONSE MAPPING ====
//

type psiResponse struct {
	LighthouseResult struct {
		Categories map[string]struct {
			Score     *float64 `json:"score"`
			AuditRefs []struct {
				ID string `json:"id"`
			} `json:"auditRefs"`
		} `json:"categories"`
		Audits map[string]psiAudit `json:"audits"`
	} `json:"lighthouseResult"`
}

type psiAudit struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Score        *float64 `json:"score"`
	NumericValue float64  `json:"numericValue"`
	Details      struct {
		Type             string          `json:"type"`
		OverallSavingsMs float64         `json:"overallSavingsMs"`
		Items            json.RawMessage `json:"items"`
	} `json:"details"`
}

func (r *psiResponse) strategyScores() *audits.StrategyScores {
	if len(r.LighthouseResult.Categories) == 0 {
		return nil
	}
	s := &audits.StrategyScores{}
	if v := r.categoryScore("performance"); v != nil {
		s.Performance = v
	}
	if v := r.categoryScore("accessibility"); v != nil {
		s.Accessibility = v
	}
	if v := r.categoryScore("best-practices"); v != nil {
		s.BestPractices = v
	}
	if v := r.categoryScore("seo"); v != nil {
		s.SEO = v
	}
	return s
}

func (r *psiResponse) categoryScore(name string) *float64 {
	cat, ok := r.LighthouseResult.Categories[name]
	if !ok || cat.Score == nil {
		return nil
	}
	v := *cat.Score * 100
	return &v
}

func (r *psiResponse) vitals() audits.CoreWebVitals {
	num := func(id string) float64 {
		if a, ok := r.LighthouseResult.Audits[id]; ok {
			return a.NumericValue
		}
		return 0
	}
	return audits.CoreWebVitals{
		LCPMs:        num("largest-contentful-paint"),
		FCPMs:        num("first-contentful-paint"),
		CLS:          num("cumulative-layout-shift"),
		TBTMs:        num("total-blocking-time"),
		TTIMs:        num("interactive"),
		SpeedIndexMs: num("speed-index"),
		FIDMs:        num("max-potential-fid"),
	}
}

func (r *psiResponse) networkRequests() []audits.NetworkRequest {
	a, ok := r.LighthouseResult.Audits["network-requests"]
	if !ok || len(a.Details.Items) == 0 {
		return nil
	}
	var items []struct {
		URL          string `json:"url"`
		TransferSize int64  `json:"transferSize"`
	}
	if err := json.Unmarshal(a.Details.Items, &items); err != nil {
		return nil
	}
	out := make([]audits.NetworkRequest, 0, len(items))
	for _, it := range items {
		if it.URL == "" {
			continue
		}
		out = append(out, audits.NetworkRequest{URL: it.URL, TransferSizeBytes: it.TransferSize})
	}
	return out
}

func (r *psiResponse) auditEntries() map[string]audits.AuditEntry {
	if len(r.LighthouseResult.Audits) == 0 {
		return nil
	}
	out := make(map[string]audits.AuditEntry, len(r.LighthouseResult.Audits))
	for id, a := range r.LighthouseResult.Audits {
		out[id] = audits.AuditEntry{
			ID:          id,
			Title:       a.Title,
			Description: a.Description,
			Score:       a.Score,
			DetailsType: a.Details.Type,
			SavingsMs:   a.Details.OverallSavingsMs,
		}
	}
	return out
}

func (r *psiResponse) accessibilityRefs() []string {
	cat, ok := r.LighthouseResult.Categories["accessibility"]
	if !ok {
		return nil
	}
	refs := make([]string, 0, len(cat.AuditRefs))
	for _, ref := range cat.AuditRefs {
		refs = append(refs, ref.ID)
	}
	return refs
}
