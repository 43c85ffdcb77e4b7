package audits

// pwaCheck is one row of the installability rubric. The scorer and the
// issue-list generator both consume this table so the point values can never
// drift apart.
type pwaCheck struct {
	Name           string
	Points         int
	ManifestDetail bool // sub-check of the manifest; skipped when no manifest resolved
	Passed         func(f *PwaFacts) bool
	IssueTitle     string
	IssueDesc      string
}

var pwaRubric = []pwaCheck{
	{
		Name: "https", Points: 25,
		Passed:     func(f *PwaFacts) bool { return f.IsHTTPS },
		IssueTitle: "Not Served Over HTTPS",
		IssueDesc:  "Progressive web apps require a secure origin.",
	},
	{
		Name: "manifest-link", Points: 15,
		Passed:     func(f *PwaFacts) bool { return f.HasManifestLink },
		IssueTitle: "Missing Web App Manifest",
		IssueDesc:  "No <link rel=\"manifest\"> was found, so the app cannot be installed.",
	},
	{
		Name: "manifest-name", Points: 10, ManifestDetail: true,
		Passed:     func(f *PwaFacts) bool { return f.Manifest != nil && f.Manifest.HasName },
		IssueTitle: "Manifest Missing Name",
		IssueDesc:  "The manifest has no name or short_name for the install prompt.",
	},
	{
		Name: "manifest-icons", Points: 10, ManifestDetail: true,
		Passed:     func(f *PwaFacts) bool { return f.Manifest != nil && f.Manifest.HasIcons },
		IssueTitle: "Manifest Missing Icons",
		IssueDesc:  "The manifest declares no icons for home screens and splash screens.",
	},
	{
		Name: "manifest-start-url", Points: 10, ManifestDetail: true,
		Passed:     func(f *PwaFacts) bool { return f.Manifest != nil && f.Manifest.HasStartURL },
		IssueTitle: "Manifest Missing start_url",
		IssueDesc:  "The manifest has no start_url, so the installed app has no entry point.",
	},
	{
		Name: "manifest-display", Points: 5, ManifestDetail: true,
		Passed:     func(f *PwaFacts) bool { return f.Manifest != nil && f.Manifest.HasDisplay },
		IssueTitle: "Manifest Missing display Mode",
		IssueDesc:  "The manifest does not set a display mode such as standalone.",
	},
	{
		Name: "service-worker", Points: 15,
		Passed:     func(f *PwaFacts) bool { return f.HasServiceWorker },
		IssueTitle: "No Service Worker Detected",
		IssueDesc:  "No service worker registration was found, so the app cannot work offline.",
	},
	{
		Name: "apple-touch-icon", Points: 5,
		Passed:     func(f *PwaFacts) bool { return f.HasAppleTouchIcon },
		IssueTitle: "Missing Apple Touch Icon",
		IssueDesc:  "iOS devices fall back to a screenshot tile without an apple-touch-icon.",
	},
	{
		Name: "theme-color", Points: 5,
		Passed:     func(f *PwaFacts) bool { return f.HasThemeColor },
		IssueTitle: "Missing Theme Color",
		IssueDesc:  "No theme-color meta tag was found to tint the browser chrome.",
	},
	{
		Name: "viewport", Points: 0,
		Passed:     func(f *PwaFacts) bool { return f.HasViewport },
		IssueTitle: "Missing Viewport Meta Tag",
		IssueDesc:  "Without a viewport meta tag the app will not render responsively.",
	},
}

// PwaIssue is one entry of the user-facing installability breakdown.
type PwaIssue struct {
	Title       string `json:"title"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// ScorePwa evaluates the rubric against the facts. Manifest sub-checks can
// only pass when a manifest resolved, so a missing manifest forfeits those
// points implicitly.
func ScorePwa(f *PwaFacts) int {
	if f == nil {
		return 0
	}
	score := 0
	for _, c := range pwaRubric {
		if c.Passed(f) {
			score += c.Points
		}
	}
	return score
}

// GeneratePwaIssues lists every failed rubric check with its point value.
// Manifest sub-checks are omitted when no manifest was found: the missing
// manifest link already covers them.
func GeneratePwaIssues(f *PwaFacts) []PwaIssue {
	if f == nil {
		f = DegradedPwaFacts()
	}
	issues := []PwaIssue{}
	for _, c := range pwaRubric {
		if c.ManifestDetail && f.Manifest == nil {
			continue
		}
		if c.Passed(f) {
			continue
		}
		issues = append(issues, PwaIssue{
			Title:       c.IssueTitle,
			Points:      c.Points,
			Description: c.IssueDesc,
		})
	}
	return issues
}
