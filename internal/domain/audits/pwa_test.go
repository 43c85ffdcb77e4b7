package audits

import "testing"

func TestScorePwa(t *testing.T) {
	tests := []struct {
		name  string
		facts *PwaFacts
		want  int
	}{
		{"nil facts", nil, 0},
		{"nothing detected", &PwaFacts{}, 0},
		{
			name: "manifest linked but unreadable",
			facts: &PwaFacts{
				IsHTTPS:         true,
				HasManifestLink: true,
				// Manifest nil: the fetch failed, sub-checks forfeit their points
			},
			want: 40,
		},
		{
			name: "https with service worker only",
			facts: &PwaFacts{
				IsHTTPS:          true,
				HasServiceWorker: true,
			},
			want: 40,
		},
		{
			name: "everything passes",
			facts: &PwaFacts{
				IsHTTPS:           true,
				HasManifestLink:   true,
				HasServiceWorker:  true,
				HasAppleTouchIcon: true,
				HasThemeColor:     true,
				HasViewport:       true,
				Manifest: &ManifestFacts{
					HasName:     true,
					HasIcons:    true,
					HasStartURL: true,
					HasDisplay:  true,
				},
			},
			want: 100,
		},
		{
			name: "manifest resolved but sparse",
			facts: &PwaFacts{
				IsHTTPS:         true,
				HasManifestLink: true,
				Manifest:        &ManifestFacts{HasName: true},
			},
			want: 50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScorePwa(tt.facts); got != tt.want {
				t.Errorf("ScorePwa() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGeneratePwaIssuesSkipsManifestDetailsWithoutManifest(t *testing.T) {
	f := &PwaFacts{
		IsHTTPS:         true,
		HasManifestLink: true,
	}

	issues := GeneratePwaIssues(f)

	want := []PwaIssue{
		{Title: "No Service Worker Detected", Points: 15},
		{Title: "Missing Apple Touch Icon", Points: 5},
		{Title: "Missing Theme Color", Points: 5},
		{Title: "Missing Viewport Meta Tag", Points: 0},
	}
	if len(issues) != len(want) {
		t.Fatalf("got %d issues, want %d: %+v", len(issues), len(want), issues)
	}
	for i, w := range want {
		if issues[i].Title != w.Title || issues[i].Points != w.Points {
			t.Errorf("issue[%d] = %s/%d, want %s/%d", i, issues[i].Title, issues[i].Points, w.Title, w.Points)
		}
		if issues[i].Description == "" {
			t.Errorf("issue[%d] has no description", i)
		}
	}
}

func TestGeneratePwaIssuesWithManifest(t *testing.T) {
	f := &PwaFacts{
		IsHTTPS:         true,
		HasManifestLink: true,
		Manifest:        &ManifestFacts{HasName: true},
	}

	issues := GeneratePwaIssues(f)

	titles := map[string]bool{}
	for _, i := range issues {
		titles[i.Title] = true
	}
	for _, want := range []string{
		"Manifest Missing Icons",
		"Manifest Missing start_url",
		"Manifest Missing display Mode",
	} {
		if !titles[want] {
			t.Errorf("missing expected manifest issue %q", want)
		}
	}
	if titles["Manifest Missing Name"] {
		t.Error("name check passed but was still reported")
	}
}

func TestGeneratePwaIssuesNilFacts(t *testing.T) {
	issues := GeneratePwaIssues(nil)
	if len(issues) != 6 {
		t.Fatalf("got %d issues, want 6 top-level failures", len(issues))
	}
	if issues[0].Title != "Not Served Over HTTPS" || issues[0].Points != 25 {
		t.Errorf("issue[0] = %s/%d, want HTTPS/25", issues[0].Title, issues[0].Points)
	}
}

func TestGeneratePwaIssuesAllPassing(t *testing.T) {
	f := &PwaFacts{
		IsHTTPS:           true,
		HasManifestLink:   true,
		HasServiceWorker:  true,
		HasAppleTouchIcon: true,
		HasThemeColor:     true,
		HasViewport:       true,
		Manifest: &ManifestFacts{
			HasName:     true,
			HasIcons:    true,
			HasStartURL: true,
			HasDisplay:  true,
		},
	}
	if issues := GeneratePwaIssues(f); len(issues) != 0 {
		t.Errorf("got %d issues, want none: %+v", len(issues), issues)
	}
}
