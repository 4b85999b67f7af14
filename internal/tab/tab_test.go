package tab

import (
	"context"
	"testing"
)

func TestStripBrowserSuffix(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"chrome", "Team Sync - Google Chrome", "Team Sync"},
		{"firefox_em_dash", "Team Sync — Mozilla Firefox", "Team Sync"},
		{"chromium", "Release notes - Chromium", "Release notes"},
		{"no_suffix", "Team Sync", "Team Sync"},
		{"suffix_in_middle", "Google Chrome - Release notes", "Google Chrome - Release notes"},
		{"empty", "", ""},
	}

	for _, test := range tests {
		if got := stripBrowserSuffix(test.title); got != test.want {
			t.Fatalf("%s: stripBrowserSuffix(%q) = %q, want %q", test.name, test.title, got, test.want)
		}
	}
}

func TestHTTPURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"https", "https://x.com/doc", "https://x.com/doc", true},
		{"http", "http://example.org/a?b=c", "http://example.org/a?b=c", true},
		{"padded", "  https://x.com/doc\n", "https://x.com/doc", true},
		{"plain_text", "meeting notes", "", false},
		{"scheme_only", "https://", "", false},
		{"ftp", "ftp://example.org/file", "", false},
		{"empty", "", "", false},
	}

	for _, test := range tests {
		got, ok := httpURL(test.in)
		if ok != test.ok || got != test.want {
			t.Fatalf("%s: httpURL(%q) = (%q, %v), want (%q, %v)", test.name, test.in, got, ok, test.want, test.ok)
		}
	}
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{Info: Info{Title: "Team Sync", URL: "https://x.com/doc"}}
	info, err := src.ActiveTab(context.Background())
	if err != nil {
		t.Fatalf("ActiveTab() error: %v", err)
	}
	if info.Title != "Team Sync" || info.URL != "https://x.com/doc" {
		t.Fatalf("unexpected info: %+v", info)
	}
}
