// Package tab captures the active browser tab from the host desktop. This is
// the popup's only view of the outside world at startup: a title to prefill
// the event summary and, when the platform can provide one, the tab URL.
package tab

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	log "github.com/sirupsen/logrus"
)

// Info is what the host can tell us about the active tab. URL may be empty
// when the platform exposes only window titles.
type Info struct {
	Title string
	URL   string
}

var ErrNoActiveTab = errors.New("no active browser tab found")

type Source interface {
	ActiveTab(ctx context.Context) (Info, error)
}

// StaticSource serves fixed info, used when the user passes --title/--url.
type StaticSource struct {
	Info Info
}

func (s StaticSource) ActiveTab(context.Context) (Info, error) {
	return s.Info, nil
}

// DesktopSource queries the frontmost browser window of the running desktop
// session. On macOS both title and URL are available through AppleScript; on
// Linux only the window title is, so the clipboard is consulted for a URL.
type DesktopSource struct{}

func (DesktopSource) ActiveTab(ctx context.Context) (Info, error) {
	switch runtime.GOOS {
	case "darwin":
		return macActiveTab(ctx)
	case "linux":
		return linuxActiveTab(ctx)
	default:
		return Info{}, ErrNoActiveTab
	}
}

// macBrowsers maps AppleScript application names to the script returning
// "title\nurl" for the active tab. Tried in order; only running apps are
// queried so we never launch a browser.
var macBrowsers = []struct {
	app    string
	script string
}{
	{"Google Chrome", `tell application "Google Chrome" to return (title of active tab of front window) & linefeed & (URL of active tab of front window)`},
	{"Brave Browser", `tell application "Brave Browser" to return (title of active tab of front window) & linefeed & (URL of active tab of front window)`},
	{"Safari", `tell application "Safari" to return (name of front document) & linefeed & (URL of front document)`},
}

func macActiveTab(ctx context.Context) (Info, error) {
	for _, browser := range macBrowsers {
		running, err := runOSA(ctx, fmt.Sprintf(`application %q is running`, browser.app))
		if err != nil || running != "true" {
			continue
		}
		out, err := runOSA(ctx, browser.script)
		if err != nil {
			log.Debugf("query %s: %v", browser.app, err)
			continue
		}
		title, rawURL, _ := strings.Cut(out, "\n")
		info := Info{Title: strings.TrimSpace(title)}
		if u, ok := httpURL(rawURL); ok {
			info.URL = u
		}
		if info.Title != "" || info.URL != "" {
			return info, nil
		}
	}
	return Info{}, ErrNoActiveTab
}

func linuxActiveTab(ctx context.Context) (Info, error) {
	out, err := exec.CommandContext(ctx, "xdotool", "getactivewindow", "getwindowname").Output()
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNoActiveTab, err)
	}
	title := stripBrowserSuffix(strings.TrimSpace(string(out)))
	if title == "" {
		return Info{}, ErrNoActiveTab
	}

	info := Info{Title: title}
	// X11 window titles carry no URL. If the user copied one it is likely
	// the page they want to capture.
	if clip, err := clipboard.ReadAll(); err == nil {
		if u, ok := httpURL(clip); ok {
			info.URL = u
		}
	}
	return info, nil
}

func runOSA(ctx context.Context, script string) (string, error) {
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

var browserSuffixes = []string{
	"Google Chrome",
	"Chromium",
	"Mozilla Firefox",
	"Brave",
	"Microsoft Edge",
	"Vivaldi",
	"Opera",
}

// stripBrowserSuffix removes the trailing " - <browser name>" decoration
// window managers show for browser windows.
func stripBrowserSuffix(title string) string {
	for _, suffix := range browserSuffixes {
		for _, sep := range []string{" - ", " — ", " – "} {
			if strings.HasSuffix(title, sep+suffix) {
				return strings.TrimSuffix(title, sep+suffix)
			}
		}
	}
	return title
}

// httpURL reports whether s is a usable http(s) URL, trimming whitespace.
func httpURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}
	return s, true
}
