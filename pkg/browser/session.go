// Package browser connects to a remote browser profile managed by a local
// anti-detect browser daemon and exposes the page-automation primitives the
// search driver needs: navigation, human-like typing into a named search
// box, text-marker counting, and full-page screenshots.
package browser

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session is an attached remote browser page. The underlying browser belongs
// to the daemon-managed profile; closing the session only detaches from it.
type Session struct {
	ProfileID string

	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page

	ConnectedAt time.Time
}

// Connect resolves profileRef, ensures the profile's browser is running, and
// attaches playwright over CDP. profileRef is either a stable profile ID or
// a positional reference (serial number or 1-based index) resolved via a
// list-lookup. An already-running browser is reused, never double-launched.
func Connect(ctx context.Context, daemon *DaemonClient, profileRef string) (*Session, error) {
	if err := daemon.Ping(ctx); err != nil {
		return nil, err
	}

	profileID, err := resolveProfile(ctx, daemon, profileRef)
	if err != nil {
		return nil, err
	}

	endpoint, err := attachEndpoint(ctx, daemon, profileID)
	if err != nil {
		return nil, err
	}

	// Run the playwright driver quietly; browsers come from the daemon, so
	// none need installing here.
	runOpts := &playwright.RunOptions{
		SkipInstallBrowsers: true,
		Verbose:             false,
		Stdout:              io.Discard,
		Stderr:              io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright driver: %w", err)
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.ConnectOverCDP(endpoint)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to attach to browser at %s: %w", endpoint, err)
	}

	page, err := firstPage(b)
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, err
	}

	return &Session{
		ProfileID:   profileID,
		pw:          pw,
		browser:     b,
		page:        page,
		ConnectedAt: time.Now(),
	}, nil
}

// resolveProfile maps a profile reference onto a profile ID. Non-numeric
// references are already IDs. Numeric references are matched against the
// daemon's serial numbers first, then treated as a 1-based list position.
func resolveProfile(ctx context.Context, daemon *DaemonClient, ref string) (string, error) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref, nil
	}

	profiles, err := daemon.ListProfiles(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range profiles {
		if p.SerialNumber == ref {
			return p.ID, nil
		}
	}
	if n >= 1 && n <= len(profiles) {
		return profiles[n-1].ID, nil
	}
	return "", fmt.Errorf("no profile matches %q (%d profiles known)", ref, len(profiles))
}

// attachEndpoint returns the profile's CDP websocket endpoint, reusing a
// running browser when the daemon reports one and starting it otherwise.
// An active profile can still be missing its endpoint (e.g. mid-startup);
// asking the daemon to start then is safe and yields the real endpoint
// instead of an opaque attach failure on an empty URL.
func attachEndpoint(ctx context.Context, daemon *DaemonClient, profileID string) (string, error) {
	state, err := daemon.BrowserState(ctx, profileID)
	if err != nil {
		return "", err
	}
	if state.Active() && state.Endpoint() != "" {
		return state.Endpoint(), nil
	}
	return daemon.StartBrowser(ctx, profileID)
}

// firstPage reuses the connected browser's existing context and page, or
// opens fresh ones if the profile came up empty.
func firstPage(b playwright.Browser) (playwright.Page, error) {
	contexts := b.Contexts()
	if len(contexts) == 0 {
		c, err := b.NewContext()
		if err != nil {
			return nil, fmt.Errorf("failed to create browser context: %w", err)
		}
		contexts = []playwright.BrowserContext{c}
	}

	pages := contexts[0].Pages()
	if len(pages) > 0 {
		return pages[0], nil
	}
	page, err := contexts[0].NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return page, nil
}

// navigateOptions makes every navigation wait for the load event.
var navigateOptions = playwright.PageGotoOptions{
	WaitUntil: playwright.WaitUntilStateLoad,
}

// searchBoxRole is the accessible role the search input is located by.
var searchBoxRole = *playwright.AriaRoleTextbox

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(url string) error {
	_, err := s.page.Goto(url, navigateOptions)
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// FillSearch locates the textbox with the given accessible name, clears it,
// and types value one character at a time with the given delay, emulating
// human input.
func (s *Session) FillSearch(name, value string, delay time.Duration) error {
	box := s.page.GetByRole(searchBoxRole, playwright.PageGetByRoleOptions{
		Name: name,
	})

	if err := box.Click(); err != nil {
		return fmt.Errorf("failed to focus search box %q: %w", name, err)
	}
	if err := box.Clear(); err != nil {
		return fmt.Errorf("failed to clear search box %q: %w", name, err)
	}
	err := box.PressSequentially(value, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(float64(delay.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("failed to type into search box %q: %w", name, err)
	}
	return nil
}

// WaitFor pauses for a fixed duration, letting the page settle.
func (s *Session) WaitFor(d time.Duration) {
	s.page.WaitForTimeout(float64(d.Milliseconds()))
}

// CountText returns how many elements on the page contain the given text.
func (s *Session) CountText(text string) (int, error) {
	count, err := s.page.GetByText(text).Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count occurrences of %q: %w", text, err)
	}
	return count, nil
}

// Content returns the page's current HTML.
func (s *Session) Content() (string, error) {
	html, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// Screenshot captures a full-page screenshot to path.
func (s *Session) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("screenshot to %s failed: %w", path, err)
	}
	return nil
}

// Close detaches from the remote browser and stops the playwright driver.
// The profile's browser keeps running under the daemon.
func (s *Session) Close() error {
	var firstErr error
	if err := s.browser.Close(); err != nil {
		firstErr = err
	}
	if err := s.pw.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
