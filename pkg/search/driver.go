// Package search runs the candidate search loop: pick a not-yet-searched
// candidate at random, drive it through the signup page, persist the
// outcome, and repeat until every candidate has been attempted.
package search

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/entrhq/numseek/pkg/browser"
	"github.com/entrhq/numseek/pkg/logging"
	"github.com/entrhq/numseek/pkg/progress"
)

// summaryMaxLength bounds the results-page summary recorded per hit.
const summaryMaxLength = 200

// Automator is the page-automation surface the driver needs. It is
// implemented by *browser.Session and faked in tests.
type Automator interface {
	Navigate(url string) error
	FillSearch(name, value string, delay time.Duration) error
	WaitFor(d time.Duration)
	CountText(text string) (int, error)
	Content() (string, error)
	Screenshot(path string) error
}

// Outcome classifies one completed candidate attempt.
type Outcome int

const (
	// OutcomeNotFound means the page showed its no-results marker.
	OutcomeNotFound Outcome = iota
	// OutcomeFound means at least one matching number was offered.
	OutcomeFound
)

// AttemptError reports the candidate whose automation failed. The candidate
// is not marked searched, so a later run retries it.
type AttemptError struct {
	Candidate string
	Err       error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("candidate %s: %v", e.Candidate, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// Config describes the target page and how to drive it.
type Config struct {
	TargetURL       string
	SearchBoxName   string
	NoResultsMarker string
	TypingDelay     time.Duration
	SettleWait      time.Duration
	ShotsDir        string
}

// Driver owns the remaining work set for one run and drains it one candidate
// at a time. Exactly one candidate is in flight at any moment.
type Driver struct {
	cfg     Config
	auto    Automator
	tracker *progress.Tracker
	results *logging.ResultLog
	log     *logging.Logger
	out     io.Writer
	rng     *rand.Rand
}

// NewDriver wires a driver. Progress messages go to stdout unless redirected
// with SetOutput.
func NewDriver(cfg Config, auto Automator, tracker *progress.Tracker, results *logging.ResultLog, log *logging.Logger) *Driver {
	return &Driver{
		cfg:     cfg,
		auto:    auto,
		tracker: tracker,
		results: results,
		log:     log,
		out:     os.Stdout,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetOutput redirects human-readable progress messages.
func (d *Driver) SetOutput(w io.Writer) { d.out = w }

// Run attempts every universe candidate not already recorded as searched.
// Each completed attempt is persisted before the next one starts; an
// automation failure stops the run with the record exactly as it was before
// the failing attempt.
func (d *Driver) Run(universe []string) error {
	// The remaining set is a map for O(1) membership and removal, with an
	// ordered view for uniform random selection.
	view := d.tracker.Remaining(universe)
	remaining := make(map[string]int, len(view))
	for i, c := range view {
		remaining[c] = i
	}

	d.printf("universe %d candidates, %d searched, %d remaining\n",
		len(universe), d.tracker.SearchedCount(), len(view))

	for len(view) > 0 {
		candidate := view[d.rng.Intn(len(view))]

		outcome, err := d.attempt(candidate)
		if err != nil {
			d.log.Errorf("candidate %s failed: %v", candidate, err)
			return &AttemptError{Candidate: candidate, Err: err}
		}
		if err := d.tracker.MarkSearched(candidate); err != nil {
			return err
		}

		i := remaining[candidate]
		last := len(view) - 1
		view[i] = view[last]
		remaining[view[i]] = i
		view = view[:last]
		delete(remaining, candidate)

		switch outcome {
		case OutcomeFound:
			d.printf("FOUND %s (%d searched, %d remaining)\n",
				candidate, d.tracker.SearchedCount(), len(view))
			d.log.Infof("found %s", candidate)
		default:
			d.printf("no match for %s (%d searched, %d remaining)\n",
				candidate, d.tracker.SearchedCount(), len(view))
			d.log.Infof("no match for %s", candidate)
		}
	}

	d.printf("search complete: all %d candidates attempted\n", len(universe))
	return nil
}

// attempt drives one candidate through the page and classifies the result.
func (d *Driver) attempt(candidate string) (Outcome, error) {
	if err := d.auto.Navigate(d.cfg.TargetURL); err != nil {
		return OutcomeNotFound, err
	}
	if err := d.auto.FillSearch(d.cfg.SearchBoxName, candidate, d.cfg.TypingDelay); err != nil {
		return OutcomeNotFound, err
	}
	d.auto.WaitFor(d.cfg.SettleWait)

	misses, err := d.auto.CountText(d.cfg.NoResultsMarker)
	if err != nil {
		return OutcomeNotFound, err
	}
	if misses > 0 {
		return OutcomeNotFound, nil
	}

	if err := d.recordFound(candidate); err != nil {
		return OutcomeNotFound, err
	}
	return OutcomeFound, nil
}

// recordFound captures the evidence for a hit: a full-page screenshot named
// from the candidate and timestamp, and one results-log line.
func (d *Driver) recordFound(candidate string) error {
	if err := os.MkdirAll(d.cfg.ShotsDir, 0750); err != nil {
		return fmt.Errorf("failed to create screenshot directory %s: %w", d.cfg.ShotsDir, err)
	}

	now := time.Now()
	shot := filepath.Join(d.cfg.ShotsDir,
		fmt.Sprintf("%s-%s.png", candidate, now.Format("20060102-150405")))
	if err := d.auto.Screenshot(shot); err != nil {
		return err
	}

	// The page summary is best effort; a hit is still recorded without one.
	summary := ""
	if html, err := d.auto.Content(); err == nil {
		if text, err := browser.VisibleText(html, summaryMaxLength); err == nil {
			summary = text
		}
	} else {
		d.log.Warnf("could not read page content for %s: %v", candidate, err)
	}

	return d.results.Record(now, candidate, shot, summary)
}

func (d *Driver) printf(format string, v ...interface{}) {
	fmt.Fprintf(d.out, format, v...)
}
