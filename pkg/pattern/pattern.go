// Package pattern generates candidate number strings from a digit-pattern
// template. A template mixes literal digits with variable markers; every
// occurrence of one marker binds to the same digit, and distinct markers
// bind to pairwise-distinct digits. Literal digits are unconstrained and
// may repeat any value, including values held by markers.
package pattern

import (
	"fmt"
	"strings"
)

// MaxMarkers is the number of distinguishable variable markers a template
// may contain.
const MaxMarkers = 4

// markerAlphabet lists the recognized marker characters. Lowercase letters
// keep templates readable next to digit literals.
const markerAlphabet = "abcd"

// Template is a validated digit-pattern template.
type Template struct {
	raw     string
	markers []byte // distinct markers, in order of first appearance
}

// Parse validates raw and returns a Template. Valid characters are decimal
// digits and the markers 'a' through 'd'; anything else is a configuration
// error, reported before any enumeration or automation happens.
func Parse(raw string) (Template, error) {
	if raw == "" {
		return Template{}, fmt.Errorf("template is empty")
	}

	var markers []byte
	var seen [256]bool
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			// literal digit, no binding
		case strings.IndexByte(markerAlphabet, c) >= 0:
			if !seen[c] {
				seen[c] = true
				markers = append(markers, c)
			}
		default:
			return Template{}, fmt.Errorf("template %q: invalid character %q at position %d (want a digit or one of %q)", raw, c, i, markerAlphabet)
		}
	}
	if len(markers) > MaxMarkers {
		return Template{}, fmt.Errorf("template %q: %d distinct markers exceeds the maximum of %d", raw, len(markers), MaxMarkers)
	}

	return Template{raw: raw, markers: markers}, nil
}

// String returns the raw template text.
func (t Template) String() string { return t.raw }

// Len returns the template length, which equals the length of every
// candidate it produces.
func (t Template) Len() int { return len(t.raw) }

// MarkerCount returns the number of distinct variable markers present.
func (t Template) MarkerCount() int { return len(t.markers) }

// UniverseSize returns the number of candidates Enumerate produces: the
// falling factorial of the available digit count (10, or 9 when digit 4 is
// excluded) taken MarkerCount at a time.
func (t Template) UniverseSize(excludeFour bool) int {
	base := 10
	if excludeFour {
		base = 9
	}
	n := 1
	for i := 0; i < len(t.markers); i++ {
		n *= base - i
	}
	return n
}

// Enumerate produces every candidate string for this template. Markers are
// assigned by backtracking in order of first appearance: each marker takes a
// digit 0-9 not already bound to an earlier marker, skipping 4 when
// excludeFour is set. Literal digits pass through untouched, so a literal
// '4' survives exclusion. The result is deterministic and duplicate-free;
// a template with no markers yields exactly the literal string.
func (t Template) Enumerate(excludeFour bool) []string {
	out := make([]string, 0, t.UniverseSize(excludeFour))
	bound := make(map[byte]byte, len(t.markers))
	var used [10]bool

	var assign func(idx int)
	assign = func(idx int) {
		if idx == len(t.markers) {
			out = append(out, t.materialize(bound))
			return
		}
		m := t.markers[idx]
		for d := byte(0); d <= 9; d++ {
			if used[d] {
				continue
			}
			if excludeFour && d == 4 {
				continue
			}
			used[d] = true
			bound[m] = d
			assign(idx + 1)
			used[d] = false
			delete(bound, m)
		}
	}
	assign(0)

	return out
}

// materialize substitutes each marker occurrence with its bound digit.
func (t Template) materialize(bound map[byte]byte) string {
	buf := make([]byte, len(t.raw))
	for i := 0; i < len(t.raw); i++ {
		c := t.raw[i]
		if c >= '0' && c <= '9' {
			buf[i] = c
		} else {
			buf[i] = '0' + bound[c]
		}
	}
	return string(buf)
}
