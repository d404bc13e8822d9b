package navigation

import (
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/cbsinteractive/pkg/timecode"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/timesheet/internal/timing"
)

// Fragment is a parsed deep link.
type Fragment struct {
	// ID is the target element id, percent-decoded and NFC-normalized. It may
	// still carry a leading scroll-suppression character; Resolver.Navigate
	// tries the id with and without it.
	ID string

	// Offset is the requested time in seconds, NaN when absent or malformed.
	Offset float64
}

// HasOffset reports whether the fragment carries a usable time offset.
func (f Fragment) HasOffset() bool {
	return !math.IsNaN(f.Offset)
}

var smpteClock = regexp.MustCompile(`^\d+:\d+:\d+(?:[:;]\d+)?$`)

var smpteRates = map[string]float64{
	"smpte":         25,
	"smpte-25":      25,
	"smpte-24":      24,
	"smpte-30":      30,
	"smpte-30-drop": 29.97,
}

// ParseFragment parses "#id[&t=offset][&other=...]". The leading "#" is
// optional. ok is false when there is no id.
func ParseFragment(s string) (Fragment, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	idPart, params, _ := strings.Cut(s, "&")
	f := Fragment{ID: decode(idPart), Offset: math.NaN()}
	for _, param := range strings.Split(params, "&") {
		key, value, ok := strings.Cut(param, "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "t") {
			f.Offset = parseOffset(decode(value))
			break
		}
	}
	return f, f.ID != ""
}

func decode(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		s = v
	}
	return norm.NFC.String(strings.TrimSpace(s))
}

// parseOffset reads a media-fragment time: a time literal with an optional
// "npt:" prefix, or an SMPTE timecode. An end time after a comma is dropped.
func parseOffset(v string) float64 {
	v, _, _ = strings.Cut(v, ",")
	v = strings.TrimSpace(v)
	if scheme, rest, ok := strings.Cut(v, ":"); ok {
		scheme = strings.ToLower(scheme)
		if scheme == "npt" {
			v = rest
		} else if fps, isSMPTE := smpteRates[scheme]; isSMPTE {
			return parseSMPTE(rest, fps)
		}
	}
	t := timing.ParseTime(v)
	if !isFinite(t) || t < 0 {
		return math.NaN()
	}
	return t
}

func parseSMPTE(v string, fps float64) float64 {
	if !smpteClock.MatchString(v) {
		return math.NaN()
	}
	// Parse reports io.EOF for timecodes without a frame field even though
	// the range is complete, so the format is checked up front instead.
	r, _ := timecode.Parse(v, fps)
	return r[1]
}

func isFinite(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0)
}
