// Package hazard derives quantified hazard metrics (hail diameter, peak wind
// speed) from free-text NWS alert bulletins.
//
// Bulletins are prose with inconsistent formatting, so extraction runs an
// ordered list of named strategies per hazard type. A higher-priority
// strategy that yields any match suppresses everything below it; multiple
// matches within the same strategy take the maximum. The order trades recall
// for precision: upstream-generated hazard lines are trusted over narrative
// phrasing, and a bare number is only trusted when the alert category
// strongly suggests wind.
package hazard

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hailscout/hailscout/internal/models"
)

var (
	// Structured hazard lines are machine-formatted by the NWS, e.g.
	// "MAX HAIL SIZE...1.75 IN" or "MAX WIND GUST...70 MPH".
	structuredHailRe = regexp.MustCompile(`(?i)max(?:imum)?\s+hail\s+size[^0-9]{0,10}(\d+(?:\.\d+)?)\s*in`)
	structuredWindRe = regexp.MustCompile(`(?i)max(?:imum)?\s+wind\s+gust[^0-9]{0,10}(\d+(?:\.\d+)?)\s*mph`)

	// Narrative phrasings, e.g. "hail up to 1.5 inches" or "wind gusts of 65 mph".
	phrasedHailRe    = regexp.MustCompile(`(?i)hail\s+(?:up\s+to|of)\s+(\d+(?:\.\d+)?)\s*inch(?:es)?`)
	phrasedHailAltRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*inch(?:es)?\s+(?:diameter\s+)?hail`)
	phrasedGustRe    = regexp.MustCompile(`(?i)wind\s+gusts?\s+(?:of|up\s+to)\s+(\d+(?:\.\d+)?)\s*mph`)
	phrasedSpeedRe   = regexp.MustCompile(`(?i)wind\s+speeds?\s+up\s+to\s+(\d+(?:\.\d+)?)\s*mph`)
	phrasedWindsUpRe = regexp.MustCompile(`(?i)winds\s+(?:of\s+)?(?:up\s+to|over)\s+(\d+(?:\.\d+)?)\s*mph`)

	// Last resort for wind only: any bare "NUMBER mph" occurrence.
	bareMphRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mph`)
)

// windContextKeywords gate the bare-mph fallback: a number with a unit is
// only trusted when the alert category itself is about wind.
var windContextKeywords = []string{"wind", "storm", "hurricane", "tornado"}

// content is one alert's text, pre-joined for pattern scans.
type content struct {
	eventType string
	headline  string
	combined  string
}

// strategy is one named extraction heuristic. It reports the best value it
// found and whether it matched at all; an unmatched strategy yields to the
// next one in priority order.
type strategy struct {
	name    string
	extract func(c content) (float64, bool)
}

var hailStrategies = []strategy{
	{name: "structured-hazard-line", extract: func(c content) (float64, bool) {
		return maxMatch(structuredHailRe, c.combined)
	}},
	{name: "phrased-mention", extract: func(c content) (float64, bool) {
		v1, ok1 := maxMatch(phrasedHailRe, c.combined)
		v2, ok2 := maxMatch(phrasedHailAltRe, c.combined)
		return maxOf(v1, v2), ok1 || ok2
	}},
	// No bare-number fallback for hail: hail must be explicitly tied to
	// the word "hail" or a unit term.
}

var windStrategies = []strategy{
	{name: "structured-hazard-line", extract: func(c content) (float64, bool) {
		return maxMatch(structuredWindRe, c.combined)
	}},
	{name: "phrased-mention", extract: func(c content) (float64, bool) {
		v1, ok1 := maxMatch(phrasedGustRe, c.combined)
		v2, ok2 := maxMatch(phrasedSpeedRe, c.combined)
		v3, ok3 := maxMatch(phrasedWindsUpRe, c.combined)
		return maxOf(v1, maxOf(v2, v3)), ok1 || ok2 || ok3
	}},
	{name: "bare-unit-gated", extract: func(c content) (float64, bool) {
		if !hasWindContext(c.eventType, c.headline) {
			return 0, false
		}
		return maxMatch(bareMphRe, c.combined)
	}},
}

// Extract derives hail size and wind speed from one alert's event type,
// headline and narrative body. A hazard with no matching pattern is 0.
func Extract(eventType, headline, description string) models.ExtractedHazard {
	c := content{
		eventType: eventType,
		headline:  headline,
		combined:  headline + "\n" + description,
	}
	return models.ExtractedHazard{
		HailInches: runStrategies(hailStrategies, c),
		WindMph:    runStrategies(windStrategies, c),
	}
}

// runStrategies applies strategies in priority order and stops at the first
// one that yields any match.
func runStrategies(strategies []strategy, c content) float64 {
	for _, s := range strategies {
		if v, ok := s.extract(c); ok {
			return v
		}
	}
	return 0
}

// maxMatch scans text for every occurrence of a single-capture pattern and
// returns the maximum parsed value.
func maxMatch(re *regexp.Regexp, text string) (float64, bool) {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, false
	}

	var best float64
	found := false
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		found = true
		if v > best {
			best = v
		}
	}
	return best, found
}

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func hasWindContext(eventType, headline string) bool {
	check := strings.ToLower(eventType + " " + headline)
	for _, kw := range windContextKeywords {
		if strings.Contains(check, kw) {
			return true
		}
	}
	return false
}
