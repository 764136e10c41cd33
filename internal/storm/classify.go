// Package storm applies the canvassing qualification rule to extracted
// hazard metrics, collapses duplicate bulletins, and consolidates a region's
// qualifying storms into per-category digests.
package storm

import (
	"regexp"
	"strings"

	"github.com/hailscout/hailscout/internal/models"
)

// Qualification thresholds. Hail at 1.0in and wind at 58mph are the NWS
// severe criteria and the floor at which roof damage claims become viable.
const (
	MinHailInches = 1.0
	MinWindMph    = 58.0
)

// Severity scores rank claim value by category, not meteorological intensity.
const (
	ScoreHurricane = 9
	ScoreHail      = 8
	ScoreWind      = 7
)

var (
	tornadoRe   = regexp.MustCompile(`(?i)tornado`)
	hurricaneRe = regexp.MustCompile(`(?i)hurricane|tropical\s+storm`)

	// zipRe scans narrative text for 5-digit tokens not embedded in a longer
	// digit run. Best-effort enrichment only.
	zipRe = regexp.MustCompile(`\b\d{5}\b`)
)

// Classify applies the qualification rule to one deduplicated alert and its
// extracted hazard. It returns the constructed storm and true, or a zero
// storm and false when the alert is rejected.
//
// Tornado exclusion is absolute and checked first: tornado damage claims
// follow a different business process and must never trigger canvassing
// alerts, regardless of any wind or hail metrics in the same bulletin.
func Classify(alert models.RawAlert, hz models.ExtractedHazard, region string) (models.QualifyingStorm, bool) {
	if tornadoRe.MatchString(alert.EventType) || tornadoRe.MatchString(alert.Headline) {
		return models.QualifyingStorm{}, false
	}

	isHurricane := hurricaneRe.MatchString(alert.EventType) || hurricaneRe.MatchString(alert.Headline)
	isHail := hz.HailInches >= MinHailInches
	isWind := hz.WindMph >= MinWindMph

	if !isHurricane && !isHail && !isWind {
		return models.QualifyingStorm{}, false
	}

	storm := models.QualifyingStorm{
		EventType:       alert.EventType,
		Headline:        alert.Headline,
		Description:     alert.Description,
		AreaDescription: alert.AreaDescription,
		Region:          region,
		SeverityLabel:   alert.SeverityLabel,
		SeverityScore:   severityScore(isHurricane, isHail),
		HailInches:      hz.HailInches,
		WindMph:         hz.WindMph,
		IsHail:          isHail,
		IsWind:          isWind,
		IsHurricane:     isHurricane,
		ZipCodes:        extractZips(alert),
		DamageEstimate:  damageEstimate(isHurricane, isHail),
		Recommendations: recommendations(isHurricane, isHail, isWind),
		OnsetTime:       alert.OnsetTime,
		ExpiresTime:     alert.ExpiresTime,
	}
	return storm, true
}

// severityScore ranks hurricane over hail over wind-only, reflecting typical
// claim value. The upstream severity label is deliberately ignored.
func severityScore(isHurricane, isHail bool) int {
	switch {
	case isHurricane:
		return ScoreHurricane
	case isHail:
		return ScoreHail
	default:
		return ScoreWind
	}
}

func damageEstimate(isHurricane, isHail bool) models.DamageEstimate {
	var jobs, avg int
	switch {
	case isHurricane:
		jobs, avg = 300, 12000
	case isHail:
		jobs, avg = 100, 9000
	default:
		jobs, avg = 50, 7000
	}
	return models.DamageEstimate{
		PotentialJobs:    jobs,
		AvgJobValue:      avg,
		TotalMarketValue: jobs * avg,
	}
}

func recommendations(isHurricane, isHail, isWind bool) []string {
	recs := []string{"Deploy canvassing teams to affected neighborhoods"}
	if isHurricane {
		recs = append(recs,
			"Offer emergency tarping before scheduling full inspections",
			"Coordinate with insurance adjusters early; expect catastrophe teams on site",
		)
	}
	if isHail {
		recs = append(recs,
			"Photograph hail impact marks on soft metals for claim documentation",
		)
	}
	if isWind {
		recs = append(recs,
			"Inspect for shingle uplift, creased tabs and missing ridge caps",
		)
	}
	return recs
}

// extractZips prefers structured geocodes, falling back to scanning the
// narrative for 5-digit tokens. Enrichment only, never a qualification input.
func extractZips(alert models.RawAlert) []string {
	if len(alert.Geocodes) > 0 {
		out := make([]string, len(alert.Geocodes))
		copy(out, alert.Geocodes)
		return out
	}

	matches := zipRe.FindAllString(alert.Description, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var zips []string
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		zips = append(zips, m)
	}
	return zips
}

// Relevant reports whether an alert is worth keeping at fetch time: either
// its extracted metrics already meet a qualification threshold, or its event
// text suggests a hail/wind/storm/hurricane hazard that classification
// should look at.
func Relevant(alert models.RawAlert, hz models.ExtractedHazard) bool {
	if hz.HailInches >= MinHailInches || hz.WindMph >= MinWindMph {
		return true
	}
	check := strings.ToLower(alert.EventType + " " + alert.Headline)
	for _, kw := range []string{"hail", "wind", "storm", "hurricane", "tropical"} {
		if strings.Contains(check, kw) {
			return true
		}
	}
	return false
}
