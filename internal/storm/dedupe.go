package storm

import (
	"github.com/hailscout/hailscout/internal/models"
)

// dedupeKey identifies one physical event. Exact match only: two alerts
// differing in any key field are distinct events even if they describe
// overlapping geography. Onset is compared as an instant so that the same
// moment in different zone representations still collapses.
type dedupeKey struct {
	eventType string
	area      string
	onsetUnix int64
}

// Dedupe collapses alerts that describe the same physical event, keeping the
// first occurrence and preserving input order. Idempotent.
func Dedupe(alerts []models.RawAlert) []models.RawAlert {
	if len(alerts) == 0 {
		return alerts
	}

	seen := make(map[dedupeKey]bool, len(alerts))
	out := make([]models.RawAlert, 0, len(alerts))
	for _, a := range alerts {
		key := dedupeKey{eventType: a.EventType, area: a.AreaDescription, onsetUnix: a.OnsetTime.UnixNano()}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}
