// Package fetch retrieves raw alerts for a region across its forecast zones,
// applying rate-limit pacing and a roof-damage relevance prefilter.
package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hailscout/hailscout/internal/hazard"
	"github.com/hailscout/hailscout/internal/metrics"
	"github.com/hailscout/hailscout/internal/models"
	"github.com/hailscout/hailscout/internal/storm"
	"github.com/hailscout/hailscout/internal/zones"
)

// HistoricalWindow is how far back FetchComprehensive looks for recently
// issued alerts on top of the currently active set.
const HistoricalWindow = 2 * time.Hour

// requestDelay paces per-zone requests to respect upstream rate limits.
const requestDelay = time.Second

// AlertSource is the upstream client surface the fetcher needs.
type AlertSource interface {
	ActiveAlertsForZone(ctx context.Context, zoneID string) ([]models.RawAlert, error)
	AlertsForArea(ctx context.Context, area string) ([]models.RawAlert, error)
}

// Fetcher pulls and prefilters alerts for one region at a time. A single
// zone's permanent failure never aborts the region; a region's failure never
// aborts its siblings.
type Fetcher struct {
	source   AlertSource
	logger   *slog.Logger
	clock    clockwork.Clock
	zonesFor func(region string) []string
	delay    time.Duration
}

func New(source AlertSource, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		source:   source,
		logger:   logger,
		clock:    clockwork.NewRealClock(),
		zonesFor: zones.ZonesFor,
		delay:    requestDelay,
	}
}

// FetchActive returns the relevant active alerts across every zone in the
// region's directory entry. Zone failures are logged and treated as zero
// alerts for that zone. A region with no configured zones yields nil.
func (f *Fetcher) FetchActive(ctx context.Context, region string) []models.RawAlert {
	zs := f.zonesFor(region)
	if len(zs) == 0 {
		f.logger.Info("region has no configured zones, skipping", "region", region)
		return nil
	}

	var out []models.RawAlert
	for i, zoneID := range zs {
		if i > 0 && !f.sleep(ctx, f.delay) {
			return out
		}

		alerts, err := f.source.ActiveAlertsForZone(ctx, zoneID)
		if err != nil {
			f.logger.Warn("zone fetch failed, skipping zone",
				"region", region, "zone", zoneID, "error", err)
			continue
		}
		out = append(out, filterRelevant(alerts)...)
	}
	metrics.AlertsFetched.WithLabelValues(region).Add(float64(len(out)))
	return out
}

// FetchRecentHistorical returns relevant alerts whose active window
// intersects the last hoursBack hours, via one region-wide request.
func (f *Fetcher) FetchRecentHistorical(ctx context.Context, region string, hoursBack time.Duration) []models.RawAlert {
	alerts, err := f.source.AlertsForArea(ctx, region)
	if err != nil {
		f.logger.Warn("historical fetch failed, treating as zero alerts",
			"region", region, "error", err)
		return nil
	}

	now := f.clock.Now()
	windowStart := now.Add(-hoursBack)

	var out []models.RawAlert
	for _, a := range alerts {
		if !windowIntersects(a, windowStart, now) {
			continue
		}
		hz := hazard.Extract(a.EventType, a.Headline, a.Description)
		if storm.Relevant(a, hz) {
			out = append(out, a)
		}
	}
	return out
}

// FetchComprehensive unions the active set with the recent historical set
// and collapses duplicates.
func (f *Fetcher) FetchComprehensive(ctx context.Context, region string) []models.RawAlert {
	alerts := f.FetchActive(ctx, region)
	alerts = append(alerts, f.FetchRecentHistorical(ctx, region, HistoricalWindow)...)
	return storm.Dedupe(alerts)
}

// windowIntersects reports whether the alert's onset..expires window overlaps
// [windowStart, now]. A zero onset counts as already started; a zero expiry
// counts as still active.
func windowIntersects(a models.RawAlert, windowStart, now time.Time) bool {
	if !a.OnsetTime.IsZero() && a.OnsetTime.After(now) {
		return false
	}
	if !a.ExpiresTime.IsZero() && a.ExpiresTime.Before(windowStart) {
		return false
	}
	return true
}

func filterRelevant(alerts []models.RawAlert) []models.RawAlert {
	var out []models.RawAlert
	for _, a := range alerts {
		hz := hazard.Extract(a.EventType, a.Headline, a.Description)
		if storm.Relevant(a, hz) {
			out = append(out, a)
		}
	}
	return out
}

func (f *Fetcher) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := f.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
