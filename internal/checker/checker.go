// Package checker runs the full check cycle: fetch a region's alerts,
// deduplicate, extract hazards, classify, consolidate, notify, record.
package checker

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hailscout/hailscout/internal/hazard"
	"github.com/hailscout/hailscout/internal/metrics"
	"github.com/hailscout/hailscout/internal/models"
	"github.com/hailscout/hailscout/internal/notify"
	"github.com/hailscout/hailscout/internal/storm"
)

// regionDelay spaces region processing to respect upstream rate limits.
const regionDelay = 2 * time.Second

// AlertFetcher provides a region's deduplicated, relevance-filtered alerts.
type AlertFetcher interface {
	FetchComprehensive(ctx context.Context, region string) []models.RawAlert
}

// SubscriberDirectory tells the checker which regions to visit and whom to
// notify.
type SubscriberDirectory interface {
	ListRegionsWithSubscribers() ([]string, error)
	ListRecipients(region string) ([]string, error)
}

// HistoryRecorder persists qualifying storms. Failures are logged, never
// propagated: history is fire-and-forget from the cycle's perspective.
type HistoryRecorder interface {
	RecordQualifyingStorm(s models.QualifyingStorm, region string, recordedAt time.Time) error
}

// DigestSender delivers one digest to a recipient list.
type DigestSender interface {
	SendCategoryDigest(ctx context.Context, digest *models.RegionDigest, recipients []string) notify.DeliveryResult
}

// StormHook is dispatched for each qualifying storm after classification,
// before notification. Hooks are side-effect seams (history, analytics) and
// must not influence the core decision.
type StormHook func(ctx context.Context, region string, s models.QualifyingStorm)

// CycleResult summarizes one full check cycle.
type CycleResult struct {
	RegionsChecked  int
	AlertsProcessed int
	StormsQualified int
	EmailsSent      int
	EmailsFailed    int
}

// Checker orchestrates check cycles. Regions are processed sequentially;
// one region's failure never aborts its siblings, and nothing in a cycle
// terminates the process.
type Checker struct {
	fetcher AlertFetcher
	subs    SubscriberDirectory
	history HistoryRecorder
	sender  DigestSender
	hooks   []StormHook
	logger  *slog.Logger
	clock   clockwork.Clock
	delay   time.Duration
}

func New(fetcher AlertFetcher, subs SubscriberDirectory, history HistoryRecorder, sender DigestSender, logger *slog.Logger) *Checker {
	return &Checker{
		fetcher: fetcher,
		subs:    subs,
		history: history,
		sender:  sender,
		logger:  logger,
		clock:   clockwork.NewRealClock(),
		delay:   regionDelay,
	}
}

// AddHook registers a post-classification hook. Hooks run in registration
// order.
func (c *Checker) AddHook(h StormHook) {
	c.hooks = append(c.hooks, h)
}

// RunCycle processes every region that has subscribers.
func (c *Checker) RunCycle(ctx context.Context) CycleResult {
	start := c.clock.Now()
	var result CycleResult

	regions, err := c.subs.ListRegionsWithSubscribers()
	if err != nil {
		c.logger.Error("list regions failed, skipping cycle", "error", err)
		return result
	}
	c.logger.Info("check cycle started", "regions", len(regions))

	for i, region := range regions {
		if ctx.Err() != nil {
			c.logger.Info("check cycle interrupted", "reason", ctx.Err())
			break
		}
		if i > 0 && !c.sleep(ctx, c.delay) {
			break
		}

		r := c.checkRegion(ctx, region)
		result.RegionsChecked++
		result.AlertsProcessed += r.AlertsProcessed
		result.StormsQualified += r.StormsQualified
		result.EmailsSent += r.EmailsSent
		result.EmailsFailed += r.EmailsFailed
	}

	elapsed := c.clock.Now().Sub(start)
	metrics.CheckCycleDuration.Observe(elapsed.Seconds())
	c.logger.Info("check cycle finished",
		"regions", result.RegionsChecked,
		"alerts", result.AlertsProcessed,
		"storms", result.StormsQualified,
		"emails_sent", result.EmailsSent,
		"emails_failed", result.EmailsFailed,
		"elapsed", elapsed,
	)
	return result
}

// checkRegion runs one region's pipeline end to end.
func (c *Checker) checkRegion(ctx context.Context, region string) CycleResult {
	var result CycleResult

	alerts := storm.Dedupe(c.fetcher.FetchComprehensive(ctx, region))
	result.AlertsProcessed = len(alerts)

	var qualifying []models.QualifyingStorm
	for _, alert := range alerts {
		hz := hazard.Extract(alert.EventType, alert.Headline, alert.Description)
		s, ok := storm.Classify(alert, hz, region)
		if !ok {
			continue
		}
		qualifying = append(qualifying, s)
		metrics.StormsQualified.WithLabelValues(region, categoryLabel(s)).Inc()

		for _, hook := range c.hooks {
			hook(ctx, region, s)
		}
	}
	result.StormsQualified = len(qualifying)
	if len(qualifying) == 0 {
		return result
	}

	recipients, err := c.subs.ListRecipients(region)
	if err != nil {
		c.logger.Error("list recipients failed", "region", region, "error", err)
		recipients = nil
	}

	digests := storm.Consolidate(region, qualifying)
	for _, d := range []*models.RegionDigest{digests.Hail, digests.Wind} {
		if d == nil {
			continue
		}
		dr := c.sender.SendCategoryDigest(ctx, d, recipients)
		result.EmailsSent += dr.Sent
		result.EmailsFailed += dr.Failed
	}

	now := c.clock.Now()
	for _, s := range qualifying {
		if err := c.history.RecordQualifyingStorm(s, region, now); err != nil {
			c.logger.Warn("record storm history failed", "region", region, "event", s.EventType, "error", err)
		}
	}
	return result
}

func categoryLabel(s models.QualifyingStorm) string {
	switch {
	case s.IsHurricane:
		return "hurricane"
	case s.IsHail:
		return "hail"
	default:
		return "wind"
	}
}

func (c *Checker) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := c.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
