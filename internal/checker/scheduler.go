package checker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Schedule runs one cycle immediately, then on the cron spec until the
// context is cancelled. Blocks until shutdown.
func (c *Checker) Schedule(ctx context.Context, spec string) error {
	cr := cron.New()
	_, err := cr.AddFunc(spec, func() {
		c.RunCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("parse cron spec %q: %w", spec, err)
	}

	c.RunCycle(ctx)
	cr.Start()

	<-ctx.Done()
	stopCtx := cr.Stop()
	// Let an in-flight cycle drain; it also watches ctx and exits early.
	<-stopCtx.Done()
	return nil
}
