package checker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRejectsBadSpec(t *testing.T) {
	c := newTestChecker(&fakeFetcher{}, &fakeDirectory{}, &fakeHistory{}, &fakeSender{})
	err := c.Schedule(context.Background(), "not a cron spec")
	assert.Error(t, err)
}

func TestScheduleRunsImmediateCycleAndStops(t *testing.T) {
	fetcher := &fakeFetcher{}
	dir := &fakeDirectory{regions: []string{"TX"}}
	c := newTestChecker(fetcher, dir, &fakeHistory{}, &fakeSender{})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Schedule(ctx, "*/30 * * * *") }()

	require.Eventually(t, func() bool { return len(fetcher.callRegions()) >= 1 },
		2*time.Second, 10*time.Millisecond, "the first cycle runs without waiting for the cron tick")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Schedule did not return after cancellation")
	}
}
