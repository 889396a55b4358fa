// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out tickers driven by an explicit channel.
type fakeClock struct {
	ch chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ch: make(chan time.Time)}
}

func (f *fakeClock) NewTicker(time.Duration) Ticker { return &fakeTicker{ch: f.ch} }

// tick delivers one tick and waits for the scheduler to consume it.
func (f *fakeClock) tick(t *testing.T) {
	t.Helper()
	select {
	case f.ch <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not consume tick")
	}
}

type fakeTicker struct {
	ch chan time.Time
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

func waitForCount(t *testing.T, counter *atomic.Int64, want int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		return counter.Load() == want
	}, time.Second, time.Millisecond)
}

func TestImmediateRunThenTicks(t *testing.T) {
	clock := newFakeClock()
	var count atomic.Int64

	h := StartWithClock(context.Background(), "test", 30*time.Second, func(context.Context) {
		count.Add(1)
	}, clock)
	defer h.Stop()

	// One run fires immediately on start.
	waitForCount(t, &count, 1)

	// 45 seconds of simulated wall time at a 30s interval is one tick:
	// two runs total.
	clock.tick(t)
	waitForCount(t, &count, 2)

	clock.tick(t)
	waitForCount(t, &count, 3)
}

func TestStopPreventsFurtherRuns(t *testing.T) {
	clock := newFakeClock()
	var count atomic.Int64

	h := StartWithClock(context.Background(), "test", time.Second, func(context.Context) {
		count.Add(1)
	}, clock)
	waitForCount(t, &count, 1)

	h.Stop()
	h.Drain()

	// A tick after Stop finds no scheduler loop listening.
	select {
	case clock.ch <- time.Now():
		t.Fatal("tick consumed after Stop")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, int64(1), count.Load())
}

func TestStopIsIdempotent(t *testing.T) {
	h := StartWithClock(context.Background(), "test", time.Second, func(context.Context) {}, newFakeClock())
	h.Stop()
	h.Stop()
}

func TestContextCancelStopsSchedule(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := newFakeClock()
	var count atomic.Int64

	h := StartWithClock(ctx, "test", time.Second, func(context.Context) {
		count.Add(1)
	}, clock)
	waitForCount(t, &count, 1)

	cancel()
	h.Stop() // returns once the loop has exited
	assert.Equal(t, int64(1), count.Load())
}

func TestSlowTaskDoesNotBlockNextTick(t *testing.T) {
	clock := newFakeClock()
	release := make(chan struct{})
	var started atomic.Int64

	h := StartWithClock(context.Background(), "test", time.Second, func(context.Context) {
		started.Add(1)
		<-release
	}, clock)
	defer func() {
		close(release)
		h.Stop()
		h.Drain()
	}()

	waitForCount(t, &started, 1)

	// The first run is still blocked; ticks must keep starting new runs.
	clock.tick(t)
	waitForCount(t, &started, 2)
	clock.tick(t)
	waitForCount(t, &started, 3)
}

func TestPanicInTaskIsContained(t *testing.T) {
	clock := newFakeClock()
	var count atomic.Int64

	h := StartWithClock(context.Background(), "test", time.Second, func(context.Context) {
		count.Add(1)
		panic("boom")
	}, clock)
	defer h.Stop()

	waitForCount(t, &count, 1)
	clock.tick(t)
	waitForCount(t, &count, 2)
}
