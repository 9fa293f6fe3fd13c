package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixedClock returns a clock pinned to t0 until advanced.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func TestScheduler_BackToBackChunks(t *testing.T) {
	t0 := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	clock := &fixedClock{t: t0}
	s := NewScheduler(clock.now)

	// Three chunks arrive in a burst, before any playback has finished.
	start1 := s.Schedule(500 * time.Millisecond)
	start2 := s.Schedule(300 * time.Millisecond)
	start3 := s.Schedule(200 * time.Millisecond)

	assert.Equal(t, t0, start1)
	assert.Equal(t, t0.Add(500*time.Millisecond), start2)
	assert.Equal(t, t0.Add(800*time.Millisecond), start3)
	assert.Equal(t, t0.Add(1000*time.Millisecond), s.Watermark())
	assert.Equal(t, 3, s.Outstanding())
}

func TestScheduler_GapAfterDrain(t *testing.T) {
	t0 := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	clock := &fixedClock{t: t0}
	s := NewScheduler(clock.now)

	s.Schedule(100 * time.Millisecond)
	s.Done()

	// Next chunk arrives after the previous one already finished; it must
	// start at "now", not at the stale watermark.
	clock.t = t0.Add(2 * time.Second)
	start := s.Schedule(100 * time.Millisecond)
	assert.Equal(t, clock.t, start)
}

func TestScheduler_InterruptionResetsWatermark(t *testing.T) {
	t0 := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	clock := &fixedClock{t: t0}
	s := NewScheduler(clock.now)

	s.Schedule(5 * time.Second)
	s.Schedule(5 * time.Second)
	assert.Equal(t, 2, s.Outstanding())

	// Barge-in: everything cancelled, next chunk starts from "now".
	s.Reset()
	assert.Equal(t, 0, s.Outstanding())

	clock.t = t0.Add(time.Second)
	start := s.Schedule(200 * time.Millisecond)
	assert.Equal(t, clock.t, start)
}

func TestScheduler_DoneCountsDown(t *testing.T) {
	s := NewScheduler(nil)

	s.Schedule(10 * time.Millisecond)
	s.Schedule(10 * time.Millisecond)

	assert.Equal(t, 1, s.Done())
	assert.Equal(t, 0, s.Done())
	// Done on an empty scheduler stays at zero.
	assert.Equal(t, 0, s.Done())
}
