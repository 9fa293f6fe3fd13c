package audio

import (
	"sync"
	"time"
)

// Scheduler sequences streamed audio chunks for gap-free playback. Each
// chunk starts at max(previous chunk's end, now): a running watermark
// guarantees back-to-back playback with no overlap even when chunks arrive
// in bursts.
type Scheduler struct {
	mu          sync.Mutex
	now         func() time.Time
	watermark   time.Time
	outstanding int
}

// NewScheduler creates a scheduler using the given clock. A nil clock
// defaults to time.Now.
func NewScheduler(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now}
}

// Schedule assigns a start time to a chunk of the given duration and
// advances the watermark to the chunk's end. The caller does not block.
func (s *Scheduler) Schedule(d time.Duration) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	if s.watermark.After(start) {
		start = s.watermark
	}
	s.watermark = start.Add(d)
	s.outstanding++
	return start
}

// Done marks one scheduled chunk as finished playing and reports how many
// remain outstanding.
func (s *Scheduler) Done() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outstanding > 0 {
		s.outstanding--
	}
	return s.outstanding
}

// Outstanding returns the number of scheduled chunks not yet finished.
func (s *Scheduler) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outstanding
}

// Reset cancels all scheduled playback: the watermark is cleared so the
// next chunk starts at "now" rather than queueing behind stale audio.
// Used on interruption (barge-in) and on session close.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watermark = time.Time{}
	s.outstanding = 0
}

// Watermark returns the next available playback time.
func (s *Scheduler) Watermark() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watermark
}
