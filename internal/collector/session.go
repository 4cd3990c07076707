package collector

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// metricsSession is the mutable state of one collector invocation:
// the ordered sample sequence, the per-second tally, the monotonic
// start timestamp, and the terminal-outcome counters. Owned exclusively
// by the collector call that created it and discarded after the final
// record is produced.
type metricsSession struct {
	clock clockwork.Clock
	start time.Time

	samples   []float64
	tally     *SecondTally
	successes int
	failures  int
}

func newSession(clock clockwork.Clock) *metricsSession {
	return &metricsSession{
		clock: clock,
		start: clock.Now(),
		tally: NewSecondTally(),
	}
}

func (s *metricsSession) elapsed() time.Duration {
	return s.clock.Since(s.start)
}

func (s *metricsSession) recordSuccess(elapsed time.Duration, sample float64) {
	s.samples = append(s.samples, sample)
	s.successes++
	s.tally.Record(elapsed, true)
}

func (s *metricsSession) recordFailure(elapsed time.Duration) {
	s.failures++
	s.tally.Record(elapsed, false)
}

// successRate is successes over terminal outcomes, 0 when nothing was
// attempted.
func (s *metricsSession) successRate() float64 {
	total := s.successes + s.failures
	if total == 0 {
		return 0
	}
	return float64(s.successes) / float64(total)
}
