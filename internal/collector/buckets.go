package collector

import (
	"sort"
	"time"
)

// SecondBucket holds the tallies for one integer elapsed-second of a
// collector run: how many units of work (frames, commands) completed
// and how many failed during that second.
type SecondBucket struct {
	Second     int
	Count      int
	ErrorCount int
}

// SecondTally converts a stream of (elapsed, outcome) events into
// per-second buckets. Buckets are created lazily on first observation
// in a second, for failures as well as successes, and never deleted
// during a run.
type SecondTally struct {
	buckets map[int]*SecondBucket
}

func NewSecondTally() *SecondTally {
	return &SecondTally{buckets: make(map[int]*SecondBucket)}
}

func (t *SecondTally) Record(elapsed time.Duration, success bool) {
	second := int(elapsed / time.Second)
	b, ok := t.buckets[second]
	if !ok {
		b = &SecondBucket{Second: second}
		t.buckets[second] = b
	}
	if success {
		b.Count++
	} else {
		b.ErrorCount++
	}
}

// Analyzed returns the buckets for seconds in [1, requestedSeconds],
// ordered by second. Second 0 (partial startup) and anything past the
// requested duration (partial trailing second, present because
// collectors run two seconds over budget) are excluded so per-second
// rate statistics stay unbiased. Seconds with zero events are simply
// absent; callers decide whether that degrades the run.
func (t *SecondTally) Analyzed(requestedSeconds int) []SecondBucket {
	out := make([]SecondBucket, 0, requestedSeconds)
	for second, b := range t.buckets {
		if second >= 1 && second <= requestedSeconds {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Second < out[j].Second })
	return out
}
