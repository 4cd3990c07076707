package collector_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camlabs/cambench/internal/collector"
)

func TestCollector_SecondTally(t *testing.T) {
	t.Parallel()

	t.Run("boundary seconds are excluded", func(t *testing.T) {
		t.Parallel()
		tally := collector.NewSecondTally()
		// Partial startup second.
		tally.Record(200*time.Millisecond, true)
		tally.Record(900*time.Millisecond, true)
		// Analyzed window.
		for s := 1; s <= 10; s++ {
			tally.Record(time.Duration(s)*time.Second+500*time.Millisecond, true)
		}
		// Partial trailing seconds from the two-second overrun.
		tally.Record(11*time.Second+100*time.Millisecond, true)
		tally.Record(12 * time.Second, true)

		analyzed := tally.Analyzed(10)
		require.Len(t, analyzed, 10)
		assert.Equal(t, 1, analyzed[0].Second)
		assert.Equal(t, 10, analyzed[9].Second)
		for _, b := range analyzed {
			assert.Equal(t, 1, b.Count)
			assert.Zero(t, b.ErrorCount)
		}
	})

	t.Run("error in startup second creates a bucket and is excluded uniformly", func(t *testing.T) {
		t.Parallel()
		tally := collector.NewSecondTally()
		tally.Record(100*time.Millisecond, false)
		tally.Record(1500*time.Millisecond, false)
		tally.Record(1600*time.Millisecond, true)

		analyzed := tally.Analyzed(10)
		require.Len(t, analyzed, 1)
		assert.Equal(t, 1, analyzed[0].Second)
		assert.Equal(t, 1, analyzed[0].Count)
		assert.Equal(t, 1, analyzed[0].ErrorCount)
	})

	t.Run("seconds with zero events are absent", func(t *testing.T) {
		t.Parallel()
		tally := collector.NewSecondTally()
		tally.Record(1200*time.Millisecond, true)
		tally.Record(3200*time.Millisecond, true)

		analyzed := tally.Analyzed(3)
		require.Len(t, analyzed, 2)
		assert.Equal(t, 1, analyzed[0].Second)
		assert.Equal(t, 3, analyzed[1].Second)
	})

	t.Run("multiple events accumulate in one bucket", func(t *testing.T) {
		t.Parallel()
		tally := collector.NewSecondTally()
		tally.Record(2100*time.Millisecond, true)
		tally.Record(2500*time.Millisecond, true)
		tally.Record(2900*time.Millisecond, false)

		analyzed := tally.Analyzed(5)
		require.Len(t, analyzed, 1)
		assert.Equal(t, 2, analyzed[0].Second)
		assert.Equal(t, 2, analyzed[0].Count)
		assert.Equal(t, 1, analyzed[0].ErrorCount)
	})
}
