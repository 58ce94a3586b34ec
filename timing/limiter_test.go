package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoOpLimiterNeverBlocks(t *testing.T) {
	l := NewNoOpLimiter()
	start := time.Now()
	l.WaitForNextFrame()
	l.Reset()
	assert.Less(t, time.Since(start), time.Millisecond)
}

func TestTargetFPSMatchesDMGFrameRate(t *testing.T) {
	fps := TargetFPS()
	assert.InDelta(t, 59.73, fps, 0.01)
}

func TestFixedLimiterSleepsRemainderOfFrame(t *testing.T) {
	var slept time.Duration
	now := time.Unix(0, 0)

	l := &fixedLimiter{
		frameDuration: 10 * time.Millisecond,
		now:           func() time.Time { return now },
		sleep:         func(d time.Duration) { slept = d; now = now.Add(d) },
	}
	l.Reset()

	now = now.Add(3 * time.Millisecond) // frame took 3ms to render
	l.WaitForNextFrame()

	assert.Equal(t, 7*time.Millisecond, slept)
}

func TestFixedLimiterDoesNotSleepWhenBehindSchedule(t *testing.T) {
	var slept time.Duration
	now := time.Unix(0, 0)

	l := &fixedLimiter{
		frameDuration: 10 * time.Millisecond,
		now:           func() time.Time { return now },
		sleep:         func(d time.Duration) { slept = d },
	}
	l.Reset()

	now = now.Add(15 * time.Millisecond) // frame took longer than budget
	l.WaitForNextFrame()

	assert.Zero(t, slept)
}
