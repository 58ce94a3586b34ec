// Package timing provides frame-pacing for front-ends driving the core at
// the real DMG frame rate, independent of the core itself (RunFrame never
// sleeps — pacing is strictly a front-end concern).
package timing

import "time"

// Limiter paces successive calls to RunFrame against wall-clock time.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame. Returns
	// immediately if timing is already behind schedule.
	WaitForNextFrame()

	// Reset clears the timing baseline, e.g. after the front-end was paused.
	Reset()
}

// NewNoOpLimiter returns a Limiter that never blocks, for headless or
// as-fast-as-possible runs.
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// Game Boy timing constants.
const (
	CyclesPerFrame = 70224
	CPUFrequency   = 4194304
)

// TargetFPS is the exact DMG frame rate, CPUFrequency/CyclesPerFrame.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration is the wall-clock duration of a single frame at TargetFPS.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// fixedLimiter paces frames to wall-clock time using a fixed target frame
// duration, sleeping off any time left over after a frame was produced.
type fixedLimiter struct {
	frameDuration time.Duration
	lastFrame     time.Time
	sleep         func(time.Duration)
	now           func() time.Time
}

// NewFixedLimiter returns a Limiter that sleeps to hold RunFrame calls to
// the real DMG frame rate.
func NewFixedLimiter() Limiter {
	l := &fixedLimiter{
		frameDuration: FrameDuration(),
		sleep:         time.Sleep,
		now:           time.Now,
	}
	l.Reset()
	return l
}

func (l *fixedLimiter) WaitForNextFrame() {
	elapsed := l.now().Sub(l.lastFrame)
	if remaining := l.frameDuration - elapsed; remaining > 0 {
		l.sleep(remaining)
	}
	l.lastFrame = l.now()
}

func (l *fixedLimiter) Reset() {
	l.lastFrame = l.now()
}
